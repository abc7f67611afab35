// Package stream defines the catalog record and the rules every record obeys at the write boundary.
package stream

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrEmptyName = errors.New("name must not be empty")
	ErrEmptyLink = errors.New("link must not be empty")
)

// Record is a single catalog entry.
type Record struct {
	// ID is assigned by the store on create and never changes.
	ID         int64
	Name       string
	Link       string
	Categories string
	Kind       Kind
}

// Normalize returns a copy with surrounding whitespace removed from every text field.
func (r Record) Normalize() Record {
	r.Name = strings.TrimSpace(r.Name)
	r.Link = strings.TrimSpace(r.Link)
	r.Categories = strings.TrimSpace(r.Categories)
	return r
}

// Validate checks the fields a record must carry before it may be written.
func (r Record) Validate() error {
	n := r.Normalize()
	if n.Name == "" {
		return ErrEmptyName
	}
	if n.Link == "" {
		return ErrEmptyLink
	}
	if n.Kind != KindStream && n.Kind != KindVideo {
		return ErrUnknownKind
	}
	return nil
}

// Tags splits Categories on commas, dropping blanks and repeats.
func (r Record) Tags() []string {
	parts := lo.Map(strings.Split(r.Categories, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(parts))
}

// NeedsResolution reports whether the link is a page that must be resolved before playback.
func (r Record) NeedsResolution() bool {
	return r.Kind == KindVideo
}

// Matches reports whether the lower-cased query is a substring of name, categories or kind.
// An empty query matches everything.
func (r Record) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Categories), q) ||
		strings.Contains(strings.ToLower(r.Kind.String()), q)
}
