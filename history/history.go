// Package history records which catalog entries were played and when.
package history

import (
	"fmt"
	"strconv"
	"time"

	"github.com/metafates/gache"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// SavedStream is a single playback entry preserved in the history file.
type SavedStream struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Link     string    `json:"link"`
	Kind     string    `json:"kind"`
	Plays    int       `json:"plays"`
	PlayedAt time.Time `json:"played_at"`
}

func (s *SavedStream) encode() string {
	return strconv.FormatInt(s.ID, 10)
}

func (s *SavedStream) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.PlayedAt.Format(time.DateTime))
}

var cacher = gache.New[map[string]*SavedStream](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// now is swapped in tests.
var now = time.Now

// Get returns every saved playback entry keyed by record id.
func Get() (map[string]*SavedStream, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedStream), nil
	}
	return cached, nil
}

// Save marks the record as played right now.
func Save(record stream.Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry := &SavedStream{
		ID:       record.ID,
		Name:     record.Name,
		Link:     record.Link,
		Kind:     record.Kind.String(),
		Plays:    1,
		PlayedAt: now(),
	}

	if existing, ok := saved[entry.encode()]; ok {
		entry.Plays = existing.Plays + 1
	}

	saved[entry.encode()] = entry
	return cacher.Set(saved)
}

// Recent returns up to limit entries, most recently played first.
// A non-positive limit returns all of them.
func Recent(limit int) ([]*SavedStream, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	slices.SortFunc(entries, func(a, b *SavedStream) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Last returns the most recently played entry, if any.
func Last() mo.Option[*SavedStream] {
	entries, err := Recent(1)
	if err != nil || len(entries) == 0 {
		return mo.None[*SavedStream]()
	}
	return mo.Some(entries[0])
}

// Remove forgets the entry for the given record id.
func Remove(id int64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, strconv.FormatInt(id, 10))
	return cacher.Set(saved)
}

// Clear drops the whole history.
func Clear() error {
	return cacher.Set(make(map[string]*SavedStream))
}
