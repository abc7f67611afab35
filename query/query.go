// Package query remembers catalog filter queries and suggests them back while typing.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/key"
	"github.com/quietstream/quietstream/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// filter is a query typed into the catalog or player filter.
// Rank grows with every play started from its results.
type filter struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

// filters is keyed by the sanitized query text.
var filters = gache.New[map[string]*filter](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// matches holds ranked suggestions per partial input until a filter is remembered.
var matches = make(map[string][]*filter)

func load() map[string]*filter {
	stored, expired, err := filters.Get()
	if expired || err != nil || stored == nil {
		return make(map[string]*filter)
	}
	return stored
}

// Remember records a filter query or adds weight to its rank. Blank queries are ignored.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	clear(matches)
	stored := load()
	if f, ok := stored[q]; ok {
		f.Rank += weight
	} else {
		stored[q] = &filter{Rank: weight, Query: q}
	}

	return filters.Set(stored)
}

// Suggest returns the best ranked earlier filter that fuzzily matches the partial input.
func Suggest(q string) mo.Option[string] {
	return mo.TupleToOption(lo.First(SuggestMany(q)))
}

// SuggestMany returns every earlier filter matching the partial input, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)
	found, ok := matches[q]
	if !ok {
		found = lo.Filter(lo.Values(load()), func(f *filter, _ int) bool {
			return fuzzy.Match(q, f.Query)
		})
		slices.SortFunc(found, func(a, b *filter) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Query, b.Query)
		})
		matches[q] = found
	}

	return lo.Map(found, func(f *filter, _ int) string {
		return f.Query
	})
}

// sanitize folds case so "Jazz" and "jazz " rank as one filter.
func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
