package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/stream"
	. "github.com/smartystreets/goconvey/convey"
)

type failingStore struct {
	Store
	err error
}

func (f failingStore) List(context.Context) ([]stream.Record, error) {
	return nil, f.err
}

func newCatalog(t *testing.T) (*Catalog, *store.Store) {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "streams.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return New(s), s
}

func TestCatalog(t *testing.T) {
	Convey("Given a catalog over an empty store", t, func() {
		ctx := context.Background()
		c, _ := newCatalog(t)

		snap, err := c.Load(ctx)
		So(err, ShouldBeNil)
		So(snap.Len(), ShouldEqual, 0)

		Convey("Add writes through and reloads", func() {
			created, snap, err := c.Add(ctx, stream.Record{Name: "Lofi", Link: "http://lofi", Categories: "music"})
			So(err, ShouldBeNil)
			So(snap.Len(), ShouldEqual, 1)
			So(c.Lookup(created.ID).MustGet().Name, ShouldEqual, "Lofi")
		})

		Convey("Add rejects invalid records without touching the store", func() {
			_, snap, err := c.Add(ctx, stream.Record{Name: "  ", Link: "http://x"})
			So(err, ShouldEqual, stream.ErrEmptyName)
			So(snap.Len(), ShouldEqual, 0)

			_, _, err = c.Add(ctx, stream.Record{Name: "x", Link: ""})
			So(err, ShouldEqual, stream.ErrEmptyLink)

			reloaded, _ := c.Load(ctx)
			So(reloaded.Len(), ShouldEqual, 0)
		})

		Convey("Update and Remove refresh the snapshot", func() {
			r, _, _ := c.Add(ctx, stream.Record{Name: "a", Link: "http://a"})
			r.Name = "b"
			snap, err := c.Update(ctx, r)
			So(err, ShouldBeNil)
			So(snap.Records()[0].Name, ShouldEqual, "b")

			snap, err = c.Remove(ctx, r.ID)
			So(err, ShouldBeNil)
			So(snap.Len(), ShouldEqual, 0)
			So(c.Lookup(r.ID).IsAbsent(), ShouldBeTrue)

			_, err = c.Remove(ctx, r.ID)
			So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
		})

		Convey("RemoveMany deletes in one go", func() {
			a, _, _ := c.Add(ctx, stream.Record{Name: "a", Link: "http://a"})
			b, _, _ := c.Add(ctx, stream.Record{Name: "b", Link: "http://b"})
			_, _, _ = c.Add(ctx, stream.Record{Name: "c", Link: "http://c"})

			n, snap, err := c.RemoveMany(ctx, []int64{a.ID, b.ID})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(snap.Len(), ShouldEqual, 1)
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given a loaded catalog", t, func() {
		ctx := context.Background()
		c, _ := newCatalog(t)
		for _, r := range []stream.Record{
			{Name: "Jazz FM", Link: "http://jazz", Categories: "music, jazz", Kind: stream.KindStream},
			{Name: "Talk", Link: "http://talk", Categories: "news", Kind: stream.KindVideo},
			{Name: "Lofi", Link: "http://lofi", Categories: "Music", Kind: stream.KindVideo},
		} {
			_, _, err := c.Add(ctx, r)
			So(err, ShouldBeNil)
		}

		Convey("An empty query returns everything in order", func() {
			all := c.Filter("   ")
			So(all, ShouldHaveLength, 3)
			So(all[0].Name, ShouldEqual, "Jazz FM")
			So(all[2].Name, ShouldEqual, "Lofi")
		})

		Convey("Matching is case-insensitive over name, categories and kind", func() {
			So(c.Filter("MUSIC"), ShouldHaveLength, 2)
			So(c.Filter("talk"), ShouldHaveLength, 1)
			So(c.Filter("video"), ShouldHaveLength, 2)
			So(c.Filter("nothing"), ShouldBeEmpty)
		})

		Convey("Every result is a substring match", func() {
			for _, r := range c.Filter("mu") {
				So(r.Matches("mu"), ShouldBeTrue)
			}
		})
	})
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	Convey("A failed reload keeps the previous snapshot", t, func() {
		ctx := context.Background()
		c, s := newCatalog(t)
		_, _, err := c.Add(ctx, stream.Record{Name: "a", Link: "http://a"})
		So(err, ShouldBeNil)

		boom := errors.New("boom")
		c.store = failingStore{Store: s, err: boom}

		snap, err := c.Load(ctx)
		So(err, ShouldEqual, boom)
		So(snap.Len(), ShouldEqual, 1)
		So(c.Snapshot().Len(), ShouldEqual, 1)
	})
}
