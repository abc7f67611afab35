// Package catalog keeps an immutable in-memory copy of the record table and
// rebuilds it after every write.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Store is the persistence the catalog reads from and writes through.
type Store interface {
	List(ctx context.Context) ([]stream.Record, error)
	Create(ctx context.Context, r stream.Record) (stream.Record, error)
	Update(ctx context.Context, r stream.Record) error
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int, error)
}

// Snapshot is a read-only view of every record in store order.
type Snapshot struct {
	records []stream.Record
}

// Records returns a copy of the snapshot contents.
func (s Snapshot) Records() []stream.Record {
	return append([]stream.Record(nil), s.records...)
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.records)
}

// Filter returns the records matching query in snapshot order.
// Whitespace around the query is ignored and matching is case-insensitive.
func (s Snapshot) Filter(query string) []stream.Record {
	return lo.Filter(s.records, func(r stream.Record, _ int) bool {
		return r.Matches(query)
	})
}

// Lookup finds a record by id.
func (s Snapshot) Lookup(id int64) mo.Option[stream.Record] {
	r, ok := lo.Find(s.records, func(r stream.Record) bool {
		return r.ID == id
	})
	if !ok {
		return mo.None[stream.Record]()
	}
	return mo.Some(r)
}

// Catalog is safe for concurrent readers; writes go through the store and end with a reload.
type Catalog struct {
	store    Store
	snapshot atomic.Pointer[Snapshot]
}

// New returns a catalog over store with an empty snapshot. Call Load to populate it.
func New(store Store) *Catalog {
	c := &Catalog{store: store}
	c.snapshot.Store(&Snapshot{})
	return c
}

// Load reads every record and swaps in the new snapshot.
// On failure the previous snapshot stays in place.
func (c *Catalog) Load(ctx context.Context) (Snapshot, error) {
	records, err := c.store.List(ctx)
	if err != nil {
		log.Errorf("catalog reload failed: %v", err)
		return *c.snapshot.Load(), err
	}

	next := &Snapshot{records: records}
	c.snapshot.Store(next)
	log.Debugf("catalog loaded with %d records", len(records))
	return *next, nil
}

// Snapshot returns the most recently loaded snapshot.
func (c *Catalog) Snapshot() Snapshot {
	return *c.snapshot.Load()
}

// Filter applies query to the current snapshot.
func (c *Catalog) Filter(query string) []stream.Record {
	return c.Snapshot().Filter(query)
}

// Lookup finds a record by id in the current snapshot.
func (c *Catalog) Lookup(id int64) mo.Option[stream.Record] {
	return c.Snapshot().Lookup(id)
}

// Add validates r, stores it and reloads.
func (c *Catalog) Add(ctx context.Context, r stream.Record) (stream.Record, Snapshot, error) {
	if err := r.Validate(); err != nil {
		return stream.Record{}, c.Snapshot(), err
	}

	created, err := c.store.Create(ctx, r)
	if err != nil {
		return stream.Record{}, c.Snapshot(), err
	}
	log.Infof("added stream %d (%s)", created.ID, created.Name)

	snap, err := c.Load(ctx)
	return created, snap, err
}

// Update validates r, overwrites the stored record and reloads.
func (c *Catalog) Update(ctx context.Context, r stream.Record) (Snapshot, error) {
	if err := r.Validate(); err != nil {
		return c.Snapshot(), err
	}
	if err := c.store.Update(ctx, r); err != nil {
		return c.Snapshot(), fmt.Errorf("update %d: %w", r.ID, err)
	}
	log.Infof("updated stream %d (%s)", r.ID, r.Name)
	return c.Load(ctx)
}

// Remove deletes one record and reloads.
func (c *Catalog) Remove(ctx context.Context, id int64) (Snapshot, error) {
	if err := c.store.Delete(ctx, id); err != nil {
		return c.Snapshot(), fmt.Errorf("remove %d: %w", id, err)
	}
	log.Infof("removed stream %d", id)
	return c.Load(ctx)
}

// RemoveMany deletes every listed id in one transaction and reloads.
func (c *Catalog) RemoveMany(ctx context.Context, ids []int64) (int, Snapshot, error) {
	n, err := c.store.DeleteMany(ctx, ids)
	if err != nil {
		return 0, c.Snapshot(), err
	}
	log.Infof("removed %d streams", n)

	snap, err := c.Load(ctx)
	return n, snap, err
}
