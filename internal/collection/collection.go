// Package collection implements the observable record list each partsbin
// entity kind lives in. A Collection owns the ordered records, the current
// filter options, and the visible view derived from them. Every mutation is
// written through to the store before it is committed in memory.
//
// A Collection is not safe for concurrent use; the workshop serializes
// access.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Kind describes one entity kind: where it persists, how records are
// identified, and how the visible view is derived.
type Kind[T any, F any] struct {
	Key    string           // Store key holding the JSON record list.
	ID     func(*T) string  // Returns the record's id.
	Filter func([]T, F) []T // Receives a copy of the records; may sort it.
}

// Collection is an ordered, persisted, filterable list of records.
type Collection[T any, F any] struct {
	kind    Kind[T, F]
	store   types.Store
	records []T
	filter  F
	visible []T
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func()
}

// New creates an empty collection over store. Call Load to read persisted
// records.
func New[T any, F any](kind Kind[T, F], store types.Store) *Collection[T, F] {
	c := &Collection[T, F]{
		kind:    kind,
		store:   store,
		records: []T{},
	}
	c.recompute()
	return c
}

// Key returns the store key of the collection.
func (c *Collection[T, F]) Key() string {
	return c.kind.Key
}

// Load replaces the in-memory records with the persisted list. A key that
// was never written loads as empty and reports found=false.
func (c *Collection[T, F]) Load() (found bool, err error) {
	raw, err := c.store.Get(c.kind.Key)
	if errors.Is(err, types.ErrNotFound) {
		c.reset([]T{})
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", c.kind.Key, err)
	}
	recs, err := Decode[T](raw)
	if err != nil {
		return true, fmt.Errorf("decoding %s: %w", c.kind.Key, err)
	}
	c.reset(recs)
	return true, nil
}

// Insert appends rec. The record id must be non-empty and unused.
func (c *Collection[T, F]) Insert(rec T) error {
	id := c.kind.ID(&rec)
	if id == "" {
		return fmt.Errorf("%s: empty id: %w", c.kind.Key, types.ErrInvalidID)
	}
	if c.index(id) >= 0 {
		return fmt.Errorf("%s %s: duplicate id: %w", c.kind.Key, id, types.ErrInvalidID)
	}
	next := make([]T, 0, len(c.records)+1)
	next = append(next, c.records...)
	next = append(next, rec)
	return c.commit(next)
}

// Replace applies fn to a copy of the record with id and commits the result.
// If fn returns an error nothing changes.
func (c *Collection[T, F]) Replace(id string, fn func(*T) error) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", c.kind.Key, id, types.ErrNotFound)
	}
	rec := c.records[i]
	if err := fn(&rec); err != nil {
		return err
	}
	next := append([]T{}, c.records...)
	next[i] = rec
	return c.commit(next)
}

// Remove deletes the record with id and returns it.
func (c *Collection[T, F]) Remove(id string) (T, error) {
	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%s %s: %w", c.kind.Key, id, types.ErrNotFound)
	}
	removed := c.records[i]
	next := make([]T, 0, len(c.records)-1)
	next = append(next, c.records[:i]...)
	next = append(next, c.records[i+1:]...)
	if err := c.commit(next); err != nil {
		return zero, err
	}
	return removed, nil
}

// RemoveWhere deletes every record matching pred and returns how many were
// removed. Nothing is written when no record matches.
func (c *Collection[T, F]) RemoveWhere(pred func(*T) bool) (int, error) {
	next := make([]T, 0, len(c.records))
	for i := range c.records {
		if !pred(&c.records[i]) {
			next = append(next, c.records[i])
		}
	}
	n := len(c.records) - len(next)
	if n == 0 {
		return 0, nil
	}
	if err := c.commit(next); err != nil {
		return 0, err
	}
	return n, nil
}

// Get returns the record with id.
func (c *Collection[T, F]) Get(id string) (T, error) {
	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, fmt.Errorf("%s %s: %w", c.kind.Key, id, types.ErrNotFound)
	}
	return c.records[i], nil
}

// All returns a copy of every record in insertion order.
func (c *Collection[T, F]) All() []T {
	return append([]T{}, c.records...)
}

// Visible returns a copy of the filtered, sorted view.
func (c *Collection[T, F]) Visible() []T {
	return append([]T{}, c.visible...)
}

// Len returns the number of records.
func (c *Collection[T, F]) Len() int {
	return len(c.records)
}

// Count returns how many records satisfy pred.
func (c *Collection[T, F]) Count(pred func(*T) bool) int {
	n := 0
	for i := range c.records {
		if pred(&c.records[i]) {
			n++
		}
	}
	return n
}

// Filter returns the current filter options.
func (c *Collection[T, F]) Filter() F {
	return c.filter
}

// SetFilter lets fn modify the filter options, then recomputes the view and
// notifies subscribers.
func (c *Collection[T, F]) SetFilter(fn func(*F)) {
	fn(&c.filter)
	c.Refresh()
}

// Refresh recomputes the visible view and notifies subscribers. Use it when
// state outside the collection that the filter reads has changed.
func (c *Collection[T, F]) Refresh() {
	c.recompute()
	c.notify()
}

// Subscribe registers fn to run after every mutation and filter change.
// Subscribers run in registration order. The returned function removes the
// subscription.
func (c *Collection[T, F]) Subscribe(fn func()) (unsubscribe func()) {
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.subs = slices.DeleteFunc(c.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Encode returns the JSON encoding of recs as it would be persisted.
func (c *Collection[T, F]) Encode(recs []T) ([]byte, error) {
	if recs == nil {
		recs = []T{}
	}
	return json.Marshal(recs)
}

// Reset replaces the records in memory without writing to the store, then
// recomputes and notifies. The caller has already persisted recs.
func (c *Collection[T, F]) Reset(recs []T) {
	c.reset(append([]T{}, recs...))
	c.notify()
}

// Decode parses a persisted JSON record list. Null decodes as empty.
func Decode[T any](raw []byte) ([]T, error) {
	var recs []T
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

func (c *Collection[T, F]) commit(next []T) error {
	raw, err := c.Encode(next)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.kind.Key, err)
	}
	if err := c.store.Set(c.kind.Key, raw); err != nil {
		return fmt.Errorf("%w: writing %s: %v", types.ErrSinkFailure, c.kind.Key, err)
	}
	c.records = next
	c.recompute()
	c.notify()
	return nil
}

func (c *Collection[T, F]) reset(recs []T) {
	c.records = recs
	c.recompute()
}

func (c *Collection[T, F]) recompute() {
	if c.kind.Filter == nil {
		c.visible = append([]T{}, c.records...)
		return
	}
	c.visible = c.kind.Filter(append([]T{}, c.records...), c.filter)
}

func (c *Collection[T, F]) notify() {
	for _, s := range slices.Clone(c.subs) {
		s.fn()
	}
}

func (c *Collection[T, F]) index(id string) int {
	for i := range c.records {
		if c.kind.ID(&c.records[i]) == id {
			return i
		}
	}
	return -1
}
