package workshop

import (
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Links holds bookmarked resources.
type Links struct {
	w *Workshop
}

// Add validates in and appends it.
func (l *Links) Add(in types.Link) (string, error) {
	var id string
	err := l.w.do(types.KeyLinks, "add", func() error {
		rec := in
		rec.ID = generateUUID()
		rec.DateAdded = l.w.stamp()
		rec.DateUpdated = nil
		rec.Tags = cleanTags(in.Tags)
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := l.w.links.Insert(rec); err != nil {
			return err
		}
		id = rec.ID
		l.w.rec.SetRecords(types.KeyLinks, l.w.links.Len())
		return nil
	})
	return id, err
}

// Update merges patch into the link with id.
func (l *Links) Update(id string, patch types.LinkPatch) error {
	return l.w.do(types.KeyLinks, "update", func() error {
		return l.w.links.Replace(id, func(rec *types.Link) error {
			patch.Apply(rec)
			rec.Tags = cleanTags(rec.Tags)
			if err := rec.Validate(); err != nil {
				return err
			}
			now := l.w.stamp()
			rec.DateUpdated = &now
			return nil
		})
	})
}

// Delete removes the link with id.
func (l *Links) Delete(id string) error {
	return l.w.do(types.KeyLinks, "delete", func() error {
		if _, err := l.w.links.Remove(id); err != nil {
			return err
		}
		l.w.rec.SetRecords(types.KeyLinks, l.w.links.Len())
		return nil
	})
}

// Get returns the link with id.
func (l *Links) Get(id string) (types.Link, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	return l.w.links.Get(id)
}

// List returns every link in insertion order.
func (l *Links) List() []types.Link {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	return l.w.links.All()
}

// Visible returns the links passing the current filter.
func (l *Links) Visible() []types.Link {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	return l.w.links.Visible()
}

// SetFilterOptions merges patch into the filter and recomputes the view.
func (l *Links) SetFilterOptions(patch types.LinkFilterPatch) {
	_ = l.w.do(types.KeyLinks, "filter", func() error {
		l.w.links.SetFilter(patch.Apply)
		return nil
	})
}

// Subscribe registers fn to run after every change to the links or their
// filter.
func (l *Links) Subscribe(fn func()) (unsubscribe func()) {
	return l.w.subscribe(l.w.links.Subscribe, fn)
}
