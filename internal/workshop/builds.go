package workshop

import (
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Builds holds the build notes.
type Builds struct {
	w *Workshop
}

// Add validates in and appends it. An empty status means planning.
func (b *Builds) Add(in types.BuildNote) (string, error) {
	var id string
	err := b.w.do(types.KeyBuilds, "add", func() error {
		rec := in
		rec.ID = generateUUID()
		rec.DateCreated = b.w.stamp()
		rec.DateUpdated = nil
		if rec.Status == "" {
			rec.Status = types.BuildStatusPlanning
		}
		rec.Parts = append([]types.BuildPart{}, in.Parts...)
		rec.ImageURLs = cloneStrings(in.ImageURLs)
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := b.w.builds.Insert(rec); err != nil {
			return err
		}
		id = rec.ID
		b.w.rec.SetRecords(types.KeyBuilds, b.w.builds.Len())
		return nil
	})
	return id, err
}

// Update merges patch into the build with id.
func (b *Builds) Update(id string, patch types.BuildPatch) error {
	return b.w.do(types.KeyBuilds, "update", func() error {
		return b.w.builds.Replace(id, func(rec *types.BuildNote) error {
			patch.Apply(rec)
			if err := rec.Validate(); err != nil {
				return err
			}
			now := b.w.stamp()
			rec.DateUpdated = &now
			return nil
		})
	})
}

// Delete removes the build with id.
func (b *Builds) Delete(id string) error {
	return b.w.do(types.KeyBuilds, "delete", func() error {
		if _, err := b.w.builds.Remove(id); err != nil {
			return err
		}
		b.w.rec.SetRecords(types.KeyBuilds, b.w.builds.Len())
		return nil
	})
}

// Get returns the build with id.
func (b *Builds) Get(id string) (types.BuildNote, error) {
	b.w.mu.Lock()
	defer b.w.mu.Unlock()
	return b.w.builds.Get(id)
}

// List returns every build in insertion order.
func (b *Builds) List() []types.BuildNote {
	b.w.mu.Lock()
	defer b.w.mu.Unlock()
	return b.w.builds.All()
}

// Visible returns the builds passing the current filter, newest first.
func (b *Builds) Visible() []types.BuildNote {
	b.w.mu.Lock()
	defer b.w.mu.Unlock()
	return b.w.builds.Visible()
}

// FilterOptions returns the current filter.
func (b *Builds) FilterOptions() types.BuildFilter {
	b.w.mu.Lock()
	defer b.w.mu.Unlock()
	return b.w.builds.Filter()
}

// SetFilterOptions merges patch into the filter and recomputes the view.
func (b *Builds) SetFilterOptions(patch types.BuildFilterPatch) {
	_ = b.w.do(types.KeyBuilds, "filter", func() error {
		b.w.builds.SetFilter(patch.Apply)
		return nil
	})
}

// PartsCost sums price times allocated quantity over the parts of the build
// with id. Parts that no longer exist are skipped.
func (b *Builds) PartsCost(id string) (float64, error) {
	b.w.mu.Lock()
	defer b.w.mu.Unlock()

	build, err := b.w.builds.Get(id)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, bp := range build.Parts {
		part, err := b.w.parts.Get(bp.PartID)
		if err != nil {
			continue
		}
		total += part.Price * float64(bp.Quantity)
	}
	return total, nil
}

// Subscribe registers fn to run after every change to the builds or their
// filter.
func (b *Builds) Subscribe(fn func()) (unsubscribe func()) {
	return b.w.subscribe(b.w.builds.Subscribe, fn)
}
