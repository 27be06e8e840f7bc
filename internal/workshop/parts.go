package workshop

import (
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Parts is the parts inventory.
type Parts struct {
	w *Workshop
}

// Add validates in, assigns an id and creation time, and appends it.
// ID, DateAdded and DateUpdated on in are ignored.
func (p *Parts) Add(in types.Part) (string, error) {
	var id string
	err := p.w.do(types.KeyParts, "add", func() error {
		rec := in
		rec.ID = generateUUID()
		rec.DateAdded = p.w.stamp()
		rec.DateUpdated = nil
		rec.ImageURLs = cloneStrings(in.ImageURLs)
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := p.w.parts.Insert(rec); err != nil {
			return err
		}
		id = rec.ID
		p.w.rec.SetRecords(types.KeyParts, p.w.parts.Len())
		return nil
	})
	return id, err
}

// Update merges patch into the part with id. The merged part must still
// validate; a patch setting inUse above quantity is rejected.
func (p *Parts) Update(id string, patch types.PartPatch) error {
	return p.w.do(types.KeyParts, "update", func() error {
		return p.w.parts.Replace(id, func(rec *types.Part) error {
			patch.Apply(rec)
			if err := rec.Validate(); err != nil {
				return err
			}
			now := p.w.stamp()
			rec.DateUpdated = &now
			return nil
		})
	})
}

// Delete removes the part with id.
func (p *Parts) Delete(id string) error {
	return p.w.do(types.KeyParts, "delete", func() error {
		if _, err := p.w.parts.Remove(id); err != nil {
			return err
		}
		p.w.rec.SetRecords(types.KeyParts, p.w.parts.Len())
		return nil
	})
}

// Get returns the part with id.
func (p *Parts) Get(id string) (types.Part, error) {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	return p.w.parts.Get(id)
}

// List returns every part in insertion order.
func (p *Parts) List() []types.Part {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	return p.w.parts.All()
}

// Visible returns the parts passing the current filter.
func (p *Parts) Visible() []types.Part {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	return p.w.parts.Visible()
}

// FilterOptions returns the current filter.
func (p *Parts) FilterOptions() types.PartFilter {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	return p.w.parts.Filter()
}

// SetFilterOptions merges patch into the filter and recomputes the view.
func (p *Parts) SetFilterOptions(patch types.PartFilterPatch) {
	_ = p.w.do(types.KeyParts, "filter", func() error {
		p.w.parts.SetFilter(patch.Apply)
		return nil
	})
}

// LowStock returns the parts at or below the settings threshold.
func (p *Parts) LowStock() []types.Part {
	p.w.mu.Lock()
	defer p.w.mu.Unlock()
	return FilterParts(p.w.parts.All(), types.PartFilter{LowStockOnly: true}, p.w.settings.LowStockThreshold)
}

// Subscribe registers fn to run after every change to the parts or their
// filter.
func (p *Parts) Subscribe(fn func()) (unsubscribe func()) {
	return p.w.subscribe(p.w.parts.Subscribe, fn)
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}
