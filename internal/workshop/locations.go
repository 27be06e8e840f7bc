package workshop

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Locations holds the storage locations. Parts refer to them by name.
type Locations struct {
	w *Workshop
}

// Add validates in and appends it. Names must be unique ignoring case.
func (l *Locations) Add(in types.StorageLocation) (string, error) {
	var id string
	err := l.w.do(types.KeyStorageLocations, "add", func() error {
		rec := in
		rec.ID = generateUUID()
		rec.DateAdded = l.w.stamp()
		rec.DateUpdated = nil
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Name == "" {
			return types.ErrInvalidName
		}
		if l.nameTaken(rec.Name, "") {
			return fmt.Errorf("location %q: %w", rec.Name, types.ErrDuplicateName)
		}
		if err := l.w.locations.Insert(rec); err != nil {
			return err
		}
		id = rec.ID
		l.w.rec.SetRecords(types.KeyStorageLocations, l.w.locations.Len())
		return nil
	})
	return id, err
}

// Update merges patch into the location with id.
func (l *Locations) Update(id string, patch types.LocationPatch) error {
	return l.w.do(types.KeyStorageLocations, "update", func() error {
		return l.w.locations.Replace(id, func(rec *types.StorageLocation) error {
			patch.Apply(rec)
			rec.Name = strings.TrimSpace(rec.Name)
			if rec.Name == "" {
				return types.ErrInvalidName
			}
			if l.nameTaken(rec.Name, id) {
				return fmt.Errorf("location %q: %w", rec.Name, types.ErrDuplicateName)
			}
			now := l.w.stamp()
			rec.DateUpdated = &now
			return nil
		})
	})
}

// Delete removes the location with id. It fails with an InUseError while
// any part is stored there.
func (l *Locations) Delete(id string) error {
	return l.w.do(types.KeyStorageLocations, "delete", func() error {
		loc, err := l.w.locations.Get(id)
		if err != nil {
			return err
		}
		if n := l.w.partsAtLocation(loc.Name); n > 0 {
			return &types.InUseError{Kind: "location", Name: loc.Name, Count: n}
		}
		if _, err := l.w.locations.Remove(id); err != nil {
			return err
		}
		l.w.rec.SetRecords(types.KeyStorageLocations, l.w.locations.Len())
		return nil
	})
}

// Get returns the location with id.
func (l *Locations) Get(id string) (types.StorageLocation, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	return l.w.locations.Get(id)
}

// FindByName returns the location whose name equals name ignoring case.
func (l *Locations) FindByName(name string) (types.StorageLocation, error) {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	for _, loc := range l.w.locations.All() {
		if strings.EqualFold(loc.Name, strings.TrimSpace(name)) {
			return loc, nil
		}
	}
	return types.StorageLocation{}, fmt.Errorf("location %q: %w", name, types.ErrNotFound)
}

// List returns every location in insertion order.
func (l *Locations) List() []types.StorageLocation {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	return l.w.locations.All()
}

// Visible returns the locations passing the current filter.
func (l *Locations) Visible() []types.StorageLocation {
	l.w.mu.Lock()
	defer l.w.mu.Unlock()
	return l.w.locations.Visible()
}

// SetSearchTerm sets the location search term.
func (l *Locations) SetSearchTerm(term string) {
	_ = l.w.do(types.KeyStorageLocations, "filter", func() error {
		l.w.locations.SetFilter(func(f *types.NameFilter) { f.SearchTerm = term })
		return nil
	})
}

// Subscribe registers fn to run after every change to the locations.
func (l *Locations) Subscribe(fn func()) (unsubscribe func()) {
	return l.w.subscribe(l.w.locations.Subscribe, fn)
}

func (l *Locations) nameTaken(name, exceptID string) bool {
	return l.w.locations.Count(func(loc *types.StorageLocation) bool {
		return loc.ID != exceptID && strings.EqualFold(loc.Name, name)
	}) > 0
}
