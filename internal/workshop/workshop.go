// Package workshop is the partsbin application context. A Workshop owns one
// collection per entity kind, the tag registry, and the settings, all backed
// by a single types.Store. Public operations are serialized; subscribers run
// after the operation that triggered them has released the workshop.
package workshop

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/partsbin/internal/collection"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// MetricsRecorder receives one observation per collection operation and
// the record count of a collection after it changes.
type MetricsRecorder interface {
	ObserveOperation(collection, op string, err error, elapsed time.Duration)
	SetRecords(collection string, n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, error, time.Duration) {}
func (nopRecorder) SetRecords(string, int)                                {}

// Option configures a Workshop.
type Option func(*Workshop)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workshop) {
		if l != nil {
			w.log = l
		}
	}
}

// WithClock sets the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workshop) {
		if now != nil {
			w.now = now
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r MetricsRecorder) Option {
	return func(w *Workshop) {
		if r != nil {
			w.rec = r
		}
	}
}

// WithoutSeed disables sample data on first run.
func WithoutSeed() Option {
	return func(w *Workshop) { w.seed = false }
}

// Workshop is the application context. Use the kind fields (Parts,
// Categories, ...) for record operations.
type Workshop struct {
	mu      sync.Mutex
	pending []func()

	store types.Store
	log   *slog.Logger
	now   func() time.Time
	rec   MetricsRecorder
	seed  bool

	settings types.Settings
	tags     *collection.TagRegistry

	parts      *collection.Collection[types.Part, types.PartFilter]
	categories *collection.Collection[types.Category, types.NameFilter]
	locations  *collection.Collection[types.StorageLocation, types.NameFilter]
	builds     *collection.Collection[types.BuildNote, types.BuildFilter]
	gallery    *collection.Collection[types.GalleryItem, types.GalleryFilter]
	links      *collection.Collection[types.Link, types.LinkFilter]
	todos      *collection.Collection[types.TodoItem, types.TodoFilter]

	Parts      *Parts
	Categories *Categories
	Locations  *Locations
	Builds     *Builds
	Gallery    *Gallery
	Links      *Links
	Todos      *Todos
}

// New loads every collection and the settings from store, which must be
// attached. When the store holds no keys at all the workshop seeds sample
// records, unless WithoutSeed is given.
func New(store types.Store, opts ...Option) (*Workshop, error) {
	w := &Workshop{
		store:    store,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		rec:      nopRecorder{},
		seed:     true,
		settings: types.DefaultSettings(),
		tags:     collection.NewTagRegistry(),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.parts = collection.New(collection.Kind[types.Part, types.PartFilter]{
		Key: types.KeyParts,
		ID:  func(p *types.Part) string { return p.ID },
		Filter: func(recs []types.Part, f types.PartFilter) []types.Part {
			return FilterParts(recs, f, w.settings.LowStockThreshold)
		},
	}, store)
	w.categories = collection.New(collection.Kind[types.Category, types.NameFilter]{
		Key:    types.KeyCategories,
		ID:     func(c *types.Category) string { return c.ID },
		Filter: FilterCategories,
	}, store)
	w.locations = collection.New(collection.Kind[types.StorageLocation, types.NameFilter]{
		Key:    types.KeyStorageLocations,
		ID:     func(l *types.StorageLocation) string { return l.ID },
		Filter: FilterLocations,
	}, store)
	w.builds = collection.New(collection.Kind[types.BuildNote, types.BuildFilter]{
		Key:    types.KeyBuilds,
		ID:     func(b *types.BuildNote) string { return b.ID },
		Filter: FilterBuilds,
	}, store)
	w.gallery = collection.New(collection.Kind[types.GalleryItem, types.GalleryFilter]{
		Key:    types.KeyGalleryItems,
		ID:     func(g *types.GalleryItem) string { return g.ID },
		Filter: FilterGallery,
	}, store)
	w.links = collection.New(collection.Kind[types.Link, types.LinkFilter]{
		Key:    types.KeyLinks,
		ID:     func(l *types.Link) string { return l.ID },
		Filter: FilterLinks,
	}, store)
	w.todos = collection.New(collection.Kind[types.TodoItem, types.TodoFilter]{
		Key:    types.KeyTodos,
		ID:     func(t *types.TodoItem) string { return t.ID },
		Filter: FilterTodos,
	}, store)

	w.Parts = &Parts{w: w}
	w.Categories = &Categories{w: w}
	w.Locations = &Locations{w: w}
	w.Builds = &Builds{w: w}
	w.Gallery = &Gallery{w: w}
	w.Links = &Links{w: w}
	w.Todos = &Todos{w: w}

	keys, err := store.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing store keys: %w", err)
	}
	if len(keys) == 0 && w.seed {
		if err := w.seedSampleData(); err != nil {
			return nil, err
		}
	}
	if err := w.load(); err != nil {
		return nil, err
	}
	w.pending = nil
	w.reportRecords()
	return w, nil
}

func (w *Workshop) load() error {
	if err := w.loadSettings(); err != nil {
		return err
	}
	loaders := []interface{ Load() (bool, error) }{
		w.parts, w.categories, w.locations, w.builds, w.gallery, w.links, w.todos,
	}
	for _, l := range loaders {
		if _, err := l.Load(); err != nil {
			return err
		}
	}
	explicit, err := w.loadCustomTags()
	if err != nil {
		return err
	}
	w.rebuildTags(explicit)
	return nil
}

func (w *Workshop) loadSettings() error {
	raw, err := w.store.Get(types.KeySettings)
	if errors.Is(err, types.ErrNotFound) {
		w.settings = types.DefaultSettings()
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	s := types.DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	w.settings = s
	return nil
}

func (w *Workshop) loadCustomTags() ([]string, error) {
	raw, err := w.store.Get(types.KeyCustomTags)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading custom tags: %w", err)
	}
	tags, err := collection.Decode[string](raw)
	if err != nil {
		return nil, fmt.Errorf("decoding custom tags: %w", err)
	}
	return tags, nil
}

func (w *Workshop) rebuildTags(explicit []string) {
	items := w.gallery.All()
	itemTags := make([][]string, len(items))
	for i := range items {
		itemTags[i] = items[i].Tags
	}
	w.tags.Rebuild(explicit, itemTags)
}

// Snapshot returns every collection and the settings at a single point in
// time.
func (w *Workshop) Snapshot() types.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	settings := w.settings
	return types.Snapshot{
		Parts:            w.parts.All(),
		Categories:       w.categories.All(),
		StorageLocations: w.locations.All(),
		Builds:           w.builds.All(),
		GalleryItems:     w.gallery.All(),
		Links:            w.links.All(),
		Todos:            w.todos.All(),
		Settings:         &settings,
	}
}

// Restore replaces every collection with the records in snap, and the
// settings when snap carries them. Records must pass the same checks Add
// applies and ids must be unique per collection, otherwise a
// *types.ValidationError names them and nothing is written. All keys are
// written in one store batch; if the batch fails nothing in memory changes.
func (w *Workshop) Restore(snap types.Snapshot) error {
	return w.do("workshop", "restore", func() error {
		settings := w.settings
		if snap.Settings != nil {
			settings = *snap.Settings
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("restoring settings: %w", err)
			}
		}
		if err := snap.ValidateRecords(); err != nil {
			return err
		}

		batch := make(map[string][]byte, len(types.CollectionKeys)+1)
		encoders := []struct {
			key    string
			encode func() ([]byte, error)
		}{
			{types.KeyParts, func() ([]byte, error) { return w.parts.Encode(snap.Parts) }},
			{types.KeyCategories, func() ([]byte, error) { return w.categories.Encode(snap.Categories) }},
			{types.KeyStorageLocations, func() ([]byte, error) { return w.locations.Encode(snap.StorageLocations) }},
			{types.KeyBuilds, func() ([]byte, error) { return w.builds.Encode(snap.Builds) }},
			{types.KeyGalleryItems, func() ([]byte, error) { return w.gallery.Encode(snap.GalleryItems) }},
			{types.KeyLinks, func() ([]byte, error) { return w.links.Encode(snap.Links) }},
			{types.KeyTodos, func() ([]byte, error) { return w.todos.Encode(snap.Todos) }},
		}
		for _, e := range encoders {
			raw, err := e.encode()
			if err != nil {
				return fmt.Errorf("encoding %s: %w", e.key, err)
			}
			batch[e.key] = raw
		}
		if snap.Settings != nil {
			raw, err := json.Marshal(settings)
			if err != nil {
				return fmt.Errorf("encoding settings: %w", err)
			}
			batch[types.KeySettings] = raw
		}
		if err := w.store.SetBatch(batch); err != nil {
			w.log.Warn("restore write failed", "error", err)
			return fmt.Errorf("%w: restoring: %v", types.ErrSinkFailure, err)
		}

		w.settings = settings
		w.parts.Reset(snap.Parts)
		w.categories.Reset(snap.Categories)
		w.locations.Reset(snap.StorageLocations)
		w.builds.Reset(snap.Builds)
		w.gallery.Reset(snap.GalleryItems)
		w.links.Reset(snap.Links)
		w.todos.Reset(snap.Todos)
		w.rebuildTags(w.tags.Explicit())
		w.reportRecords()

		w.log.Info("restored snapshot",
			"parts", len(snap.Parts),
			"categories", len(snap.Categories),
			"storageLocations", len(snap.StorageLocations),
			"builds", len(snap.Builds),
			"galleryItems", len(snap.GalleryItems),
			"links", len(snap.Links),
			"todos", len(snap.Todos),
		)
		return nil
	})
}

// Summary holds the dashboard counts.
type Summary struct {
	TotalParts        int     `json:"totalParts"`
	TotalUnits        int     `json:"totalUnits"`
	UnitsInUse        int     `json:"unitsInUse"`
	LowStockParts     int     `json:"lowStockParts"`
	InventoryValue    float64 `json:"inventoryValue"`
	TotalCategories   int     `json:"totalCategories"`
	TotalLocations    int     `json:"totalLocations"`
	TotalBuilds       int     `json:"totalBuilds"`
	ActiveBuilds      int     `json:"activeBuilds"`
	TotalGalleryItems int     `json:"totalGalleryItems"`
	TotalLinks        int     `json:"totalLinks"`
	OpenTodos         int     `json:"openTodos"`
	CompletedTodos    int     `json:"completedTodos"`
}

// Summary computes the dashboard counts over the current records.
func (w *Workshop) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Summary{
		TotalParts:        w.parts.Len(),
		TotalCategories:   w.categories.Len(),
		TotalLocations:    w.locations.Len(),
		TotalBuilds:       w.builds.Len(),
		TotalGalleryItems: w.gallery.Len(),
		TotalLinks:        w.links.Len(),
	}
	threshold := w.settings.LowStockThreshold
	for _, p := range w.parts.All() {
		s.TotalUnits += p.Quantity
		s.UnitsInUse += p.InUse
		s.InventoryValue += p.Value()
		if p.IsLowStock(threshold) {
			s.LowStockParts++
		}
	}
	s.ActiveBuilds = w.builds.Count(func(b *types.BuildNote) bool {
		return b.Status == types.BuildStatusPlanning || b.Status == types.BuildStatusInProgress
	})
	s.CompletedTodos = w.todos.Count(func(t *types.TodoItem) bool { return t.Completed })
	s.OpenTodos = w.todos.Len() - s.CompletedTodos
	return s
}

// do runs fn under the workshop lock, records the outcome, then runs the
// subscriber callbacks queued while fn ran.
func (w *Workshop) do(kind, op string, fn func() error) error {
	start := w.now()
	w.mu.Lock()
	err := fn()
	queued := w.pending
	w.pending = nil
	w.mu.Unlock()

	w.rec.ObserveOperation(kind, op, err, w.now().Sub(start))
	switch {
	case errors.Is(err, types.ErrSinkFailure):
		w.log.Warn("store write failed", "collection", kind, "op", op, "error", err)
	case err != nil:
		w.log.Debug("operation failed", "collection", kind, "op", op, "error", err)
	default:
		w.log.Debug("operation", "collection", kind, "op", op)
	}
	for _, cb := range queued {
		cb()
	}
	return err
}

// subscribe registers fn on c so that it runs once the current operation
// has released the workshop.
func (w *Workshop) subscribe(register func(func()) func(), fn func()) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	cancel := register(func() { w.pending = append(w.pending, fn) })
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		cancel()
	}
}

func (w *Workshop) reportRecords() {
	w.rec.SetRecords(types.KeyParts, w.parts.Len())
	w.rec.SetRecords(types.KeyCategories, w.categories.Len())
	w.rec.SetRecords(types.KeyStorageLocations, w.locations.Len())
	w.rec.SetRecords(types.KeyBuilds, w.builds.Len())
	w.rec.SetRecords(types.KeyGalleryItems, w.gallery.Len())
	w.rec.SetRecords(types.KeyLinks, w.links.Len())
	w.rec.SetRecords(types.KeyTodos, w.todos.Len())
}

// stamp returns the current time in UTC at millisecond precision.
func (w *Workshop) stamp() time.Time {
	return w.now().UTC().Truncate(time.Millisecond)
}

// generateUUID returns a time-ordered UUID v7, falling back to v4.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
