package workshop

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/partsbin/internal/collection"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Gallery holds the showcase items and the known-tag registry.
type Gallery struct {
	w *Workshop
}

// Add validates in and appends it. New tags join the known set with their
// case preserved.
func (g *Gallery) Add(in types.GalleryItem) (string, error) {
	var id string
	err := g.w.do(types.KeyGalleryItems, "add", func() error {
		rec := in
		rec.ID = generateUUID()
		rec.DateAdded = g.w.stamp()
		rec.DateUpdated = nil
		rec.ImageURLs = cloneStrings(in.ImageURLs)
		rec.Tags = cleanTags(in.Tags)
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := g.w.gallery.Insert(rec); err != nil {
			return err
		}
		g.w.tags.Acquire(rec.Tags)
		id = rec.ID
		g.w.rec.SetRecords(types.KeyGalleryItems, g.w.gallery.Len())
		return nil
	})
	return id, err
}

// Update merges patch into the item with id and moves its tag references
// from the old tags to the new ones.
func (g *Gallery) Update(id string, patch types.GalleryPatch) error {
	return g.w.do(types.KeyGalleryItems, "update", func() error {
		var before, after []string
		err := g.w.gallery.Replace(id, func(rec *types.GalleryItem) error {
			before = rec.Tags
			patch.Apply(rec)
			rec.Tags = cleanTags(rec.Tags)
			if err := rec.Validate(); err != nil {
				return err
			}
			now := g.w.stamp()
			rec.DateUpdated = &now
			after = rec.Tags
			return nil
		})
		if err != nil {
			return err
		}
		g.w.tags.Swap(before, after)
		return nil
	})
}

// Delete removes the item with id and releases its tags.
func (g *Gallery) Delete(id string) error {
	return g.w.do(types.KeyGalleryItems, "delete", func() error {
		removed, err := g.w.gallery.Remove(id)
		if err != nil {
			return err
		}
		g.w.tags.Release(removed.Tags)
		g.w.rec.SetRecords(types.KeyGalleryItems, g.w.gallery.Len())
		return nil
	})
}

// Get returns the item with id.
func (g *Gallery) Get(id string) (types.GalleryItem, error) {
	g.w.mu.Lock()
	defer g.w.mu.Unlock()
	return g.w.gallery.Get(id)
}

// List returns every item in insertion order.
func (g *Gallery) List() []types.GalleryItem {
	g.w.mu.Lock()
	defer g.w.mu.Unlock()
	return g.w.gallery.All()
}

// Visible returns the items passing the current filter, newest first.
func (g *Gallery) Visible() []types.GalleryItem {
	g.w.mu.Lock()
	defer g.w.mu.Unlock()
	return g.w.gallery.Visible()
}

// FilterOptions returns the current filter.
func (g *Gallery) FilterOptions() types.GalleryFilter {
	g.w.mu.Lock()
	defer g.w.mu.Unlock()
	return g.w.gallery.Filter()
}

// SetFilterOptions merges patch into the filter and recomputes the view.
func (g *Gallery) SetFilterOptions(patch types.GalleryFilterPatch) {
	_ = g.w.do(types.KeyGalleryItems, "filter", func() error {
		g.w.gallery.SetFilter(patch.Apply)
		return nil
	})
}

// Tags returns the known tags in first-seen order.
func (g *Gallery) Tags() []string {
	g.w.mu.Lock()
	defer g.w.mu.Unlock()
	return g.w.tags.Known()
}

// AddCustomTag registers tag, lowercased and trimmed, so it stays known
// even when no item carries it.
func (g *Gallery) AddCustomTag(tag string) (string, error) {
	tag = collection.NormalizeTag(tag)
	err := g.w.do(types.KeyCustomTags, "add", func() error {
		if tag == "" {
			return types.ErrInvalidName
		}
		if !g.w.tags.Register(tag) {
			return nil
		}
		if err := g.w.writeCustomTags(g.w.tags.Explicit()); err != nil {
			g.w.tags.Unregister(tag)
			return err
		}
		return nil
	})
	return tag, err
}

// RemoveCustomTag forgets tag and drops it from the tag filter. tag is
// trimmed and matched exactly first, then in the lowercase form
// AddCustomTag stores. It fails with an InUseError while any item carries
// the tag, and ErrNotFound when the tag is not known.
func (g *Gallery) RemoveCustomTag(tag string) error {
	return g.w.do(types.KeyCustomTags, "remove", func() error {
		tag = strings.TrimSpace(tag)
		if !g.w.tags.Has(tag) {
			tag = collection.NormalizeTag(tag)
		}
		if !g.w.tags.Has(tag) {
			return fmt.Errorf("tag %q: %w", tag, types.ErrNotFound)
		}
		if n := g.w.galleryItemsTagged(tag); n > 0 {
			return &types.InUseError{Kind: "tag", Name: tag, Count: n}
		}
		remaining := slices.DeleteFunc(g.w.tags.Explicit(), func(t string) bool { return t == tag })
		if err := g.w.writeCustomTags(remaining); err != nil {
			return err
		}
		g.w.tags.Unregister(tag)
		g.w.gallery.SetFilter(func(f *types.GalleryFilter) {
			f.Tags = slices.DeleteFunc(cloneStrings(f.Tags), func(t string) bool { return t == tag })
		})
		return nil
	})
}

// Subscribe registers fn to run after every change to the items or their
// filter.
func (g *Gallery) Subscribe(fn func()) (unsubscribe func()) {
	return g.w.subscribe(g.w.gallery.Subscribe, fn)
}

func (w *Workshop) writeCustomTags(tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encoding custom tags: %w", err)
	}
	if err := w.store.Set(types.KeyCustomTags, raw); err != nil {
		w.log.Warn("custom tag write failed", "error", err)
		return fmt.Errorf("%w: writing %s: %v", types.ErrSinkFailure, types.KeyCustomTags, err)
	}
	return nil
}

// cleanTags trims tags, drops empties and duplicates, and keeps case.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
