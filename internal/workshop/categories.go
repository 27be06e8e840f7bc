package workshop

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// Categories holds the part categories and their subcategories. Parts refer
// to both by name.
type Categories struct {
	w *Workshop
}

// Add validates in and appends it. Subcategories without an id get one.
// Names must be unique ignoring case.
func (c *Categories) Add(in types.Category) (string, error) {
	var id string
	err := c.w.do(types.KeyCategories, "add", func() error {
		rec := in
		rec.ID = generateUUID()
		rec.DateAdded = c.w.stamp()
		rec.DateUpdated = nil
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Name == "" {
			return types.ErrInvalidName
		}
		if c.nameTaken(rec.Name, "") {
			return fmt.Errorf("category %q: %w", rec.Name, types.ErrDuplicateName)
		}
		subs := make([]types.Subcategory, 0, len(in.Subcategories))
		for _, s := range in.Subcategories {
			s.Name = strings.TrimSpace(s.Name)
			if s.Name == "" {
				return types.ErrInvalidName
			}
			probe := types.Category{Subcategories: subs}
			if probe.HasSubcategoryNamed(s.Name) {
				return fmt.Errorf("subcategory %q: %w", s.Name, types.ErrDuplicateName)
			}
			if s.ID == "" {
				s.ID = generateUUID()
			}
			subs = append(subs, s)
		}
		rec.Subcategories = subs
		if err := c.w.categories.Insert(rec); err != nil {
			return err
		}
		id = rec.ID
		c.w.rec.SetRecords(types.KeyCategories, c.w.categories.Len())
		return nil
	})
	return id, err
}

// Update merges patch into the category with id. Renaming a category does
// not rename the category field of its parts.
func (c *Categories) Update(id string, patch types.CategoryPatch) error {
	return c.w.do(types.KeyCategories, "update", func() error {
		return c.w.categories.Replace(id, func(rec *types.Category) error {
			patch.Apply(rec)
			rec.Name = strings.TrimSpace(rec.Name)
			if rec.Name == "" {
				return types.ErrInvalidName
			}
			if c.nameTaken(rec.Name, id) {
				return fmt.Errorf("category %q: %w", rec.Name, types.ErrDuplicateName)
			}
			now := c.w.stamp()
			rec.DateUpdated = &now
			return nil
		})
	})
}

// Delete removes the category with id. It fails with an InUseError while
// any part's category equals the category name.
func (c *Categories) Delete(id string) error {
	return c.w.do(types.KeyCategories, "delete", func() error {
		cat, err := c.w.categories.Get(id)
		if err != nil {
			return err
		}
		if n := c.w.partsInCategory(cat.Name); n > 0 {
			return &types.InUseError{Kind: "category", Name: cat.Name, Count: n}
		}
		if _, err := c.w.categories.Remove(id); err != nil {
			return err
		}
		c.w.rec.SetRecords(types.KeyCategories, c.w.categories.Len())
		return nil
	})
}

// AddSubcategory appends sub to the category with categoryID and returns
// the new subcategory id.
func (c *Categories) AddSubcategory(categoryID string, sub types.Subcategory) (string, error) {
	var id string
	err := c.w.do(types.KeyCategories, "add_subcategory", func() error {
		return c.w.categories.Replace(categoryID, func(rec *types.Category) error {
			sub.Name = strings.TrimSpace(sub.Name)
			if sub.Name == "" {
				return types.ErrInvalidName
			}
			if rec.HasSubcategoryNamed(sub.Name) {
				return fmt.Errorf("subcategory %q: %w", sub.Name, types.ErrDuplicateName)
			}
			sub.ID = generateUUID()
			rec.Subcategories = append(append([]types.Subcategory{}, rec.Subcategories...), sub)
			now := c.w.stamp()
			rec.DateUpdated = &now
			id = sub.ID
			return nil
		})
	})
	return id, err
}

// DeleteSubcategory removes subID from the category with categoryID. It
// fails with an InUseError while any part matches the (category,
// subcategory) name pair.
func (c *Categories) DeleteSubcategory(categoryID, subID string) error {
	return c.w.do(types.KeyCategories, "delete_subcategory", func() error {
		return c.w.categories.Replace(categoryID, func(rec *types.Category) error {
			sub, ok := rec.Subcategory(subID)
			if !ok {
				return fmt.Errorf("subcategory %s: %w", subID, types.ErrNotFound)
			}
			if n := c.w.partsInSubcategory(rec.Name, sub.Name); n > 0 {
				return &types.InUseError{Kind: "subcategory", Name: sub.Name, Count: n}
			}
			kept := make([]types.Subcategory, 0, len(rec.Subcategories)-1)
			for _, s := range rec.Subcategories {
				if s.ID != subID {
					kept = append(kept, s)
				}
			}
			rec.Subcategories = kept
			now := c.w.stamp()
			rec.DateUpdated = &now
			return nil
		})
	})
}

// Get returns the category with id.
func (c *Categories) Get(id string) (types.Category, error) {
	c.w.mu.Lock()
	defer c.w.mu.Unlock()
	return c.w.categories.Get(id)
}

// FindByName returns the category whose name equals name ignoring case.
func (c *Categories) FindByName(name string) (types.Category, error) {
	c.w.mu.Lock()
	defer c.w.mu.Unlock()
	for _, cat := range c.w.categories.All() {
		if strings.EqualFold(cat.Name, strings.TrimSpace(name)) {
			return cat, nil
		}
	}
	return types.Category{}, fmt.Errorf("category %q: %w", name, types.ErrNotFound)
}

// List returns every category in insertion order.
func (c *Categories) List() []types.Category {
	c.w.mu.Lock()
	defer c.w.mu.Unlock()
	return c.w.categories.All()
}

// Visible returns the categories passing the current filter.
func (c *Categories) Visible() []types.Category {
	c.w.mu.Lock()
	defer c.w.mu.Unlock()
	return c.w.categories.Visible()
}

// SetSearchTerm sets the category search term.
func (c *Categories) SetSearchTerm(term string) {
	_ = c.w.do(types.KeyCategories, "filter", func() error {
		c.w.categories.SetFilter(func(f *types.NameFilter) { f.SearchTerm = term })
		return nil
	})
}

// PartCount returns how many parts are in the category named name.
func (c *Categories) PartCount(name string) int {
	c.w.mu.Lock()
	defer c.w.mu.Unlock()
	return c.w.partsInCategory(name)
}

// Subscribe registers fn to run after every change to the categories.
func (c *Categories) Subscribe(fn func()) (unsubscribe func()) {
	return c.w.subscribe(c.w.categories.Subscribe, fn)
}

// nameTaken reports whether another category than exceptID has name.
func (c *Categories) nameTaken(name, exceptID string) bool {
	return c.w.categories.Count(func(cat *types.Category) bool {
		return cat.ID != exceptID && strings.EqualFold(cat.Name, name)
	}) > 0
}
