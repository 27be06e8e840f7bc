package types

import (
	"strings"
	"time"
)

// Category groups parts. Parts reference a category by Name.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Color         string        `json:"color,omitempty"`
	Subcategories []Subcategory `json:"subcategories"`
	DateAdded     time.Time     `json:"dateAdded"`
	DateUpdated   *time.Time    `json:"dateUpdated,omitempty"`
}

// Subcategory is an ordered child of a Category.
type Subcategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Subcategory returns the subcategory with the given ID.
func (c *Category) Subcategory(id string) (Subcategory, bool) {
	for _, s := range c.Subcategories {
		if s.ID == id {
			return s, true
		}
	}
	return Subcategory{}, false
}

// HasSubcategoryNamed reports whether a subcategory with name exists,
// ignoring case.
func (c *Category) HasSubcategoryNamed(name string) bool {
	for _, s := range c.Subcategories {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// Validate checks that a category has a name and that its subcategories
// have ids and distinct, non-blank names.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}
	ids := make(map[string]bool, len(c.Subcategories))
	for i, s := range c.Subcategories {
		if s.ID == "" || ids[s.ID] {
			return ErrInvalidID
		}
		ids[s.ID] = true
		if strings.TrimSpace(s.Name) == "" {
			return ErrInvalidName
		}
		for _, prev := range c.Subcategories[:i] {
			if strings.EqualFold(strings.TrimSpace(prev.Name), strings.TrimSpace(s.Name)) {
				return ErrDuplicateName
			}
		}
	}
	return nil
}

// CategoryPatch carries a partial update for a Category. Subcategories are
// managed through their own operations.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
}

// Apply merges the patch into c.
func (cp CategoryPatch) Apply(c *Category) {
	setIf(&c.Name, cp.Name)
	setIf(&c.Description, cp.Description)
	setIf(&c.Color, cp.Color)
}

// StorageLocation is a named place parts are kept. Parts reference a
// location by Name.
type StorageLocation struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DateAdded   time.Time  `json:"dateAdded"`
	DateUpdated *time.Time `json:"dateUpdated,omitempty"`
}

// Validate checks that a location has a name.
func (l *StorageLocation) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrInvalidName
	}
	return nil
}

// LocationPatch carries a partial update for a StorageLocation.
type LocationPatch struct {
	Name        *string
	Description *string
}

// Apply merges the patch into l.
func (lp LocationPatch) Apply(l *StorageLocation) {
	setIf(&l.Name, lp.Name)
	setIf(&l.Description, lp.Description)
}

// NameFilter selects records by a search term over name and description.
type NameFilter struct {
	SearchTerm string
}
