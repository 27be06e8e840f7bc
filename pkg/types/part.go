package types

import (
	"math"
	"strings"
	"time"
)

// Part is one stocked hardware part.
type Part struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`              // Category name, not ID.
	Subcategory  string     `json:"subcategory,omitempty"` // Subcategory name within Category.
	Quantity     int        `json:"quantity"`
	InUse        int        `json:"inUse"`
	Price        float64    `json:"price"`
	Location     string     `json:"location"` // Storage location name.
	Description  string     `json:"description"`
	ImageURLs    []string   `json:"imageUrls"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	ModelNumber  string     `json:"modelNumber,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	DateAdded    time.Time  `json:"dateAdded"`
	DateUpdated  *time.Time `json:"dateUpdated,omitempty"`
}

// Available returns the count of units not allocated to a build.
func (p *Part) Available() int {
	return p.Quantity - p.InUse
}

// IsLowStock reports whether the quantity is at or below threshold.
func (p *Part) IsLowStock(threshold int) bool {
	return p.Quantity <= threshold
}

// Value returns price times quantity.
func (p *Part) Value() float64 {
	return p.Price * float64(p.Quantity)
}

// Validate checks the field invariants of a part: name and category are
// required, quantity >= 0 and 0 <= inUse <= quantity.
func (p *Part) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrInvalidCategory
	}
	if p.Quantity < 0 || p.InUse < 0 || p.InUse > p.Quantity {
		return ErrInvalidQuantity
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return ErrInvalidPrice
	}
	return nil
}

// PartPatch carries a partial update for a Part. Nil fields are left
// unchanged.
type PartPatch struct {
	Name         *string
	Category     *string
	Subcategory  *string
	Quantity     *int
	InUse        *int
	Price        *float64
	Location     *string
	Description  *string
	ImageURLs    []string // nil leaves the images unchanged; an empty slice clears them.
	Manufacturer *string
	ModelNumber  *string
	Notes        *string
}

// Apply merges the patch into p. It does not touch ID or DateAdded.
func (pp PartPatch) Apply(p *Part) {
	setIf(&p.Name, pp.Name)
	setIf(&p.Category, pp.Category)
	setIf(&p.Subcategory, pp.Subcategory)
	setIf(&p.Quantity, pp.Quantity)
	setIf(&p.InUse, pp.InUse)
	setIf(&p.Price, pp.Price)
	setIf(&p.Location, pp.Location)
	setIf(&p.Description, pp.Description)
	if pp.ImageURLs != nil {
		p.ImageURLs = append([]string{}, pp.ImageURLs...)
	}
	setIf(&p.Manufacturer, pp.Manufacturer)
	setIf(&p.ModelNumber, pp.ModelNumber)
	setIf(&p.Notes, pp.Notes)
}

// PartFilter selects the visible parts.
type PartFilter struct {
	SearchTerm   string   // Matches name, description, manufacturer, model number, notes.
	Categories   []string // Category names; empty means all.
	Locations    []string // Location names; empty means all.
	LowStockOnly bool     // Only parts at or below the settings threshold.
}

// PartFilterPatch carries a partial PartFilter update.
type PartFilterPatch struct {
	SearchTerm   *string
	Categories   []string
	Locations    []string
	LowStockOnly *bool
}

// Apply merges the patch into f.
func (fp PartFilterPatch) Apply(f *PartFilter) {
	setIf(&f.SearchTerm, fp.SearchTerm)
	if fp.Categories != nil {
		f.Categories = append([]string{}, fp.Categories...)
	}
	if fp.Locations != nil {
		f.Locations = append([]string{}, fp.Locations...)
	}
	setIf(&f.LowStockOnly, fp.LowStockOnly)
}

// setIf assigns *src to *dst when src is non-nil.
func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v. Useful for building patches.
func Ptr[T any](v T) *T {
	return &v
}
