package workshop

import (
	"time"

	"github.com/mesh-intelligence/partsbin/internal/collection"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// FilterParts returns the parts matching f in collection order. threshold
// is the low-stock threshold from the settings.
func FilterParts(recs []types.Part, f types.PartFilter, threshold int) []types.Part {
	return collection.Where(recs, func(p *types.Part) bool {
		return collection.MatchesTerm(f.SearchTerm, p.Name, p.Description, p.Manufacturer, p.ModelNumber, p.Notes) &&
			collection.InSet(p.Category, f.Categories) &&
			collection.InSet(p.Location, f.Locations) &&
			(!f.LowStockOnly || p.IsLowStock(threshold))
	})
}

// FilterCategories returns the categories matching f.
func FilterCategories(recs []types.Category, f types.NameFilter) []types.Category {
	return collection.Where(recs, func(c *types.Category) bool {
		return collection.MatchesTerm(f.SearchTerm, c.Name, c.Description)
	})
}

// FilterLocations returns the storage locations matching f.
func FilterLocations(recs []types.StorageLocation, f types.NameFilter) []types.StorageLocation {
	return collection.Where(recs, func(l *types.StorageLocation) bool {
		return collection.MatchesTerm(f.SearchTerm, l.Name, l.Description)
	})
}

// FilterBuilds returns matching build notes, newest first.
func FilterBuilds(recs []types.BuildNote, f types.BuildFilter) []types.BuildNote {
	out := collection.Where(recs, func(b *types.BuildNote) bool {
		return collection.MatchesTerm(f.SearchTerm, b.Title, b.Description) &&
			collection.InSet(b.Status, f.Statuses)
	})
	return collection.NewestFirst(out, func(b *types.BuildNote) time.Time { return b.DateCreated })
}

// FilterGallery returns matching gallery items, newest first. Tags match
// the search term as well as the tag selection.
func FilterGallery(recs []types.GalleryItem, f types.GalleryFilter) []types.GalleryItem {
	out := collection.Where(recs, func(g *types.GalleryItem) bool {
		fields := append([]string{g.Title, g.Description}, g.Tags...)
		return collection.MatchesTerm(f.SearchTerm, fields...) &&
			collection.Intersects(g.Tags, f.Tags)
	})
	return collection.NewestFirst(out, func(g *types.GalleryItem) time.Time { return g.DateAdded })
}

// FilterLinks returns the links matching f.
func FilterLinks(recs []types.Link, f types.LinkFilter) []types.Link {
	return collection.Where(recs, func(l *types.Link) bool {
		fields := append([]string{l.Title, l.URL, l.Description}, l.Tags...)
		return collection.MatchesTerm(f.SearchTerm, fields...) &&
			collection.InSet(l.Category, f.Categories)
	})
}

// FilterTodos returns the todos matching f in insertion order.
func FilterTodos(recs []types.TodoItem, f types.TodoFilter) []types.TodoItem {
	return collection.Where(recs, func(t *types.TodoItem) bool {
		return collection.MatchesTerm(f.SearchTerm, t.Title, t.Description) &&
			collection.InSet(t.Priority, f.Priorities) &&
			collection.MatchesBool(t.Completed, f.Completed)
	})
}
