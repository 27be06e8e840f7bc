package workshop

import "github.com/mesh-intelligence/partsbin/pkg/types"

// Reference counts used to guard deletions. Callers hold w.mu.

func (w *Workshop) partsInCategory(name string) int {
	return w.parts.Count(func(p *types.Part) bool { return p.Category == name })
}

func (w *Workshop) partsInSubcategory(category, sub string) int {
	return w.parts.Count(func(p *types.Part) bool {
		return p.Category == category && p.Subcategory == sub
	})
}

func (w *Workshop) partsAtLocation(name string) int {
	return w.parts.Count(func(p *types.Part) bool { return p.Location == name })
}

func (w *Workshop) galleryItemsTagged(tag string) int {
	return w.gallery.Count(func(g *types.GalleryItem) bool {
		for _, t := range g.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}
