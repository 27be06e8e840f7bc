package types

import (
	"fmt"
	"strings"
)

// Snapshot is the full record state of every collection plus settings at a
// single point in time. Restoring a snapshot replaces each collection
// wholesale.
type Snapshot struct {
	Parts            []Part            `json:"parts"`
	Categories       []Category        `json:"categories"`
	StorageLocations []StorageLocation `json:"storageLocations"`
	Builds           []BuildNote       `json:"builds"`
	GalleryItems     []GalleryItem     `json:"galleryItems"`
	Links            []Link            `json:"links"`
	Todos            []TodoItem        `json:"todos"`
	Settings         *Settings         `json:"settings,omitempty"` // Nil leaves settings unchanged on restore.
}

// ValidateRecords checks every record in s against the invariants its
// collection enforces on Add. A record with an empty or repeated id is
// reported as "data.<key>[i].id", a record failing its own Validate as
// "data.<key>[i]", and a repeated category or location name as
// "data.<key>[i].name". Settings are not checked.
func (s Snapshot) ValidateRecords() error {
	var fields []string
	fields = checkRecords(fields, KeyParts, s.Parts, func(p *Part) string { return p.ID }, (*Part).Validate, nil)
	fields = checkRecords(fields, KeyCategories, s.Categories, func(c *Category) string { return c.ID }, (*Category).Validate,
		func(c *Category) string { return c.Name })
	fields = checkRecords(fields, KeyStorageLocations, s.StorageLocations, func(l *StorageLocation) string { return l.ID }, (*StorageLocation).Validate,
		func(l *StorageLocation) string { return l.Name })
	fields = checkRecords(fields, KeyBuilds, s.Builds, func(b *BuildNote) string { return b.ID }, (*BuildNote).Validate, nil)
	fields = checkRecords(fields, KeyGalleryItems, s.GalleryItems, func(g *GalleryItem) string { return g.ID }, (*GalleryItem).Validate, nil)
	fields = checkRecords(fields, KeyLinks, s.Links, func(l *Link) string { return l.ID }, (*Link).Validate, nil)
	fields = checkRecords(fields, KeyTodos, s.Todos, func(t *TodoItem) string { return t.ID }, (*TodoItem).Validate, nil)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// checkRecords appends the paths of the offending records in recs to
// fields. name is nil for kinds without unique names.
func checkRecords[T any](fields []string, key string, recs []T, id func(*T) string, validate func(*T) error, name func(*T) string) []string {
	ids := make(map[string]bool, len(recs))
	names := make(map[string]bool)
	for i := range recs {
		rec := &recs[i]
		path := fmt.Sprintf("data.%s[%d]", key, i)
		if recID := id(rec); recID == "" || ids[recID] {
			fields = append(fields, path+".id")
		} else {
			ids[recID] = true
		}
		if err := validate(rec); err != nil {
			fields = append(fields, path)
		}
		if name == nil {
			continue
		}
		n := strings.ToLower(strings.TrimSpace(name(rec)))
		if n == "" {
			continue
		}
		if names[n] {
			fields = append(fields, path+".name")
		}
		names[n] = true
	}
	return fields
}
