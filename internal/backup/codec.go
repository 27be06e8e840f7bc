// Package backup captures the workshop into a versioned JSON document,
// validates candidate documents, and restores them. Delivery of the bytes
// goes through the Deliverer and Opener collaborators.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/partsbin/pkg/partsbin"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// FormatVersion is the document format written by Serialize.
const FormatVersion = "1.0.0"

// Source provides the state to capture.
type Source interface {
	Snapshot() types.Snapshot
}

// Target receives a validated snapshot.
type Target interface {
	Restore(types.Snapshot) error
}

// Document is the backup envelope.
type Document struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	AppInfo   AppInfo   `json:"appInfo"`
	Data      Data      `json:"data"`
}

// AppInfo identifies the application that wrote the document.
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Data holds one array per entity kind plus settings and counts.
type Data struct {
	Parts            []types.Part            `json:"parts"`
	Categories       []types.Category        `json:"categories"`
	StorageLocations []types.StorageLocation `json:"storageLocations"`
	Builds           []types.BuildNote       `json:"builds"`
	GalleryItems     []types.GalleryItem     `json:"galleryItems"`
	Links            []types.Link            `json:"links"`
	Todos            []types.TodoItem        `json:"todos"`
	Settings         *types.Settings         `json:"settings,omitempty"`
	Metadata         *Metadata               `json:"metadata,omitempty"`
}

// Metadata carries the record counts at capture time.
type Metadata struct {
	TotalParts            int       `json:"totalParts"`
	TotalCategories       int       `json:"totalCategories"`
	TotalStorageLocations int       `json:"totalStorageLocations"`
	TotalBuilds           int       `json:"totalBuilds"`
	TotalGalleryItems     int       `json:"totalGalleryItems"`
	TotalLinks            int       `json:"totalLinks"`
	TotalTodos            int       `json:"totalTodos"`
	ExportDate            time.Time `json:"exportDate"`
	ExportedBy            string    `json:"exportedBy"`
}

// Capture reads a snapshot from src and wraps it in a document stamped now.
func Capture(src Source, now time.Time) *Document {
	snap := src.Snapshot()
	now = now.UTC()
	doc := &Document{
		Version:   FormatVersion,
		Timestamp: now,
		AppInfo: AppInfo{
			Name:        partsbin.Name,
			Version:     partsbin.Version,
			Description: partsbin.Description,
		},
		Data: Data{
			Parts:            snap.Parts,
			Categories:       snap.Categories,
			StorageLocations: snap.StorageLocations,
			Builds:           snap.Builds,
			GalleryItems:     snap.GalleryItems,
			Links:            snap.Links,
			Todos:            snap.Todos,
			Settings:         snap.Settings,
		},
	}
	doc.normalize()
	doc.Data.Metadata = &Metadata{
		TotalParts:            len(doc.Data.Parts),
		TotalCategories:       len(doc.Data.Categories),
		TotalStorageLocations: len(doc.Data.StorageLocations),
		TotalBuilds:           len(doc.Data.Builds),
		TotalGalleryItems:     len(doc.Data.GalleryItems),
		TotalLinks:            len(doc.Data.Links),
		TotalTodos:            len(doc.Data.Todos),
		ExportDate:            now,
		ExportedBy:            fmt.Sprintf("%s v%s", partsbin.Name, partsbin.Version),
	}
	return doc
}

// Serialize encodes doc as indented JSON. Empty collections encode as [].
func Serialize(doc *Document) ([]byte, error) {
	doc.normalize()
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return raw, nil
}

// Snapshot returns the document contents as a workshop snapshot.
func (d *Document) Snapshot() types.Snapshot {
	return types.Snapshot{
		Parts:            d.Data.Parts,
		Categories:       d.Data.Categories,
		StorageLocations: d.Data.StorageLocations,
		Builds:           d.Data.Builds,
		GalleryItems:     d.Data.GalleryItems,
		Links:            d.Data.Links,
		Todos:            d.Data.Todos,
		Settings:         d.Data.Settings,
	}
}

func (d *Document) normalize() {
	d.Data.Parts = nonNil(d.Data.Parts)
	d.Data.Categories = nonNil(d.Data.Categories)
	d.Data.StorageLocations = nonNil(d.Data.StorageLocations)
	d.Data.Builds = nonNil(d.Data.Builds)
	d.Data.GalleryItems = nonNil(d.Data.GalleryItems)
	d.Data.Links = nonNil(d.Data.Links)
	d.Data.Todos = nonNil(d.Data.Todos)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Validate parses raw and checks the envelope: an object with a version
// string, a timestamp string, and a data object holding all seven arrays.
// Once the envelope decodes, every record is checked as well; a null array
// element decodes to a record without an id and is reported as such.
// Every offending field is named in the returned *types.ValidationError.
func Validate(raw []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, &types.ValidationError{Fields: []string{"document"}}
	}

	var fields []string
	if !isString(top["version"]) {
		fields = append(fields, "version")
	}
	if !isString(top["timestamp"]) {
		fields = append(fields, "timestamp")
	}
	var data map[string]json.RawMessage
	if r, ok := top["data"]; !ok || json.Unmarshal(r, &data) != nil || data == nil {
		fields = append(fields, "data")
	} else {
		for _, key := range types.CollectionKeys {
			if !isArray(data[key]) {
				fields = append(fields, "data."+key)
			}
		}
	}
	if len(fields) > 0 {
		return nil, &types.ValidationError{Fields: fields}
	}

	doc := &Document{}
	decode := func(field string, r json.RawMessage, dst any) {
		if err := json.Unmarshal(r, dst); err != nil {
			fields = append(fields, field)
		}
	}
	decode("version", top["version"], &doc.Version)
	decode("timestamp", top["timestamp"], &doc.Timestamp)
	if r, ok := top["appInfo"]; ok && !isNull(r) {
		decode("appInfo", r, &doc.AppInfo)
	}
	decode("data.parts", data[types.KeyParts], &doc.Data.Parts)
	decode("data.categories", data[types.KeyCategories], &doc.Data.Categories)
	decode("data.storageLocations", data[types.KeyStorageLocations], &doc.Data.StorageLocations)
	decode("data.builds", data[types.KeyBuilds], &doc.Data.Builds)
	decode("data.galleryItems", data[types.KeyGalleryItems], &doc.Data.GalleryItems)
	decode("data.links", data[types.KeyLinks], &doc.Data.Links)
	decode("data.todos", data[types.KeyTodos], &doc.Data.Todos)

	if r, ok := data["settings"]; ok && !isNull(r) {
		s := types.DefaultSettings()
		if err := json.Unmarshal(r, &s); err != nil || s.Validate() != nil {
			fields = append(fields, "data.settings")
		} else {
			doc.Data.Settings = &s
		}
	}
	if r, ok := data["metadata"]; ok && !isNull(r) {
		var m Metadata
		if err := json.Unmarshal(r, &m); err == nil {
			doc.Data.Metadata = &m
		}
	}

	if len(fields) == 0 {
		var verr *types.ValidationError
		if errors.As(doc.Snapshot().ValidateRecords(), &verr) {
			fields = verr.Fields
		}
	}
	if len(fields) > 0 {
		return nil, &types.ValidationError{Fields: fields}
	}
	doc.normalize()
	return doc, nil
}

// Restore validates raw and hands its snapshot to target. Nothing reaches
// target when validation fails.
func Restore(target Target, raw []byte) (*Document, error) {
	doc, err := Validate(raw)
	if err != nil {
		return nil, err
	}
	if err := target.Restore(doc.Snapshot()); err != nil {
		return nil, err
	}
	return doc, nil
}

func isString(r json.RawMessage) bool {
	r = bytes.TrimSpace(r)
	return len(r) > 0 && r[0] == '"'
}

func isArray(r json.RawMessage) bool {
	r = bytes.TrimSpace(r)
	return len(r) > 0 && r[0] == '['
}

func isNull(r json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(r), []byte("null"))
}
