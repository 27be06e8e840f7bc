package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/partsbin/internal/memory"
	"github.com/mesh-intelligence/partsbin/internal/workshop"
	"github.com/mesh-intelligence/partsbin/pkg/types"
)

var captureTime = time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)

func setupWorkshop(t *testing.T, opts ...workshop.Option) *workshop.Workshop {
	t.Helper()
	store := memory.NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendMemory}))
	w, err := workshop.New(store, opts...)
	require.NoError(t, err)
	return w
}

// staticSource returns a fixed snapshot.
type staticSource types.Snapshot

func (s staticSource) Snapshot() types.Snapshot { return types.Snapshot(s) }

// recordingTarget keeps the last restored snapshot.
type recordingTarget struct {
	calls int
	got   types.Snapshot
}

func (r *recordingTarget) Restore(s types.Snapshot) error {
	r.calls++
	r.got = s
	return nil
}

func TestCapture_MetadataMatchesArrays(t *testing.T) {
	src := staticSource{
		Parts:      []types.Part{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
		Categories: []types.Category{{ID: "c1"}},
		Builds:     []types.BuildNote{},
	}
	doc := Capture(src, captureTime)

	require.NotNil(t, doc.Data.Metadata)
	m := doc.Data.Metadata
	assert.Equal(t, 3, m.TotalParts)
	assert.Equal(t, 1, m.TotalCategories)
	assert.Equal(t, 0, m.TotalBuilds)
	assert.Equal(t, 0, m.TotalStorageLocations)
	assert.Equal(t, 0, m.TotalGalleryItems)
	assert.Equal(t, 0, m.TotalLinks)
	assert.Equal(t, 0, m.TotalTodos)
	assert.Equal(t, captureTime, m.ExportDate)
	assert.Equal(t, FormatVersion, doc.Version)
	assert.Equal(t, "partsbin", doc.AppInfo.Name)
}

func TestSerialize_EmptyArrays(t *testing.T) {
	raw, err := Serialize(Capture(staticSource{}, captureTime))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	data := generic["data"].(map[string]any)
	for _, key := range types.CollectionKeys {
		assert.Equal(t, []any{}, data[key], key)
	}
	assert.Equal(t, "2026-05-04T12:30:00Z", generic["timestamp"])
	_, hasSettings := data["settings"]
	assert.False(t, hasSettings)
}

func TestValidate(t *testing.T) {
	minimal := `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
		"parts":[],"categories":[],"storageLocations":[],"builds":[],
		"galleryItems":[],"links":[],"todos":[]}}`

	tests := []struct {
		name       string
		raw        string
		wantFields []string
	}{
		{"minimal document", minimal, nil},
		{"not json", `{nope`, []string{"document"}},
		{"not an object", `[1,2]`, []string{"document"}},
		{"null", `null`, []string{"document"}},
		{"missing data", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z"}`, []string{"data"}},
		{"null data", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":null}`, []string{"data"}},
		{"missing everything", `{}`, []string{"version", "timestamp", "data"}},
		{"numeric version", `{"version":1,"timestamp":"2026-05-04T12:30:00Z","data":{}}`, []string{
			"version", "data.parts", "data.categories", "data.storageLocations", "data.builds",
			"data.galleryItems", "data.links", "data.todos",
		}},
		{"missing one array", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
			"parts":[],"categories":[],"storageLocations":[],"builds":[],
			"galleryItems":[],"links":[]}}`, []string{"data.todos"}},
		{"wrong shaped array", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
			"parts":{},"categories":[],"storageLocations":[],"builds":[],
			"galleryItems":[],"links":[],"todos":"none"}}`, []string{"data.parts", "data.todos"}},
		{"bad record", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
			"parts":[{"quantity":"lots"}],"categories":[],"storageLocations":[],"builds":[],
			"galleryItems":[],"links":[],"todos":[]}}`, []string{"data.parts"}},
		{"bad timestamp", `{"version":"1.0.0","timestamp":"yesterday","data":{
			"parts":[],"categories":[],"storageLocations":[],"builds":[],
			"galleryItems":[],"links":[],"todos":[]}}`, []string{"timestamp"}},
		{"null record", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
			"parts":[null],"categories":[],"storageLocations":[],"builds":[],
			"galleryItems":[],"links":[],"todos":[]}}`, []string{"data.parts[0].id", "data.parts[0]"}},
		{"records breaking invariants", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
			"parts":[
				{"id":"dup","name":"Frame","category":"Frames","quantity":1,"inUse":5},
				{"id":"dup","name":"Arm","category":"","quantity":-3},
				{"id":"ok","name":"Motor","category":"Motors","quantity":4,"inUse":4}],
			"categories":[{"id":"c1","name":"Frames"},{"id":"c2","name":" frames "}],
			"storageLocations":[],"builds":[{"id":"b1","title":"Quad","status":"flying"}],
			"galleryItems":[],"links":[{"id":"l1","title":"Shop","url":"not a url"}],
			"todos":[{"id":"t1","title":"Charge","priority":"urgent"}]}}`, []string{
			"data.parts[0]", "data.parts[1].id", "data.parts[1]",
			"data.categories[1].name", "data.builds[0]", "data.links[0]", "data.todos[0]",
		}},
		{"bad settings", `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
			"parts":[],"categories":[],"storageLocations":[],"builds":[],
			"galleryItems":[],"links":[],"todos":[],"settings":{"theme":"neon"}}}`, []string{"data.settings"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Validate([]byte(tt.raw))
			if tt.wantFields == nil {
				require.NoError(t, err)
				require.NotNil(t, doc)
				assert.NotNil(t, doc.Data.Parts)
				assert.Nil(t, doc.Data.Settings)
				return
			}
			require.ErrorIs(t, err, types.ErrValidationFailed)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantFields, verr.Fields)
			assert.Nil(t, doc)
		})
	}
}

func TestValidate_PartialSettingsUseDefaults(t *testing.T) {
	raw := `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
		"parts":[],"categories":[],"storageLocations":[],"builds":[],
		"galleryItems":[],"links":[],"todos":[],"settings":{"theme":"midnight"}}}`
	doc, err := Validate([]byte(raw))
	require.NoError(t, err)
	require.NotNil(t, doc.Data.Settings)

	want := types.DefaultSettings()
	want.Theme = types.ThemeMidnight
	assert.Equal(t, want, *doc.Data.Settings)
}

func TestRestore_InvalidLeavesTargetUntouched(t *testing.T) {
	target := &recordingTarget{}
	_, err := Restore(target, []byte(`{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{}}`))
	require.ErrorIs(t, err, types.ErrValidationFailed)
	assert.Zero(t, target.calls)
}

func TestRestore_InvalidRecordsLeaveWorkshopUntouched(t *testing.T) {
	w := setupWorkshop(t)
	before := w.Snapshot()
	raw := `{"version":"1.0.0","timestamp":"2026-05-04T12:30:00Z","data":{
		"parts":[
			{"id":"dup","name":"Frame","category":"Frames","quantity":1,"inUse":5},
			{"id":"dup","name":"Arm","category":"","quantity":-3}],
		"categories":[],"storageLocations":[],"builds":[],
		"galleryItems":[],"links":[],"todos":[null]}}`

	_, err := Restore(w, []byte(raw))
	require.ErrorIs(t, err, types.ErrValidationFailed)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"data.parts[0]", "data.parts[1].id", "data.parts[1]", "data.todos[0].id", "data.todos[0]",
	}, verr.Fields)
	assert.Equal(t, before, w.Snapshot())
}

func TestRoundTrip_Workshop(t *testing.T) {
	src := setupWorkshop(t)
	_, err := src.Gallery.AddCustomTag("longrange")
	require.NoError(t, err)
	_, err = src.UpdateSettings(types.SettingsPatch{Theme: types.Ptr(types.ThemeCyberpunk)})
	require.NoError(t, err)

	raw, err := Serialize(Capture(src, captureTime))
	require.NoError(t, err)

	dst := setupWorkshop(t, workshop.WithoutSeed())
	_, err = dst.Parts.Add(types.Part{Name: "Leftover", Category: "Misc", Quantity: 1})
	require.NoError(t, err)

	doc, err := Restore(dst, raw)
	require.NoError(t, err)
	assert.Equal(t, captureTime, doc.Timestamp)

	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.Equal(t, types.ThemeCyberpunk, dst.Settings().Theme)
}
