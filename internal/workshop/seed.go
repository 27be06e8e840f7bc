package workshop

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

// initialCustomTags are registered explicitly on first run.
var initialCustomTags = []string{"freestyle", "5inch", "3inch", "micro", "analog", "digital"}

// seedCategory describes a category and its subcategories to seed.
type seedCategory struct {
	name        string
	description string
	color       string
	subs        []string
}

var seedCategories = []seedCategory{
	{"Frames", "Carbon frames and arms", "#3b82f6", []string{"5 inch", "3 inch", "Whoop"}},
	{"Motors", "Brushless motors", "#ef4444", []string{"2306", "1404", "0802"}},
	{"ESCs", "Electronic speed controllers", "#f59e0b", []string{"4-in-1", "Single"}},
	{"Flight Controllers", "FC boards and stacks", "#10b981", []string{"F4", "F7", "AIO"}},
	{"Propellers", "Props by size", "#8b5cf6", []string{"5 inch", "3 inch"}},
	{"Batteries", "LiPo and Li-ion packs", "#ec4899", []string{"6S", "4S", "1S"}},
	{"Video", "Cameras and VTX", "#06b6d4", []string{"Analog", "Digital"}},
	{"Uncategorized", "Everything else", "#6b7280", nil},
}

var seedLocations = []struct{ name, description string }{
	{"Workbench", "Drawers under the bench"},
	{"Parts Bin A", "Small parts organizer"},
	{"Battery Bag", "Fireproof LiPo bag"},
}

// seedSampleData writes sample records for every kind in one store batch.
func (w *Workshop) seedSampleData() error {
	now := w.stamp()
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	categories := make([]types.Category, 0, len(seedCategories))
	for _, sc := range seedCategories {
		subs := make([]types.Subcategory, 0, len(sc.subs))
		for _, name := range sc.subs {
			subs = append(subs, types.Subcategory{ID: generateUUID(), Name: name})
		}
		categories = append(categories, types.Category{
			ID:            generateUUID(),
			Name:          sc.name,
			Description:   sc.description,
			Color:         sc.color,
			Subcategories: subs,
			DateAdded:     now,
		})
	}

	locations := make([]types.StorageLocation, 0, len(seedLocations))
	for _, sl := range seedLocations {
		locations = append(locations, types.StorageLocation{
			ID:          generateUUID(),
			Name:        sl.name,
			Description: sl.description,
			DateAdded:   now,
		})
	}

	parts := []types.Part{
		{Name: "Source One V5 Frame", Category: "Frames", Subcategory: "5 inch", Quantity: 2, InUse: 1, Price: 39.99, Location: "Workbench", Description: "Durable 5 inch freestyle frame", Manufacturer: "TBS", ModelNumber: "SO-V5"},
		{Name: "2306 1900KV Motor", Category: "Motors", Subcategory: "2306", Quantity: 8, InUse: 4, Price: 21.50, Location: "Parts Bin A", Description: "6S freestyle motor"},
		{Name: "45A 4-in-1 ESC", Category: "ESCs", Subcategory: "4-in-1", Quantity: 1, InUse: 1, Price: 59.00, Location: "Workbench", Description: "BLHeli_32 4-in-1"},
		{Name: "F722 Flight Controller", Category: "Flight Controllers", Subcategory: "F7", Quantity: 2, InUse: 1, Price: 44.95, Location: "Parts Bin A", Manufacturer: "Matek", ModelNumber: "F722-SE"},
		{Name: "5.1x3.1x3 Props", Category: "Propellers", Subcategory: "5 inch", Quantity: 24, InUse: 4, Price: 0.75, Location: "Parts Bin A"},
		{Name: "6S 1300mAh LiPo", Category: "Batteries", Subcategory: "6S", Quantity: 4, Price: 32.00, Location: "Battery Bag"},
		{Name: "Caddx Vista", Category: "Video", Subcategory: "Digital", Quantity: 1, InUse: 1, Price: 139.00, Location: "Workbench"},
	}
	for i := range parts {
		parts[i].ID = generateUUID()
		parts[i].ImageURLs = []string{}
		parts[i].DateAdded = ago(time.Duration(len(parts)-i) * time.Hour)
	}

	builds := []types.BuildNote{
		{
			ID:          generateUUID(),
			Title:       "5 inch Freestyle",
			Description: "Daily freestyle ripper",
			Status:      types.BuildStatusCompleted,
			Parts: []types.BuildPart{
				{PartID: parts[0].ID, Quantity: 1},
				{PartID: parts[1].ID, Quantity: 4},
				{PartID: parts[2].ID, Quantity: 1},
			},
			TotalCost: 185.00,
			ImageURLs: []string{},
			Specs: &types.BuildSpecs{
				Weight: 650, Size: "5 inch", MotorKV: 1900, BatteryConfig: "6S 1300mAh",
				FlightController: "Matek F722-SE", VTX: "Rush Tank Ultimate",
			},
			DateCreated: ago(72 * time.Hour),
		},
		{
			ID:          generateUUID(),
			Title:       "3 inch Cinewhoop",
			Description: "Indoor cinematic build",
			Status:      types.BuildStatusPlanning,
			Parts:       []types.BuildPart{},
			ImageURLs:   []string{},
			DateCreated: ago(24 * time.Hour),
		},
	}

	gallery := []types.GalleryItem{
		{
			ID:          generateUUID(),
			Title:       "Freestyle Beast",
			Description: `My favorite 5" freestyle quad with amazing handling`,
			ImageURLs: []string{
				"https://images.pexels.com/photos/442587/pexels-photo-442587.jpeg?auto=compress&cs=tinysrgb&w=1280",
				"https://images.pexels.com/photos/442589/pexels-photo-442589.jpeg?auto=compress&cs=tinysrgb&w=1280",
			},
			Tags: []string{"freestyle", "5inch", "analog"},
			Specs: &types.BuildSpecs{
				Weight: 650, Size: "5 inch", MotorKV: 1900, BatteryConfig: "6S 1300mAh",
				FlightController: "Matek F722-SE", VTX: "Rush Tank Ultimate",
			},
			DateAdded: ago(2 * time.Hour),
		},
		{
			ID:          generateUUID(),
			Title:       "Micro Ripper",
			Description: `Ultra-light 3" build for indoor and outdoor fun`,
			ImageURLs: []string{
				"https://images.pexels.com/photos/744366/pexels-photo-744366.jpeg?auto=compress&cs=tinysrgb&w=1280",
			},
			Tags: []string{"micro", "3inch", "digital"},
			Specs: &types.BuildSpecs{
				Weight: 180, Size: "3 inch", MotorKV: 4500, BatteryConfig: "3S 450mAh",
				FlightController: "HGLRC Zeus F722 Mini", VTX: "Caddx Vista",
			},
			DateAdded: ago(time.Hour),
		},
	}

	links := []types.Link{
		{ID: generateUUID(), Title: "Betaflight", URL: "https://betaflight.com", Description: "Flight controller firmware", Category: "Software", Tags: []string{"firmware"}, DateAdded: now},
		{ID: generateUUID(), Title: "Oscar Liang", URL: "https://oscarliang.com", Description: "FPV guides and reviews", Category: "Guides", Tags: []string{"tutorial"}, DateAdded: now},
	}

	todos := []types.TodoItem{
		{ID: generateUUID(), Title: "Order replacement props", Priority: types.PriorityHigh, DateCreated: ago(3 * time.Hour)},
		{ID: generateUUID(), Title: "Tune PIDs on freestyle quad", Description: "Blackbox log first", Priority: types.PriorityMedium, DateCreated: ago(2 * time.Hour)},
		{ID: generateUUID(), Title: "Balance charge battery packs", Priority: types.PriorityLow, DateCreated: ago(time.Hour)},
	}

	batch := map[string][]byte{}
	values := map[string]any{
		types.KeyParts:            parts,
		types.KeyCategories:       categories,
		types.KeyStorageLocations: locations,
		types.KeyBuilds:           builds,
		types.KeyGalleryItems:     gallery,
		types.KeyLinks:            links,
		types.KeyTodos:            todos,
		types.KeySettings:         types.DefaultSettings(),
		types.KeyCustomTags:       initialCustomTags,
	}
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding seed %s: %w", key, err)
		}
		batch[key] = raw
	}
	if err := w.store.SetBatch(batch); err != nil {
		return fmt.Errorf("%w: seeding sample data: %v", types.ErrSinkFailure, err)
	}

	w.log.Info("seeded sample data",
		"parts", len(parts),
		"categories", len(categories),
		"galleryItems", len(gallery),
	)
	return nil
}
