// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"printflow/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	if err := collections.Setup(app, zap.NewNop()); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// NewSeededTestApp is NewTestApp with the embedded catalog loaded.
func NewSeededTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := NewTestApp(t)
	if err := collections.Seed(app, zap.NewNop()); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return app
}

// FindCategory returns the category record with the given name.
func FindCategory(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	record, err := app.FindFirstRecordByData(collections.Categories, "name", name)
	if err != nil {
		t.Fatalf("failed to find category %q: %v", name, err)
	}
	return record
}

// FindMaterial returns the material record with the given name.
func FindMaterial(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	record, err := app.FindFirstRecordByData(collections.Materials, "name", name)
	if err != nil {
		t.Fatalf("failed to find material %q: %v", name, err)
	}
	return record
}

// CreateTestCategory creates a category record and returns it.
func CreateTestCategory(t *testing.T, app core.App, code, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Categories)
	if err != nil {
		t.Fatalf("failed to find categories collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", name)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test category: %v", err)
	}
	return record
}

// CreateTestMaterial creates a material of a category and returns it.
func CreateTestMaterial(t *testing.T, app core.App, categoryID, name string, minQuantity int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Materials)
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("category", categoryID)
	record.Set("name", name)
	record.Set("unit", "cái")
	record.Set("min_quantity", minQuantity)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}
	return record
}

// CreateTestDesign creates a design record with a fixed specification and returns it.
func CreateTestDesign(t *testing.T, app core.App, categoryID, materialID, code, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Designs)
	if err != nil {
		t.Fatalf("failed to find designs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("code", code)
	record.Set("name", name)
	record.Set("category", categoryID)
	record.Set("material", materialID)
	record.Set("quantity", 1000)
	record.Set("length", 20)
	record.Set("width", 30)
	record.Set("finishing", "matte_lamination")
	record.Set("classifications", map[string]string{})
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test design: %v", err)
	}
	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
