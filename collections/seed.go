package collections

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"printflow/configurator"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ── Definition structs ───────────────────────────────────────────────────

// Catalog is the seed file layout: categories with their materials, each material
// with its classification groups.
type Catalog struct {
	Categories []CategoryDef `yaml:"categories"`
}

type CategoryDef struct {
	Code      string        `yaml:"code"`
	Name      string        `yaml:"name"`
	Materials []MaterialDef `yaml:"materials"`
}

type MaterialDef struct {
	Name            string                        `yaml:"name"`
	Unit            string                        `yaml:"unit"`
	MinQuantity     int                           `yaml:"min_quantity"`
	Classifications []configurator.Classification `yaml:"classifications"`
}

// ParseCatalog decodes a YAML catalog and checks that every category, material,
// classification and option is named.
func ParseCatalog(data []byte) (Catalog, error) {
	var def Catalog
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Catalog{}, fmt.Errorf("seed: parse catalog: %w", err)
	}
	for _, c := range def.Categories {
		if c.Name == "" {
			return Catalog{}, fmt.Errorf("seed: category without a name")
		}
		for _, m := range c.Materials {
			if m.Name == "" {
				return Catalog{}, fmt.Errorf("seed: material without a name in category %q", c.Name)
			}
			if m.MinQuantity < 0 {
				return Catalog{}, fmt.Errorf("seed: material %q has a negative minimum quantity", m.Name)
			}
			for _, cl := range m.Classifications {
				if cl.Key == "" {
					return Catalog{}, fmt.Errorf("seed: classification without a key on material %q", m.Name)
				}
				for _, o := range cl.Options {
					if o.ID == "" || o.Label == "" {
						return Catalog{}, fmt.Errorf("seed: incomplete option in %q of material %q", cl.Key, m.Name)
					}
				}
			}
		}
	}
	return def, nil
}

// Seed loads the embedded catalog. It is safe to call on every startup because it
// returns early if any category already exists.
func Seed(app core.App, logger *zap.Logger) error {
	return SeedCatalog(app, logger, defaultCatalog)
}

// SeedCatalog loads a YAML catalog into an empty catalog. All records are written in
// one transaction.
func SeedCatalog(app core.App, logger *zap.Logger, data []byte) error {
	def, err := ParseCatalog(data)
	if err != nil {
		return err
	}

	// ── idempotency: skip if categories already exist ────────────────
	existing, err := app.CountRecords(Categories)
	if err != nil {
		return fmt.Errorf("seed: could not count categories: %w", err)
	}
	if existing > 0 {
		logger.Debug("seed: catalog already present, skipping")
		return nil
	}

	var materials, options int
	err = app.RunInTransaction(func(tx core.App) error {
		for ci, c := range def.Categories {
			category, err := saveRecord(tx, Categories, map[string]any{
				"code":       c.Code,
				"name":       c.Name,
				"sort_order": ci + 1,
			})
			if err != nil {
				return err
			}

			for mi, m := range c.Materials {
				material, err := saveRecord(tx, Materials, map[string]any{
					"category":     category.Id,
					"name":         m.Name,
					"unit":         m.Unit,
					"min_quantity": m.MinQuantity,
					"sort_order":   mi + 1,
				})
				if err != nil {
					return err
				}
				materials++

				for gi, g := range m.Classifications {
					group, err := saveRecord(tx, Classifications, map[string]any{
						"material":   material.Id,
						"key":        g.Key,
						"label":      g.Label,
						"sort_order": gi + 1,
					})
					if err != nil {
						return err
					}

					for oi, o := range g.Options {
						if _, err := saveRecord(tx, Options, map[string]any{
							"classification": group.Id,
							"value":          o.ID,
							"label":          o.Label,
							"sort_order":     oi + 1,
						}); err != nil {
							return err
						}
						options++
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("seed: catalog loaded",
		zap.Int("categories", len(def.Categories)),
		zap.Int("materials", materials),
		zap.Int("options", options))
	return nil
}

func saveRecord(app core.App, collection string, fields map[string]any) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		return nil, fmt.Errorf("seed: could not find %s collection: %w", collection, err)
	}
	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}
	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("seed: save %s record: %w", collection, err)
	}
	return record, nil
}
