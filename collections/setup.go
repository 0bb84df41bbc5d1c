package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"printflow/configurator"
)

// Collection names.
const (
	Categories      = "design_categories"
	Materials       = "materials"
	Classifications = "material_classifications"
	Options         = "classification_options"
	Designs         = "designs"
)

// DesignStatuses are the lifecycle states of a design, in display order.
var DesignStatuses = []string{"draft", "proofing", "in_production", "completed"}

// Setup programmatically creates/ensures the catalog and design collections exist.
func Setup(app core.App, logger *zap.Logger) error {
	categories, err := ensureCollection(app, logger, Categories, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: false, Max: 8})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.AddIndex("idx_design_categories_name", true, "name", "")
	})
	if err != nil {
		return err
	}

	materials, err := ensureCollection(app, logger, Materials, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "category",
			Required:      true,
			CollectionId:  categories.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "min_quantity", Required: false, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})
	if err != nil {
		return err
	}

	classifications, err := ensureCollection(app, logger, Classifications, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "material",
			Required:      true,
			CollectionId:  materials.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "key", Required: true})
		c.Fields.Add(&core.TextField{Name: "label", Required: false})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, logger, Options, func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "classification",
			Required:      true,
			CollectionId:  classifications.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "value", Required: true})
		c.Fields.Add(&core.TextField{Name: "label", Required: true})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	})
	if err != nil {
		return err
	}

	finishings := make([]string, 0, len(configurator.Finishings))
	for _, f := range configurator.Finishings {
		finishings = append(finishings, string(f))
	}

	_, err = ensureCollection(app, logger, Designs, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "code", Required: false})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "category",
			Required:     true,
			CollectionId: categories.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "material",
			Required:     true,
			CollectionId: materials.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "min_quantity", Required: false, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "length", Required: true})
		c.Fields.Add(&core.NumberField{Name: "width", Required: true})
		c.Fields.Add(&core.NumberField{Name: "height", Required: false})
		c.Fields.Add(&core.TextField{Name: "requirements", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "finishing",
			Required:  true,
			Values:    finishings,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "classifications", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  false,
			Values:    DesignStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.BoolField{Name: "is_from_existing", Required: false})
		c.Fields.Add(&core.TextField{Name: "source_design", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
	return err
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, logger *zap.Logger, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("collections: already exists, skipping creation", zap.String("collection", name))
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("collections: create %q: %w", name, err)
	}

	logger.Info("collections: created", zap.String("collection", name), zap.String("id", collection.Id))
	return collection, nil
}
