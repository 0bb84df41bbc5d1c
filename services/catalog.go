package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"printflow/collections"
	"printflow/configurator"
	"printflow/metrics"
)

// CatalogStore reads categories, materials and their classification structure.
// It implements configurator.ClassificationSource.
type CatalogStore struct {
	app    core.App
	logger *zap.Logger
}

// NewCatalogStore returns a store backed by app.
func NewCatalogStore(app core.App, logger *zap.Logger) *CatalogStore {
	return &CatalogStore{app: app, logger: logger.Named("catalog")}
}

var _ configurator.ClassificationSource = (*CatalogStore)(nil)

// Categories returns every category in display order.
func (s *CatalogStore) Categories() ([]configurator.Category, error) {
	records, err := s.app.FindRecordsByFilter(
		collections.Categories,
		"id != ''",
		"sort_order,name",
		0,
		0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}

	ret := make([]configurator.Category, 0, len(records))
	for _, r := range records {
		ret = append(ret, recordToCategory(r))
	}
	return ret, nil
}

// Category returns one category.
func (s *CatalogStore) Category(id string) (configurator.Category, error) {
	r, err := s.app.FindRecordById(collections.Categories, id)
	if err != nil {
		return configurator.Category{}, fmt.Errorf("catalog: category %s: %w", id, err)
	}
	return recordToCategory(r), nil
}

// Materials returns the materials of a category without their classifications.
func (s *CatalogStore) Materials(categoryID string) ([]configurator.Material, error) {
	if categoryID == "" {
		return nil, nil
	}
	records, err := s.app.FindRecordsByFilter(
		collections.Materials,
		"category = {:category}",
		"sort_order,name",
		0,
		0,
		map[string]any{"category": categoryID},
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: list materials of %s: %w", categoryID, err)
	}

	ret := make([]configurator.Material, 0, len(records))
	for _, r := range records {
		ret = append(ret, recordToMaterial(r))
	}
	return ret, nil
}

// MaterialDetail returns the material with its classification groups and options.
func (s *CatalogStore) MaterialDetail(ctx context.Context, materialID string) (m configurator.Material, err error) {
	timer := metrics.NewTimer()
	defer func() {
		metrics.RecordMaterialDetail(err, timer.Duration())
	}()

	if err := ctx.Err(); err != nil {
		return configurator.Material{}, err
	}

	record, err := s.app.FindRecordById(collections.Materials, materialID)
	if err != nil {
		return configurator.Material{}, fmt.Errorf("catalog: material %s: %w", materialID, configurator.ErrUnknownMaterial)
	}
	m = recordToMaterial(record)

	groups, err := s.app.FindRecordsByFilter(
		collections.Classifications,
		"material = {:material}",
		"sort_order,key",
		0,
		0,
		map[string]any{"material": materialID},
	)
	if err != nil {
		return configurator.Material{}, fmt.Errorf("catalog: classifications of %s: %w", materialID, err)
	}
	if len(groups) == 0 {
		return m, nil
	}

	if err := ctx.Err(); err != nil {
		return configurator.Material{}, err
	}

	options, err := s.app.FindRecordsByFilter(
		collections.Options,
		"classification.material = {:material}",
		"sort_order,label",
		0,
		0,
		map[string]any{"material": materialID},
	)
	if err != nil {
		return configurator.Material{}, fmt.Errorf("catalog: options of %s: %w", materialID, err)
	}

	byGroup := make(map[string][]configurator.Option, len(groups))
	for _, o := range options {
		gid := o.GetString("classification")
		byGroup[gid] = append(byGroup[gid], configurator.Option{
			ID:    o.GetString("value"),
			Label: o.GetString("label"),
		})
	}

	for _, g := range groups {
		m.Classifications = append(m.Classifications, configurator.Classification{
			Key:     g.GetString("key"),
			Label:   g.GetString("label"),
			Options: byGroup[g.Id],
		})
	}

	s.logger.Debug("catalog: material detail loaded",
		zap.String("material_id", materialID), zap.Int("groups", len(groups)), zap.Int("options", len(options)))
	return m, nil
}

func recordToCategory(r *core.Record) configurator.Category {
	return configurator.Category{
		ID:   r.Id,
		Code: r.GetString("code"),
		Name: r.GetString("name"),
	}
}

func recordToMaterial(r *core.Record) configurator.Material {
	return configurator.Material{
		ID:          r.Id,
		CategoryID:  r.GetString("category"),
		Name:        r.GetString("name"),
		Unit:        r.GetString("unit"),
		MinQuantity: r.GetInt("min_quantity"),
	}
}
