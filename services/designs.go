package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"printflow/collections"
	"printflow/configurator"
)

// ErrDesignNotFound is returned for an unknown design id.
var ErrDesignNotFound = errors.New("design not found")

// DesignRow is a design as shown in the design list.
type DesignRow struct {
	ID           string
	Code         string
	Name         string
	CategoryID   string
	Category     string
	MaterialID   string
	Material     string
	Unit         string
	Quantity     int
	Length       float64
	Width        float64
	Height       float64
	Finishing    configurator.Finishing
	Status       string
	Requirements string
	Created      time.Time
	Updated      time.Time
}

// DesignStore persists designs.
type DesignStore struct {
	app    core.App
	logger *zap.Logger
}

// NewDesignStore returns a store backed by app.
func NewDesignStore(app core.App, logger *zap.Logger) *DesignStore {
	return &DesignStore{app: app, logger: logger.Named("designs")}
}

// List returns every design, newest first, with category and material names resolved.
func (s *DesignStore) List() ([]DesignRow, error) {
	records, err := s.app.FindRecordsByFilter(
		collections.Designs,
		"id != ''",
		"-created",
		0,
		0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("designs: list: %w", err)
	}

	categoryNames, err := s.names(collections.Categories)
	if err != nil {
		return nil, err
	}
	materials, err := s.app.FindAllRecords(collections.Materials)
	if err != nil {
		return nil, fmt.Errorf("designs: list materials: %w", err)
	}
	materialByID := make(map[string]*core.Record, len(materials))
	for _, m := range materials {
		materialByID[m.Id] = m
	}

	rows := make([]DesignRow, 0, len(records))
	for _, r := range records {
		row := DesignRow{
			ID:           r.Id,
			Code:         r.GetString("code"),
			Name:         r.GetString("name"),
			CategoryID:   r.GetString("category"),
			MaterialID:   r.GetString("material"),
			Quantity:     r.GetInt("quantity"),
			Length:       r.GetFloat("length"),
			Width:        r.GetFloat("width"),
			Height:       r.GetFloat("height"),
			Finishing:    configurator.Finishing(r.GetString("finishing")),
			Status:       r.GetString("status"),
			Requirements: r.GetString("requirements"),
			Created:      r.GetDateTime("created").Time(),
			Updated:      r.GetDateTime("updated").Time(),
		}
		row.Category = categoryNames[row.CategoryID]
		if m, ok := materialByID[row.MaterialID]; ok {
			row.Material = m.GetString("name")
			row.Unit = m.GetString("unit")
		}
		if row.Status == "" {
			row.Status = "draft"
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *DesignStore) names(collection string) (map[string]string, error) {
	records, err := s.app.FindAllRecords(collection)
	if err != nil {
		return nil, fmt.Errorf("designs: list %s: %w", collection, err)
	}
	ret := make(map[string]string, len(records))
	for _, r := range records {
		ret[r.Id] = r.GetString("name")
	}
	return ret, nil
}

// Load returns a stored design as a draft.
func (s *DesignStore) Load(id string) (configurator.Draft, error) {
	record, err := s.app.FindRecordById(collections.Designs, id)
	if err != nil {
		return configurator.Draft{}, fmt.Errorf("designs: load %s: %w", id, ErrDesignNotFound)
	}
	return recordToDraft(record), nil
}

// Save creates the design when the draft is new and updates it otherwise. New
// designs get a generated code. The stored draft is returned.
func (s *DesignStore) Save(d configurator.Draft) (configurator.Draft, error) {
	var saved configurator.Draft
	err := s.app.RunInTransaction(func(tx core.App) error {
		var record *core.Record
		if d.IsNew() {
			col, err := tx.FindCollectionByNameOrId(collections.Designs)
			if err != nil {
				return fmt.Errorf("designs: find collection: %w", err)
			}
			record = core.NewRecord(col)
			code, err := GenerateDesignCode(tx, d)
			if err != nil {
				return fmt.Errorf("designs: generate code: %w", err)
			}
			record.Set("code", code)
			record.Set("status", "draft")
		} else {
			existing, err := tx.FindRecordById(collections.Designs, d.ID)
			if err != nil {
				return fmt.Errorf("designs: update %s: %w", d.ID, ErrDesignNotFound)
			}
			record = existing
		}

		applyDraft(record, d)
		if err := tx.Save(record); err != nil {
			return fmt.Errorf("designs: save: %w", err)
		}
		saved = recordToDraft(record)
		return nil
	})
	if err != nil {
		return configurator.Draft{}, err
	}

	s.logger.Info("designs: saved",
		zap.String("design_id", saved.ID), zap.String("code", saved.Code), zap.Bool("reorder", saved.IsFromExisting))
	return saved, nil
}

// Delete removes one design.
func (s *DesignStore) Delete(id string) error {
	record, err := s.app.FindRecordById(collections.Designs, id)
	if err != nil {
		return fmt.Errorf("designs: delete %s: %w", id, ErrDesignNotFound)
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("designs: delete %s: %w", id, err)
	}
	s.logger.Info("designs: deleted", zap.String("design_id", id))
	return nil
}

// DeleteMany removes the designs in one transaction and returns how many were
// deleted. Unknown ids are skipped.
func (s *DesignStore) DeleteMany(ids []string) (int, error) {
	deleted := 0
	err := s.app.RunInTransaction(func(tx core.App) error {
		for _, id := range ids {
			record, err := tx.FindRecordById(collections.Designs, id)
			if err != nil {
				continue
			}
			if err := tx.Delete(record); err != nil {
				return fmt.Errorf("designs: delete %s: %w", id, err)
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("designs: bulk deleted", zap.Int("requested", len(ids)), zap.Int("deleted", deleted))
	return deleted, nil
}

func applyDraft(record *core.Record, d configurator.Draft) {
	record.Set("name", d.Name)
	record.Set("category", d.CategoryID)
	record.Set("material", d.MaterialID)
	record.Set("quantity", d.Quantity)
	record.Set("min_quantity", d.MinQuantity)
	record.Set("length", d.Length)
	record.Set("width", d.Width)
	record.Set("height", d.Height)
	record.Set("requirements", d.Requirements)
	record.Set("notes", d.Notes)
	record.Set("finishing", string(d.Finishing))
	classifications := d.Classifications
	if classifications == nil {
		classifications = map[string]string{}
	}
	record.Set("classifications", classifications)
	record.Set("is_from_existing", d.IsFromExisting)
	record.Set("source_design", d.SourceID)
}

func recordToDraft(r *core.Record) configurator.Draft {
	d := configurator.Draft{
		ID:             r.Id,
		Code:           r.GetString("code"),
		Name:           r.GetString("name"),
		CategoryID:     r.GetString("category"),
		MaterialID:     r.GetString("material"),
		Quantity:       r.GetInt("quantity"),
		MinQuantity:    r.GetInt("min_quantity"),
		Length:         r.GetFloat("length"),
		Width:          r.GetFloat("width"),
		Height:         r.GetFloat("height"),
		Requirements:   r.GetString("requirements"),
		Notes:          r.GetString("notes"),
		Finishing:      configurator.Finishing(r.GetString("finishing")),
		IsFromExisting: r.GetBool("is_from_existing"),
		SourceID:       r.GetString("source_design"),
	}
	classifications := map[string]string{}
	if err := r.UnmarshalJSONField("classifications", &classifications); err != nil || classifications == nil {
		classifications = map[string]string{}
	}
	d.Classifications = classifications
	return d
}

// SetStatus moves a design to one of collections.DesignStatuses.
func (s *DesignStore) SetStatus(id, status string) error {
	if !slices.Contains(collections.DesignStatuses, status) {
		return fmt.Errorf("designs: unknown status %q", status)
	}
	record, err := s.app.FindRecordById(collections.Designs, id)
	if err != nil {
		return fmt.Errorf("designs: status of %s: %w", id, ErrDesignNotFound)
	}
	record.Set("status", status)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("designs: status of %s: %w", id, err)
	}
	return nil
}

// NextStatus returns the status after current, or "" when current is the last one.
func NextStatus(current string) string {
	i := slices.Index(collections.DesignStatuses, current)
	if i < 0 || i == len(collections.DesignStatuses)-1 {
		return ""
	}
	return collections.DesignStatuses[i+1]
}
