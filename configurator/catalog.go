package configurator

import (
	"context"
	"errors"
)

// ErrUnknownMaterial is returned by a ClassificationSource for a material it does
// not know.
var ErrUnknownMaterial = errors.New("unknown material")

// Well-known classification keys.
const (
	ClassificationSides   = "sides"
	ClassificationProcess = "process"
)

// Category is a design type, e.g. "Túi" or "Hộp".
type Category struct {
	ID   string `yaml:"id"`
	Code string `yaml:"code"` // short prefix used in design codes, derived from Name when empty
	Name string `yaml:"name"`
}

// Option is one allowed choice of a classification group.
type Option struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Classification is a group of mutually exclusive choices defined on a material.
type Classification struct {
	Key     string   `yaml:"key"`
	Label   string   `yaml:"label"`
	Options []Option `yaml:"options"`
}

// HasOption reports whether id is one of the group's options.
func (c Classification) HasOption(id string) bool {
	for _, o := range c.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// OptionLabel returns the label of the option, or the id when it is not found.
func (c Classification) OptionLabel(id string) string {
	for _, o := range c.Options {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

// Material is a printable material of a category.
type Material struct {
	ID              string           `yaml:"id"`
	CategoryID      string           `yaml:"category"`
	Name            string           `yaml:"name"`
	Unit            string           `yaml:"unit"`
	MinQuantity     int              `yaml:"min_quantity"` // 0 means no minimum
	Classifications []Classification `yaml:"classifications"`
}

// Classification returns the group with the given key.
func (m Material) Classification(key string) (Classification, bool) {
	for _, c := range m.Classifications {
		if c.Key == key {
			return c, true
		}
	}
	return Classification{}, false
}

// ClassificationSource loads the detailed classification structure of a material.
// Implementations return ErrUnknownMaterial (possibly wrapped) for unknown ids.
type ClassificationSource interface {
	MaterialDetail(ctx context.Context, materialID string) (Material, error)
}

// ClassificationSourceFunc adapts a function to ClassificationSource.
type ClassificationSourceFunc func(ctx context.Context, materialID string) (Material, error)

func (f ClassificationSourceFunc) MaterialDetail(ctx context.Context, materialID string) (Material, error) {
	return f(ctx, materialID)
}

func findCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func findMaterial(materials []Material, id string) (Material, bool) {
	for _, m := range materials {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}
