package services

import (
	"printflow/configurator"
)

// SelectOption is a value/label pair for a <select>.
type SelectOption struct {
	Value string
	Label string
}

// StatusLabels maps each design status to its display label.
var StatusLabels = map[string]string{
	"draft":         "Nháp",
	"proofing":      "Duyệt mẫu",
	"in_production": "Đang sản xuất",
	"completed":     "Hoàn thành",
}

// FinishingOptions returns the finishing treatments in display order.
func FinishingOptions() []SelectOption {
	ret := make([]SelectOption, 0, len(configurator.Finishings))
	for _, f := range configurator.Finishings {
		ret = append(ret, SelectOption{Value: string(f), Label: f.Label()})
	}
	return ret
}

// CategoryOptions converts categories to select options.
func CategoryOptions(categories []configurator.Category) []SelectOption {
	ret := make([]SelectOption, 0, len(categories))
	for _, c := range categories {
		ret = append(ret, SelectOption{Value: c.ID, Label: c.Name})
	}
	return ret
}

// MaterialOptions converts materials to select options.
func MaterialOptions(materials []configurator.Material) []SelectOption {
	ret := make([]SelectOption, 0, len(materials))
	for _, m := range materials {
		ret = append(ret, SelectOption{Value: m.ID, Label: m.Name})
	}
	return ret
}
