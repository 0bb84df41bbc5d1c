package configurator

import (
	"maps"
)

// Finishing is the post-processing treatment applied to a design.
type Finishing string

const (
	FinishingGlossLamination Finishing = "gloss_lamination"
	FinishingMatteLamination Finishing = "matte_lamination"
	FinishingUVSpot          Finishing = "uv_spot"
	FinishingVarnish         Finishing = "varnish"
	FinishingFoilStamping    Finishing = "foil_stamping"
	FinishingNone            Finishing = "none"
)

// Finishings is the closed set of valid finishing treatments, in display order.
var Finishings = []Finishing{
	FinishingGlossLamination,
	FinishingMatteLamination,
	FinishingUVSpot,
	FinishingVarnish,
	FinishingFoilStamping,
	FinishingNone,
}

// FinishingLabels maps each finishing to its display label.
var FinishingLabels = map[Finishing]string{
	FinishingGlossLamination: "Cán màng bóng",
	FinishingMatteLamination: "Cán màng mờ",
	FinishingUVSpot:          "UV định hình",
	FinishingVarnish:         "Phủ vecni",
	FinishingFoilStamping:    "Ép nhũ",
	FinishingNone:            "Không gia công",
}

// Valid reports whether f is one of Finishings.
func (f Finishing) Valid() bool {
	for _, v := range Finishings {
		if f == v {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw value for unknown finishings.
func (f Finishing) Label() string {
	if l, ok := FinishingLabels[f]; ok {
		return l
	}
	return string(f)
}

// Draft is a design being created or edited.
type Draft struct {
	ID           string  `json:"id"` // empty for a new design
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	CategoryID   string  `json:"category"`
	MaterialID   string  `json:"material"`
	Quantity     int     `json:"quantity"`
	MinQuantity  int     `json:"min_quantity"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Requirements string  `json:"requirements"`
	Notes        string  `json:"notes"`

	Finishing       Finishing         `json:"finishing"`
	Classifications map[string]string `json:"classifications"` // classification key -> option id

	// IsFromExisting marks a draft copied from a completed design; only quantity and
	// the advanced options may change.
	IsFromExisting bool   `json:"is_from_existing"`
	SourceID       string `json:"source_id"`
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	d.Classifications = maps.Clone(d.Classifications)
	if d.Classifications == nil {
		d.Classifications = map[string]string{}
	}
	return d
}

// IsNew reports whether the draft has not been saved yet.
func (d Draft) IsNew() bool {
	return d.ID == ""
}

// Reorder returns a new draft copied from a completed design. It keeps every
// specification field and the advanced options but drops the identity, and is
// read-only except for quantity and the advanced options.
func Reorder(source Draft) Draft {
	d := source.Clone()
	d.ID = ""
	d.Code = ""
	d.SourceID = source.ID
	d.IsFromExisting = true
	return d
}
