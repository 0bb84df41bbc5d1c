package configurator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCategoryPrefix(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{Category{Name: "Túi"}, "TUI"},
		{Category{Name: "Hộp giấy"}, "HG"},
		{Category{Name: "Đế lót ly"}, "DLL"},
		{Category{Name: "Nhãn dán sản phẩm cao cấp"}, "NDSP"},
		{Category{Name: "Tem", Code: "tm"}, "TM"},
		{Category{Name: "  "}, "DS"},
	}
	for _, tt := range tests {
		if got := CategoryPrefix(tt.category); got != tt.want {
			t.Errorf("CategoryPrefix(%+v) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestDesignCode(t *testing.T) {
	flat := Draft{Length: 10, Width: 5}
	if got := DesignCode("TUI", flat, 7); got != "TUI-10x5-0007" {
		t.Errorf("DesignCode(flat) = %q", got)
	}
	box := Draft{Length: 20, Width: 12.5, Height: 8}
	if got := DesignCode("HG", box, 1234); got != "HG-20x12.5x8-1234" {
		t.Errorf("DesignCode(box) = %q", got)
	}
}

func TestBuildCard(t *testing.T) {
	material := defaultDetails()["5"]
	d := Draft{
		Code: "TUI-10x5-0001", Name: "Túi phân bón", CategoryID: "1", MaterialID: "5",
		Quantity: 150, MinQuantity: 100, Length: 10, Width: 5,
		Finishing:       FinishingFoilStamping,
		Classifications: map[string]string{"sides": "2", "process": "offset"},
	}

	got := BuildCard(d, testCategories(), material)
	want := Card{
		Code:        "TUI-10x5-0001",
		Name:        "Túi phân bón",
		Category:    "Túi",
		Material:    "Màng PE",
		Unit:        "cái",
		Quantity:    150,
		MinQuantity: 100,
		Dimensions:  "10 × 5 cm",
		Finishing:   "Ép nhũ",
		Options: []CardOption{
			{Group: "Số mặt in", Value: "2 mặt"},
			{Group: "Công nghệ in", Value: "Offset"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildCard() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCard_UnknownReferences(t *testing.T) {
	got := BuildCard(Draft{CategoryID: "9", MaterialID: "42"}, testCategories(), Material{})
	if got.Category != "9" || got.Material != "42" {
		t.Errorf("unknown refs = %q/%q, want raw ids", got.Category, got.Material)
	}
	if got.Dimensions != "" || got.Finishing != "" {
		t.Errorf("empty draft rendered %q/%q", got.Dimensions, got.Finishing)
	}
}
