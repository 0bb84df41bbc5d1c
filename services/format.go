package services

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"printflow/configurator"
)

// FormatQuantity formats a unit count with thousands separators, e.g. "1,500 cái".
// The unit is omitted when empty.
func FormatQuantity(n int, unit string) string {
	s := humanize.Comma(int64(n))
	if unit != "" {
		s += " " + unit
	}
	return s
}

// FormatDimensions renders L × W [× H] cm, or "" when length and width are unset.
func FormatDimensions(length, width, height float64) string {
	if length <= 0 && width <= 0 {
		return ""
	}
	d := configurator.Draft{Length: length, Width: width, Height: height}
	return strings.ReplaceAll(configurator.Dimensions(d), "x", " × ") + " cm"
}

// FormatDate formats a timestamp as dd/mm/yyyy, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatRelative formats a timestamp relative to now, e.g. "3 days ago".
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
