package datatable

import (
	"slices"
	"strings"
)

// SortDirection is the order of the active sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection parses "asc"/"desc", defaulting to ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Sort returns a sorted copy of rows ordered by the column. Equal keys keep their
// input order unless tieBreak orders them. Columns that cannot sort return an
// unsorted copy.
func Sort[T any](rows []T, column Column[T], dir SortDirection, tieBreak func(a, b T) int) []T {
	ret := slices.Clone(rows)
	if !column.CanSort() {
		return ret
	}
	slices.SortStableFunc(ret, func(a, b T) int {
		c := column.Compare(a, b)
		if dir == SortDesc {
			c = -c
		}
		if c == 0 && tieBreak != nil {
			c = tieBreak(a, b)
		}
		return c
	})
	return ret
}
