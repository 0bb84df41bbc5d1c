package datatable

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
)

// ValueString returns the display string of a raw value. nil renders as "".
func ValueString(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// Filter returns the rows where any column value (or extra search field) contains
// term, ignoring case. An empty term returns rows unchanged.
func Filter[T any](rows []T, columns []Column[T], extra func(T) []string, term string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return rows
	}

	fold := cases.Fold()
	needle := fold.String(term)

	var ret []T
	for _, row := range rows {
		if rowMatches(row, columns, extra, needle, fold) {
			ret = append(ret, row)
		}
	}
	return ret
}

func rowMatches[T any](row T, columns []Column[T], extra func(T) []string, needle string, fold cases.Caser) bool {
	for _, col := range columns {
		if col.Accessor == nil {
			continue
		}
		if strings.Contains(fold.String(ValueString(col.Accessor(row))), needle) {
			return true
		}
	}
	if extra != nil {
		for _, s := range extra(row) {
			if strings.Contains(fold.String(s), needle) {
				return true
			}
		}
	}
	return false
}
