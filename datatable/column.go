// Package datatable turns an in-memory slice of rows into a searchable, sortable,
// paginated and selectable view. It never mutates the rows it is given.
package datatable

import (
	"cmp"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Align is a display hint for a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Column describes how one field of T is displayed, searched and sorted.
type Column[T any] struct {
	Key      string // unique column key, used as the sort key
	Label    string
	Width    string
	Align    Align
	Sortable bool

	// Accessor returns the raw value of the column for a row. A nil accessor
	// renders as an empty cell.
	Accessor func(row T) any

	// Compare orders two rows by this column. Required when Sortable is true;
	// columns marked sortable without a comparator are treated as not sortable.
	Compare func(a, b T) int

	// Render maps the raw value to its display text. When nil, the string form
	// of the value is used.
	Render func(value any, row T) string
}

// CanSort reports whether the column has everything needed to be sorted.
func (c Column[T]) CanSort() bool {
	return c.Sortable && c.Compare != nil
}

// Field creates a sortable column over an ordered value.
func Field[T any, V cmp.Ordered](key, label string, get func(T) V) Column[T] {
	return Column[T]{
		Key:      key,
		Label:    label,
		Sortable: true,
		Accessor: func(row T) any {
			return get(row)
		},
		Compare: func(a, b T) int {
			return cmp.Compare(get(a), get(b))
		},
	}
}

// TimeField creates a sortable column over a time value.
func TimeField[T any](key, label string, get func(T) time.Time) Column[T] {
	return Column[T]{
		Key:      key,
		Label:    label,
		Sortable: true,
		Accessor: func(row T) any {
			return get(row)
		},
		Compare: func(a, b T) int {
			return get(a).Compare(get(b))
		},
	}
}

// TextField creates a column that is displayed and searched but not sortable.
func TextField[T any](key, label string, get func(T) string) Column[T] {
	return Column[T]{
		Key:   key,
		Label: label,
		Accessor: func(row T) any {
			return get(row)
		},
	}
}

// CollatedField creates a sortable string column ordered with the collation rules
// of the given language, for callers that need locale-correct ordering.
// The underlying collator is not safe for concurrent use, so build the column
// per table instead of sharing it.
func CollatedField[T any](key, label string, tag language.Tag, get func(T) string) Column[T] {
	col := collate.New(tag, collate.IgnoreCase)
	return Column[T]{
		Key:      key,
		Label:    label,
		Sortable: true,
		Accessor: func(row T) any {
			return get(row)
		},
		Compare: func(a, b T) int {
			return col.CompareString(get(a), get(b))
		},
	}
}

// MapField creates a column over map rows, resolving key as a dotted path into
// nested maps. Missing path segments resolve to nil.
func MapField(key, label string) Column[map[string]any] {
	return Column[map[string]any]{
		Key:   key,
		Label: label,
		Accessor: func(row map[string]any) any {
			return Lookup(row, key)
		},
	}
}

// Lookup resolves a dotted path ("a.b.c") into nested maps.
func Lookup(m map[string]any, path string) any {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = mm[part]
		if !ok {
			return nil
		}
	}
	return cur
}

// WithRender returns a copy of the column using the given renderer.
func (c Column[T]) WithRender(render func(value any, row T) string) Column[T] {
	c.Render = render
	return c
}

// WithAlign returns a copy of the column with the given alignment and width hints.
func (c Column[T]) WithAlign(align Align, width string) Column[T] {
	c.Align = align
	c.Width = width
	return c
}

func findColumn[T any](columns []Column[T], key string) (Column[T], bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}
