package datatable

import (
	"maps"
	"slices"
)

// Selection is the set of selected row keys. It is scoped to the rows visible on
// the current page.
type Selection[T any] struct {
	key      func(T) string
	selected map[string]struct{}
	onChange func(keys []string)
}

func newSelection[T any](key func(T) string, onChange func(keys []string)) *Selection[T] {
	return &Selection[T]{
		key:      key,
		selected: make(map[string]struct{}),
		onChange: onChange,
	}
}

// IsSelected reports whether the row is selected.
func (s *Selection[T]) IsSelected(row T) bool {
	_, ok := s.selected[s.key(row)]
	return ok
}

// Len returns the number of selected rows.
func (s *Selection[T]) Len() int {
	return len(s.selected)
}

// Keys returns the selected keys in sorted order.
func (s *Selection[T]) Keys() []string {
	return slices.Sorted(maps.Keys(s.selected))
}

// Toggle flips the selection of one row.
func (s *Selection[T]) Toggle(row T) {
	k := s.key(row)
	if _, ok := s.selected[k]; ok {
		delete(s.selected, k)
	} else {
		s.selected[k] = struct{}{}
	}
	s.notify()
}

// ToggleAll selects every visible row, or clears them if all were already selected.
// Rows outside visible are never touched.
func (s *Selection[T]) ToggleAll(visible []T) {
	if len(visible) == 0 {
		return
	}
	allSelected := true
	for _, row := range visible {
		if !s.IsSelected(row) {
			allSelected = false
			break
		}
	}
	for _, row := range visible {
		if allSelected {
			delete(s.selected, s.key(row))
		} else {
			s.selected[s.key(row)] = struct{}{}
		}
	}
	s.notify()
}

// AllSelected reports whether every visible row is selected.
func (s *Selection[T]) AllSelected(visible []T) bool {
	if len(visible) == 0 {
		return false
	}
	for _, row := range visible {
		if !s.IsSelected(row) {
			return false
		}
	}
	return true
}

// Retain drops the keys of rows that are no longer visible.
func (s *Selection[T]) Retain(visible []T) {
	if len(s.selected) == 0 {
		return
	}
	keep := make(map[string]struct{}, len(visible))
	for _, row := range visible {
		keep[s.key(row)] = struct{}{}
	}
	changed := false
	for k := range s.selected {
		if _, ok := keep[k]; !ok {
			delete(s.selected, k)
			changed = true
		}
	}
	if changed {
		s.notify()
	}
}

// Clear removes every selected key.
func (s *Selection[T]) Clear() {
	if len(s.selected) == 0 {
		return
	}
	clear(s.selected)
	s.notify()
}

// set replaces the selection with keys and notifies when the contents change.
func (s *Selection[T]) set(keys []string) {
	next := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		next[k] = struct{}{}
	}
	if maps.Equal(next, s.selected) {
		return
	}
	s.selected = next
	s.notify()
}

func (s *Selection[T]) notify() {
	if s.onChange != nil {
		s.onChange(s.Keys())
	}
}
