package datatable

import (
	"slices"
	"strconv"
)

// Table holds the search, sort, pagination and selection state for a set of rows.
// It is not safe for concurrent use.
type Table[T any] struct {
	rows      []T
	columns   []Column[T]
	opts      options[T]
	search    string
	sortKey   string
	sortDir   SortDirection
	page      int
	pageSize  int
	selection *Selection[T]
}

// New creates a table over rows. The rows slice is never modified.
func New[T any](rows []T, columns []Column[T], opts ...Option[T]) *Table[T] {
	o := options[T]{
		pageSize:   DefaultPageSize,
		pageSizes:  DefaultPageSizes,
		emptyState: DefaultEmptyState,
	}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table[T]{
		rows:     rows,
		columns:  columns,
		opts:     o,
		sortDir:  SortAsc,
		page:     1,
		pageSize: o.pageSize,
	}
	if o.selectable && o.rowKey != nil {
		t.selection = newSelection(o.rowKey, o.onSelection)
	}
	return t
}

// Columns returns the column descriptors.
func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

// SetRows replaces the source rows. The selection is cleared because it refers to
// rows of the previous collection.
func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
	if t.selection != nil {
		t.selection.Clear()
	}
}

// SearchTerm returns the active search term.
func (t *Table[T]) SearchTerm() string {
	return t.search
}

// SetSearchTerm filters rows to those where any column contains term, ignoring
// case. It moves back to the first page.
func (t *Table[T]) SetSearchTerm(term string) {
	if term == t.search {
		return
	}
	t.search = term
	t.page = 1
	t.retainVisible()
}

// Sort returns the active sort key and direction. The key is empty when unsorted.
func (t *Table[T]) Sort() (string, SortDirection) {
	return t.sortKey, t.sortDir
}

// SetSort sets the active sort column and direction. Unknown or non-sortable keys
// are ignored and false is returned.
func (t *Table[T]) SetSort(key string, dir SortDirection) bool {
	col, ok := findColumn(t.columns, key)
	if !ok || !col.CanSort() {
		return false
	}
	t.sortKey = key
	t.sortDir = dir
	t.retainVisible()
	return true
}

// ToggleSort flips the direction when key is already the active sort, otherwise
// sorts by key ascending.
func (t *Table[T]) ToggleSort(key string) bool {
	if key == t.sortKey {
		return t.SetSort(key, t.sortDir.Flip())
	}
	return t.SetSort(key, SortAsc)
}

// Page returns the current 1-indexed page.
func (t *Table[T]) Page() int {
	return t.page
}

// SetPage moves to page n. Pages past the end show no rows.
func (t *Table[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	t.page = n
	t.retainVisible()
}

// PageSize returns the number of rows per page.
func (t *Table[T]) PageSize() int {
	return t.pageSize
}

// SetPageSize changes the rows per page and moves back to the first page.
func (t *Table[T]) SetPageSize(n int) {
	if n < 1 {
		return
	}
	t.pageSize = n
	t.page = 1
	t.retainVisible()
}

// Selection returns the selection set, or nil when selection is disabled.
func (t *Table[T]) Selection() *Selection[T] {
	return t.selection
}

// Select replaces the selection with keys, keeping only keys of visible rows.
// Used to restore a selection sent back by a client.
func (t *Table[T]) Select(keys []string) {
	if t.selection == nil {
		return
	}
	visible := t.visibleKeys()
	keep := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := visible[k]; ok {
			keep = append(keep, k)
		}
	}
	t.selection.set(keep)
}

// ToggleRowSelection flips the selection of one row. Rows that are not on the
// current page are ignored.
func (t *Table[T]) ToggleRowSelection(row T) {
	if t.selection == nil {
		return
	}
	if _, ok := t.visibleKeys()[t.opts.rowKey(row)]; !ok {
		return
	}
	t.selection.Toggle(row)
}

// ToggleSelectAll selects or clears the rows of the current page only.
func (t *Table[T]) ToggleSelectAll() {
	if t.selection == nil {
		return
	}
	t.selection.ToggleAll(t.Visible())
}

// SelectedRows returns the selected rows in display order.
func (t *Table[T]) SelectedRows() []T {
	if t.selection == nil {
		return nil
	}
	var ret []T
	for _, row := range t.Visible() {
		if t.selection.IsSelected(row) {
			ret = append(ret, row)
		}
	}
	return ret
}

// Filtered returns the searched and sorted rows, before pagination.
func (t *Table[T]) Filtered() []T {
	rows := Filter(t.rows, t.columns, t.opts.searchExtra, t.search)
	if t.sortKey == "" {
		return slices.Clone(rows)
	}
	col, _ := findColumn(t.columns, t.sortKey)
	return Sort(rows, col, t.sortDir, t.opts.tieBreak)
}

// Visible returns the rows of the current page.
func (t *Table[T]) Visible() []T {
	return Paginate(t.Filtered(), t.page, t.pageSize)
}

// Actions returns the actions visible for the row.
func (t *Table[T]) Actions(row T) []Action[T] {
	var ret []Action[T]
	for _, a := range t.opts.actions {
		if a.Visible(row) {
			ret = append(ret, a)
		}
	}
	return ret
}

// Find returns the source row with the given key.
func (t *Table[T]) Find(key string) (T, bool) {
	if t.opts.rowKey != nil {
		for _, row := range t.rows {
			if t.opts.rowKey(row) == key {
				return row, true
			}
		}
	}
	var zero T
	return zero, false
}

// Dispatch runs the named action on the row with the given key. It returns false
// when the action or row is unknown, or the action is hidden for the row.
func (t *Table[T]) Dispatch(actionName, key string) bool {
	action, ok := findAction(t.opts.actions, actionName)
	if !ok {
		return false
	}
	row, ok := t.Find(key)
	if !ok {
		return false
	}
	return Dispatch(action, row)
}

// rowKey returns the key of the row, falling back to its position on the page.
func (t *Table[T]) rowKey(row T, index int) string {
	if t.opts.rowKey != nil {
		return t.opts.rowKey(row)
	}
	return strconv.Itoa(index)
}

func (t *Table[T]) visibleKeys() map[string]struct{} {
	visible := t.Visible()
	keys := make(map[string]struct{}, len(visible))
	for _, row := range visible {
		keys[t.opts.rowKey(row)] = struct{}{}
	}
	return keys
}

func (t *Table[T]) retainVisible() {
	if t.selection == nil {
		return
	}
	t.selection.Retain(t.Visible())
}

// RenderCell returns the display text of a column for a row: the column renderer
// output when set, otherwise the string form of the raw value.
func RenderCell[T any](col Column[T], row T) string {
	if col.Accessor == nil {
		if col.Render != nil {
			return col.Render(nil, row)
		}
		return ""
	}
	value := col.Accessor(row)
	if col.Render != nil {
		return col.Render(value, row)
	}
	return ValueString(value)
}
