package datatable

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxPageSize caps the page size accepted from query parameters.
const MaxPageSize = 100

// Params holds the table state sent by a client.
type Params struct {
	Page      int
	PageSize  int
	Search    string
	SortBy    string
	SortOrder SortDirection
	Selected  []string
}

// ParseParams extracts table parameters from a query string. Invalid numbers are
// ignored, and sort_by is only accepted for sortable columns.
func ParseParams[T any](q url.Values, columns []Column[T]) Params {
	params := Params{
		Page:      1,
		SortOrder: SortAsc,
	}

	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			params.Page = v
		}
	}

	if ps := q.Get("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= MaxPageSize {
			params.PageSize = v
		}
	}

	params.Search = strings.TrimSpace(q.Get("search"))

	if sb := q.Get("sort_by"); sb != "" {
		if col, ok := findColumn(columns, sb); ok && col.CanSort() {
			params.SortBy = sb
		}
	}

	params.SortOrder = ParseSortDirection(q.Get("sort_order"))

	for _, k := range q["selected"] {
		if k = strings.TrimSpace(k); k != "" {
			params.Selected = append(params.Selected, k)
		}
	}

	return params
}

// Apply sets the table state from params. The page is applied last because the
// other setters move back to the first page.
func (t *Table[T]) Apply(params Params) {
	if params.PageSize > 0 {
		t.SetPageSize(params.PageSize)
	}
	t.SetSearchTerm(params.Search)
	if params.SortBy != "" {
		t.SetSort(params.SortBy, params.SortOrder)
	}
	if params.Page > 0 {
		t.SetPage(params.Page)
	}
	if len(params.Selected) > 0 {
		t.Select(params.Selected)
	}
}

// Query encodes params back into a query string, for pagination and sort links.
func (p Params) Query() url.Values {
	q := url.Values{}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
		q.Set("sort_order", string(p.SortOrder))
	}
	return q
}
