package datatable

// Meta is the non-row state of a rendered page.
type Meta struct {
	Total            int // rows matching the search
	SourceTotal      int // rows before the search
	Page             int
	PageSize         int
	TotalPages       int
	PageNumbers      []int
	HasPrev          bool
	HasNext          bool
	PageSizes        []int
	ShowSizeSelector bool
	Search           string
	SortKey          string
	SortDir          SortDirection
	Empty            bool
	EmptyState       EmptyState
	Selectable       bool
	AllSelected      bool
	SelectedCount    int
	SelectedKeys     []string
}

// View is one rendered page of a table.
type View[T any] struct {
	Meta
	Rows    []T
	Columns []Column[T]

	table *Table[T]
}

// View computes the current page.
func (t *Table[T]) View() View[T] {
	filtered := t.Filtered()
	visible := Paginate(filtered, t.page, t.pageSize)
	totalPages := PageCount(len(filtered), t.pageSize)

	pageNumbers := make([]int, 0, totalPages)
	for p := 1; p <= totalPages; p++ {
		pageNumbers = append(pageNumbers, p)
	}

	meta := Meta{
		Total:            len(filtered),
		SourceTotal:      len(t.rows),
		Page:             t.page,
		PageSize:         t.pageSize,
		TotalPages:       totalPages,
		PageNumbers:      pageNumbers,
		HasPrev:          t.page > 1,
		HasNext:          t.page < totalPages,
		PageSizes:        t.opts.pageSizes,
		ShowSizeSelector: t.opts.showSizeSelector,
		Search:           t.search,
		SortKey:          t.sortKey,
		SortDir:          t.sortDir,
		Empty:            len(visible) == 0,
		EmptyState:       t.opts.emptyState,
	}
	if t.selection != nil {
		meta.Selectable = true
		meta.AllSelected = t.selection.AllSelected(visible)
		meta.SelectedCount = t.selection.Len()
		meta.SelectedKeys = t.selection.Keys()
	}

	return View[T]{
		Meta:    meta,
		Rows:    visible,
		Columns: t.columns,
		table:   t,
	}
}

// Header describes one column heading of a Grid.
type Header struct {
	Key      string
	Label    string
	Width    string
	Align    Align
	Sortable bool
	Active   bool
	Dir      SortDirection
}

// Cell is one rendered cell of a Grid.
type Cell struct {
	Key   string
	Text  string
	Raw   string // string form of the unrendered value
	Align Align
}

// GridAction is an action offered on one Grid row.
type GridAction struct {
	Name    string
	Label   string
	Icon    string
	Variant Variant
}

// GridRow is one rendered row of a Grid.
type GridRow struct {
	Key      string
	Cells    []Cell
	Selected bool
	Actions  []GridAction
}

// Grid is a View flattened to display strings, for templates that cannot be generic.
type Grid struct {
	Meta
	Headers []Header
	Rows    []GridRow
}

// Grid renders every visible cell and action of the view.
func (v View[T]) Grid() Grid {
	headers := make([]Header, 0, len(v.Columns))
	for _, col := range v.Columns {
		headers = append(headers, Header{
			Key:      col.Key,
			Label:    col.Label,
			Width:    col.Width,
			Align:    col.Align,
			Sortable: col.CanSort(),
			Active:   col.Key == v.SortKey,
			Dir:      v.SortDir,
		})
	}

	offset := (v.Page - 1) * v.PageSize
	rows := make([]GridRow, 0, len(v.Rows))
	for i, row := range v.Rows {
		gr := GridRow{
			Key:   v.table.rowKey(row, offset+i),
			Cells: make([]Cell, 0, len(v.Columns)),
		}
		for _, col := range v.Columns {
			cell := Cell{
				Key:   col.Key,
				Text:  RenderCell(col, row),
				Align: col.Align,
			}
			if col.Accessor != nil {
				cell.Raw = ValueString(col.Accessor(row))
			}
			gr.Cells = append(gr.Cells, cell)
		}
		if v.table.selection != nil {
			gr.Selected = v.table.selection.IsSelected(row)
		}
		for _, a := range v.table.Actions(row) {
			gr.Actions = append(gr.Actions, GridAction{
				Name:    a.Name,
				Label:   a.Label,
				Icon:    a.Icon,
				Variant: a.Variant,
			})
		}
		rows = append(rows, gr)
	}

	return Grid{
		Meta:    v.Meta,
		Headers: headers,
		Rows:    rows,
	}
}
