package datatable

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type testOrder struct {
	ID       string
	Customer string
	Amount   int
	Due      time.Time
	Status   string
}

func testColumns() []Column[testOrder] {
	return []Column[testOrder]{
		TextField("id", "ID", func(o testOrder) string { return o.ID }),
		Field("customer", "Customer", func(o testOrder) string { return o.Customer }),
		Field("amount", "Amount", func(o testOrder) int { return o.Amount }),
		TimeField("due", "Due", func(o testOrder) time.Time { return o.Due }),
		TextField("status", "Status", func(o testOrder) string { return o.Status }),
	}
}

func makeOrders(n int) []testOrder {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	customers := []string{"Phú Mỹ", "Bình Điền", "Hai Con Rồng", "Lâm Thao"}
	var ret []testOrder
	for i := 0; i < n; i++ {
		ret = append(ret, testOrder{
			ID:       fmt.Sprintf("ord-%02d", i),
			Customer: customers[i%len(customers)],
			Amount:   (i * 37) % 101,
			Due:      base.AddDate(0, 0, i*9),
			Status:   []string{"draft", "proofing", "completed"}[i%3],
		})
	}
	return ret
}

func orderIDs(rows []testOrder) []string {
	var ret []string
	for _, r := range rows {
		ret = append(ret, r.ID)
	}
	return ret
}

func TestFilter_CaseInsensitive(t *testing.T) {
	rows := makeOrders(8)

	got := Filter(rows, testColumns(), nil, "BÌNH")
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "Bình Điền", r.Customer)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	rows := makeOrders(30)
	for _, term := range []string{"", "phú", "2024", "ord-1", "draft", "7", "nothing-matches"} {
		t.Run(term, func(t *testing.T) {
			once := Filter(rows, testColumns(), nil, term)
			twice := Filter(once, testColumns(), nil, term)
			if diff := cmp.Diff(orderIDs(once), orderIDs(twice)); diff != "" {
				t.Errorf("filter not idempotent for %q (-once +twice):\n%s", term, diff)
			}
		})
	}
}

func TestFilter_MatchesDateSubstring(t *testing.T) {
	rows := []testOrder{
		{ID: "a", Due: time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Due: time.Date(2023, time.May, 3, 0, 0, 0, 0, time.UTC)},
	}
	got := Filter(rows, testColumns(), nil, "2024")
	require.Equal(t, []string{"a"}, orderIDs(got))
}

func TestFilter_ExtraSearchFields(t *testing.T) {
	rows := []testOrder{{ID: "a"}, {ID: "b"}}
	extra := func(o testOrder) []string {
		if o.ID == "b" {
			return []string{"Hidden Note"}
		}
		return nil
	}
	got := Filter(rows, testColumns(), extra, "hidden")
	require.Equal(t, []string{"b"}, orderIDs(got))
}

func TestSort_Monotonic(t *testing.T) {
	rows := makeOrders(40)
	amount, _ := findColumn(testColumns(), "amount")

	asc := Sort(rows, amount, SortAsc, nil)
	for i := 0; i+1 < len(asc); i++ {
		assert.LessOrEqual(t, asc[i].Amount, asc[i+1].Amount)
	}

	desc := Sort(rows, amount, SortDesc, nil)
	for i := 0; i+1 < len(desc); i++ {
		assert.GreaterOrEqual(t, desc[i].Amount, desc[i+1].Amount)
	}

	// source rows untouched
	require.Equal(t, makeOrders(40), rows)
}

func TestSort_TieBreak(t *testing.T) {
	rows := []testOrder{
		{ID: "c", Amount: 1},
		{ID: "a", Amount: 1},
		{ID: "b", Amount: 0},
	}
	amount, _ := findColumn(testColumns(), "amount")

	got := Sort(rows, amount, SortAsc, func(a, b testOrder) int {
		return strings.Compare(a.ID, b.ID)
	})
	require.Equal(t, []string{"b", "a", "c"}, orderIDs(got))
}

func TestSort_Collated(t *testing.T) {
	col := CollatedField("customer", "Customer", language.English, func(o testOrder) string { return o.Customer })
	rows := []testOrder{{ID: "1", Customer: "banana"}, {ID: "2", Customer: "Apple"}}

	got := Sort(rows, col, SortAsc, nil)
	require.Equal(t, []string{"2", "1"}, orderIDs(got))
}

func TestTable_ToggleSort(t *testing.T) {
	tbl := New(makeOrders(5), testColumns())

	require.True(t, tbl.ToggleSort("amount"))
	key, dir := tbl.Sort()
	assert.Equal(t, "amount", key)
	assert.Equal(t, SortAsc, dir)

	tbl.ToggleSort("amount")
	_, dir = tbl.Sort()
	assert.Equal(t, SortDesc, dir)

	tbl.ToggleSort("amount")
	_, dir = tbl.Sort()
	assert.Equal(t, SortAsc, dir, "toggling twice returns to the original direction")

	tbl.ToggleSort("amount")
	tbl.ToggleSort("customer")
	key, dir = tbl.Sort()
	assert.Equal(t, "customer", key)
	assert.Equal(t, SortAsc, dir, "a new field resets to ascending")

	assert.False(t, tbl.ToggleSort("status"), "text fields are not sortable")
	assert.False(t, tbl.SetSort("missing", SortDesc))
	key, _ = tbl.Sort()
	assert.Equal(t, "customer", key)
}

func TestPaginate_Coverage(t *testing.T) {
	tbl := New(makeOrders(23), testColumns())
	tbl.SetSearchTerm("o")
	tbl.SetSort("amount", SortDesc)
	filtered := tbl.Filtered()

	for size := 1; size <= len(filtered)+2; size++ {
		var all []testOrder
		pages := PageCount(len(filtered), size)
		for p := 1; p <= pages; p++ {
			all = append(all, Paginate(filtered, p, size)...)
		}
		if diff := cmp.Diff(orderIDs(filtered), orderIDs(all)); diff != "" {
			t.Errorf("size %d: pages do not cover filtered rows (-want +got):\n%s", size, diff)
		}
	}
}

func TestPaginate_Bounds(t *testing.T) {
	rows := makeOrders(5)

	tests := []struct {
		name string
		page int
		size int
		want int
	}{
		{"first page", 1, 2, 2},
		{"last partial page", 3, 2, 1},
		{"past the end", 4, 2, 0},
		{"page zero", 0, 2, 0},
		{"zero size", 1, 0, 0},
		{"size larger than rows", 1, 50, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Paginate(rows, tt.page, tt.size), tt.want)
		})
	}

	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 3, PageCount(25, 10))
}

func TestTable_PagePastEndIsEmpty(t *testing.T) {
	tbl := New(makeOrders(5), testColumns(), WithPagination[testOrder](2, false))
	tbl.SetPage(9)

	view := tbl.View()
	assert.Empty(t, view.Rows)
	assert.True(t, view.Empty)
	assert.Equal(t, 9, view.Page)
	assert.Equal(t, 3, view.TotalPages)
}

func TestPaginate_HugePage(t *testing.T) {
	rows := makeOrders(5)
	for _, page := range []int{math.MaxInt/10 + 2, math.MaxInt/2 + 1, math.MaxInt} {
		assert.NotPanics(t, func() {
			assert.Empty(t, Paginate(rows, page, 10))
		}, "page %d", page)
	}
	assert.Empty(t, Paginate(rows, 2, math.MaxInt))
	assert.Len(t, Paginate(rows, 1, math.MaxInt), 5)
	assert.Equal(t, 1, PageCount(5, math.MaxInt))
}

func TestTable_HugePageFromQuery(t *testing.T) {
	tbl := New(makeOrders(30), testColumns(), WithPagination[testOrder](10, true))
	tbl.Apply(ParseParams(url.Values{
		"page":      {"922337203685477582"},
		"page_size": {"10"},
	}, testColumns()))

	var view View[testOrder]
	require.NotPanics(t, func() { view = tbl.View() })
	assert.Empty(t, view.Rows)
	assert.True(t, view.Empty)
	assert.Equal(t, 3, view.TotalPages)
}

func TestTable_SelectAllScope(t *testing.T) {
	var notified [][]string
	tbl := New(makeOrders(25), testColumns(),
		WithPagination[testOrder](10, true),
		WithRowKey(func(o testOrder) string { return o.ID }),
		WithSelection[testOrder](func(keys []string) {
			notified = append(notified, keys)
		}),
	)

	tbl.ToggleSelectAll()
	require.Equal(t, 10, tbl.Selection().Len())
	require.Equal(t, orderIDs(tbl.Visible()), tbl.Selection().Keys())
	require.Len(t, notified, 1)

	view := tbl.View()
	assert.True(t, view.AllSelected)
	assert.Equal(t, 10, view.SelectedCount)

	tbl.ToggleSelectAll()
	assert.Equal(t, 0, tbl.Selection().Len(), "second toggle clears the page")

	tbl.ToggleSelectAll()
	tbl.SetPage(2)
	assert.Equal(t, 0, tbl.Selection().Len(), "navigating away drops rows no longer visible")
}

func TestTable_ToggleRowSelection(t *testing.T) {
	rows := makeOrders(4)
	tbl := New(rows, testColumns(),
		WithRowKey(func(o testOrder) string { return o.ID }),
		WithSelection[testOrder](nil),
	)

	tbl.ToggleRowSelection(rows[1])
	tbl.ToggleRowSelection(rows[3])
	assert.Equal(t, []string{"ord-01", "ord-03"}, tbl.Selection().Keys())
	assert.Equal(t, []string{"ord-01", "ord-03"}, orderIDs(tbl.SelectedRows()))

	tbl.ToggleRowSelection(rows[1])
	assert.Equal(t, []string{"ord-03"}, tbl.Selection().Keys())

	tbl.SetRows(makeOrders(2))
	assert.Equal(t, 0, tbl.Selection().Len(), "new rows clear the selection")
}

func TestTable_SelectNotifies(t *testing.T) {
	var notified [][]string
	tbl := New(makeOrders(25), testColumns(),
		WithPagination[testOrder](10, true),
		WithRowKey(func(o testOrder) string { return o.ID }),
		WithSelection[testOrder](func(keys []string) {
			notified = append(notified, keys)
		}),
	)

	tbl.Select([]string{"ord-02", "ord-15", "ord-01"})
	assert.Equal(t, []string{"ord-01", "ord-02"}, tbl.Selection().Keys(), "off-page keys are dropped")
	require.Len(t, notified, 1)
	assert.Equal(t, []string{"ord-01", "ord-02"}, notified[0])

	tbl.Select([]string{"ord-01", "ord-02"})
	assert.Len(t, notified, 1, "same selection does not notify again")

	tbl.Select(nil)
	require.Len(t, notified, 2)
	assert.Empty(t, notified[1])
}

func TestTable_ToggleRowSelectionOffPage(t *testing.T) {
	rows := makeOrders(25)
	var notified int
	tbl := New(rows, testColumns(),
		WithPagination[testOrder](10, true),
		WithRowKey(func(o testOrder) string { return o.ID }),
		WithSelection[testOrder](func([]string) { notified++ }),
	)

	tbl.ToggleRowSelection(rows[15])
	assert.Equal(t, 0, tbl.Selection().Len())
	assert.Zero(t, notified)
	assert.Empty(t, tbl.SelectedRows())

	tbl.ToggleRowSelection(rows[3])
	assert.Equal(t, []string{"ord-03"}, tbl.Selection().Keys())
	assert.Equal(t, 1, notified)
}

func TestTable_SelectionDisabledWithoutKey(t *testing.T) {
	tbl := New(makeOrders(3), testColumns(), WithSelection[testOrder](nil))
	assert.Nil(t, tbl.Selection())
	tbl.ToggleSelectAll()
	assert.False(t, tbl.View().Selectable)
}

func TestTable_EmptyState(t *testing.T) {
	empty := EmptyState{Label: "No designs", Description: "Create the first design", Icon: "palette"}

	t.Run("no rows", func(t *testing.T) {
		view := New[testOrder](nil, testColumns(), WithEmptyState[testOrder](empty)).View()
		assert.True(t, view.Empty)
		assert.Equal(t, empty, view.EmptyState)
		assert.Equal(t, 0, view.SourceTotal)
	})

	t.Run("everything filtered out", func(t *testing.T) {
		tbl := New(makeOrders(6), testColumns(), WithEmptyState[testOrder](empty))
		tbl.SetSearchTerm("zzz")
		view := tbl.View()
		assert.True(t, view.Empty)
		assert.Equal(t, empty, view.EmptyState)
		assert.Equal(t, 6, view.SourceTotal)
		assert.Equal(t, 0, view.Total)
	})

	t.Run("rows visible", func(t *testing.T) {
		view := New(makeOrders(1), testColumns()).View()
		assert.False(t, view.Empty)
	})
}

func TestRenderCell(t *testing.T) {
	row := testOrder{ID: "x", Amount: 1500}

	amount := Field("amount", "Amount", func(o testOrder) int { return o.Amount }).
		WithRender(func(v any, _ testOrder) string { return fmt.Sprintf("%v kg", v) })
	assert.Equal(t, "1500 kg", RenderCell(amount, row))

	raw := Field("amount", "Amount", func(o testOrder) int { return o.Amount })
	assert.Equal(t, "1500", RenderCell(raw, row))

	assert.Equal(t, "", RenderCell(Column[testOrder]{Key: "none"}, row))
}

func TestMapField_DottedPath(t *testing.T) {
	row := map[string]any{
		"customer": map[string]any{
			"name": "Phú Mỹ",
			"address": map[string]any{
				"city": "Hà Nội",
			},
		},
		"qty": 150,
	}

	assert.Equal(t, "Hà Nội", RenderCell(MapField("customer.address.city", "City"), row))
	assert.Equal(t, "150", RenderCell(MapField("qty", "Qty"), row))
	assert.Equal(t, "", RenderCell(MapField("customer.phone", "Phone"), row))
	assert.Equal(t, "", RenderCell(MapField("qty.value", "Bad path"), row))
	assert.Nil(t, Lookup(nil, "a.b"))
}

func TestDispatch(t *testing.T) {
	var ran []string
	edit := Action[testOrder]{
		Name:    "edit",
		Label:   "Edit",
		Handler: func(o testOrder) { ran = append(ran, "edit:"+o.ID) },
		Show:    func(o testOrder) bool { return o.Status != "completed" },
	}
	remove := Action[testOrder]{
		Name:    "delete",
		Label:   "Delete",
		Variant: VariantDestructive,
		Handler: func(o testOrder) { ran = append(ran, "delete:"+o.ID) },
	}

	rows := []testOrder{{ID: "a", Status: "draft"}, {ID: "b", Status: "completed"}}
	tbl := New(rows, testColumns(),
		WithRowKey(func(o testOrder) string { return o.ID }),
		WithActions(edit, remove),
	)

	assert.True(t, tbl.Dispatch("edit", "a"))
	assert.False(t, tbl.Dispatch("edit", "b"), "hidden actions are not dispatched")
	assert.True(t, tbl.Dispatch("delete", "b"))
	assert.False(t, tbl.Dispatch("archive", "a"))
	assert.False(t, tbl.Dispatch("edit", "missing"))
	assert.Equal(t, []string{"edit:a", "delete:b"}, ran)

	assert.Len(t, tbl.Actions(rows[0]), 2)
	assert.Len(t, tbl.Actions(rows[1]), 1)
}

func TestView_Grid(t *testing.T) {
	rows := []testOrder{
		{ID: "a", Customer: "Lâm Thao", Amount: 3, Status: "draft"},
		{ID: "b", Customer: "Bình Điền", Amount: 1, Status: "completed"},
	}
	tbl := New(rows, testColumns(),
		WithRowKey(func(o testOrder) string { return o.ID }),
		WithSelection[testOrder](nil),
		WithActions(Action[testOrder]{
			Name: "edit", Label: "Edit",
			Show: func(o testOrder) bool { return o.Status == "draft" },
		}),
	)
	tbl.SetSort("amount", SortAsc)
	tbl.ToggleRowSelection(rows[0])

	grid := tbl.View().Grid()
	require.Len(t, grid.Headers, 5)
	assert.True(t, grid.Headers[2].Active)
	assert.True(t, grid.Headers[2].Sortable)
	assert.False(t, grid.Headers[0].Sortable)

	require.Len(t, grid.Rows, 2)
	assert.Equal(t, "b", grid.Rows[0].Key)
	assert.Equal(t, "Bình Điền", grid.Rows[0].Cells[1].Text)
	assert.False(t, grid.Rows[0].Selected)
	assert.Empty(t, grid.Rows[0].Actions)
	assert.True(t, grid.Rows[1].Selected)
	assert.Equal(t, []GridAction{{Name: "edit", Label: "Edit"}}, grid.Rows[1].Actions)
}
