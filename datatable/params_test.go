package datatable

import (
	"net/url"
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{
			name:  "defaults",
			query: "",
			want:  Params{Page: 1, SortOrder: SortAsc},
		},
		{
			name:  "all values",
			query: "page=3&page_size=20&search=+t%C3%BAi+&sort_by=amount&sort_order=desc&selected=a&selected=b",
			want: Params{
				Page: 3, PageSize: 20, Search: "túi", SortBy: "amount", SortOrder: SortDesc,
				Selected: []string{"a", "b"},
			},
		},
		{
			name:  "invalid numbers ignored",
			query: "page=-1&page_size=1000",
			want:  Params{Page: 1, SortOrder: SortAsc},
		},
		{
			name:  "non-sortable column ignored",
			query: "sort_by=status&sort_order=desc",
			want:  Params{Page: 1, SortOrder: SortDesc},
		},
		{
			name:  "unknown sort order is ascending",
			query: "sort_by=customer&sort_order=sideways",
			want:  Params{Page: 1, SortBy: "customer", SortOrder: SortAsc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad query: %v", err)
			}
			got := ParseParams(q, testColumns())
			if got.Page != tt.want.Page || got.PageSize != tt.want.PageSize ||
				got.Search != tt.want.Search || got.SortBy != tt.want.SortBy ||
				got.SortOrder != tt.want.SortOrder || len(got.Selected) != len(tt.want.Selected) {
				t.Errorf("ParseParams(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestTable_Apply(t *testing.T) {
	tbl := New(makeOrders(30), testColumns(),
		WithRowKey(func(o testOrder) string { return o.ID }),
		WithSelection[testOrder](nil),
	)

	tbl.Apply(Params{
		Page:      2,
		PageSize:  5,
		Search:    "ord",
		SortBy:    "amount",
		SortOrder: SortDesc,
		Selected:  []string{"ord-00", "ord-29"},
	})

	if tbl.Page() != 2 {
		t.Errorf("page = %d, want 2", tbl.Page())
	}
	if tbl.PageSize() != 5 {
		t.Errorf("page size = %d, want 5", tbl.PageSize())
	}
	key, dir := tbl.Sort()
	if key != "amount" || dir != SortDesc {
		t.Errorf("sort = %s %s, want amount desc", key, dir)
	}

	visible := map[string]bool{}
	for _, r := range tbl.Visible() {
		visible[r.ID] = true
	}
	for _, k := range tbl.Selection().Keys() {
		if !visible[k] {
			t.Errorf("selected key %q is not on the visible page", k)
		}
	}
}

func TestParams_Query(t *testing.T) {
	p := Params{Page: 2, PageSize: 20, Search: "túi", SortBy: "amount", SortOrder: SortDesc}
	got := p.Query().Encode()
	want := "page=2&page_size=20&search=t%C3%BAi&sort_by=amount&sort_order=desc"
	if got != want {
		t.Errorf("Query() = %q, want %q", got, want)
	}
}
