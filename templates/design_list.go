package templates

import (
	"context"
	"io"
	"maps"
	"net/url"
	"slices"
	"strconv"

	"github.com/a-h/templ"

	"printflow/datatable"
)

// DesignListData is the design list page: the rendered grid plus the request
// parameters used to build sort, page and selection links.
type DesignListData struct {
	BaseURL string
	Grid    datatable.Grid
	Params  datatable.Params
}

func (d DesignListData) url(p datatable.Params, selected []string) string {
	q := p.Query()
	for _, k := range selected {
		q.Add("selected", k)
	}
	return withQuery(d.BaseURL, q)
}

func (d DesignListData) pageURL(page int) string {
	p := d.Params
	p.Page = page
	return d.url(p, d.Grid.SelectedKeys)
}

func (d DesignListData) sortURL(h datatable.Header) string {
	p := d.Params
	p.Page = 1
	p.SortBy = h.Key
	p.SortOrder = datatable.SortAsc
	if h.Active {
		p.SortOrder = h.Dir.Flip()
	}
	return d.url(p, nil)
}

func (d DesignListData) toggleURL(key string) string {
	selected := slices.Clone(d.Grid.SelectedKeys)
	if i := slices.Index(selected, key); i >= 0 {
		selected = slices.Delete(selected, i, i+1)
	} else {
		selected = append(selected, key)
	}
	return d.url(d.Params, selected)
}

func (d DesignListData) toggleAllURL() string {
	if d.Grid.AllSelected {
		return d.url(d.Params, nil)
	}
	keys := make([]string, 0, len(d.Grid.Rows))
	for _, r := range d.Grid.Rows {
		keys = append(keys, r.Key)
	}
	return d.url(d.Params, keys)
}

// DesignListPage renders the full design list page.
func DesignListPage(data DesignListData) templ.Component {
	return Page("Thiết kế", DesignListContent(data))
}

// DesignListContent renders the list region swapped by HTMX requests.
func DesignListContent(data DesignListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		g := data.Grid
		current := data.url(data.Params, g.SelectedKeys)

		h.rawf(`<section id="design-list" hx-get="%s" hx-trigger="designsChanged from:body" hx-target="this" hx-swap="outerHTML">`, esc(current))

		// toolbar
		h.raw(`<div class="toolbar">`)
		h.rawf(`<form class="search" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML" hx-trigger="input changed delay:300ms from:input[name=search], submit">`, esc(data.BaseURL))
		h.rawf(`<input type="search" name="search" value="%s" placeholder="Tìm theo mã, tên, danh mục, vật liệu...">`, esc(g.Search))
		if data.Params.SortBy != "" {
			h.rawf(`<input type="hidden" name="sort_by" value="%s"><input type="hidden" name="sort_order" value="%s">`,
				esc(data.Params.SortBy), esc(string(data.Params.SortOrder)))
		}
		h.rawf(`<input type="hidden" name="page_size" value="%d">`, g.PageSize)
		h.raw(`</form>`)
		h.rawf(`<span class="count">%d / %d thiết kế</span>`, g.Total, g.SourceTotal)
		h.raw(`<button class="btn btn-primary" hx-get="/designs/wizard/new" hx-target="#wizard-modal">+ Tạo thiết kế</button>`)
		h.raw(`</div>`)

		if g.Selectable && g.SelectedCount > 0 {
			h.raw(`<form class="bulk-bar" hx-delete="/designs/bulk" hx-confirm="Xoá các thiết kế đã chọn?" hx-target="#design-list" hx-swap="outerHTML">`)
			state := data.Params.Query()
			for _, name := range slices.Sorted(maps.Keys(state)) {
				h.rawf(`<input type="hidden" name="%s" value="%s">`, esc(name), esc(state.Get(name)))
			}
			for _, k := range g.SelectedKeys {
				h.rawf(`<input type="hidden" name="selected" value="%s">`, esc(k))
			}
			h.rawf(`<span>Đã chọn %d</span>`, g.SelectedCount)
			h.rawf(`<a href="%s" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML">Bỏ chọn</a>`,
				esc(data.url(data.Params, nil)), esc(data.url(data.Params, nil)))
			h.raw(`<button type="submit" class="btn btn-destructive">Xoá đã chọn</button>`)
			h.raw(`</form>`)
		}

		if g.Empty {
			renderEmptyState(h, g.EmptyState, g.Search)
			h.raw(`</section>`)
			return h.err
		}

		h.raw(`<table class="data-table"><thead><tr>`)
		if g.Selectable {
			link := esc(data.toggleAllURL())
			h.rawf(`<th class="select"><a href="%s" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML" role="checkbox" aria-checked="%t">%s</a></th>`,
				link, link, g.AllSelected, checkbox(g.AllSelected))
		}
		for _, hd := range g.Headers {
			h.rawf(`<th class="align-%s"%s>`, esc(string(hd.Align)), widthStyle(hd.Width))
			if hd.Sortable {
				link := esc(data.sortURL(hd))
				h.rawf(`<a href="%s" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML">%s%s</a>`,
					link, link, esc(hd.Label), sortIndicator(hd))
			} else {
				h.text(hd.Label)
			}
			h.raw(`</th>`)
		}
		h.raw(`<th class="actions"></th></tr></thead><tbody>`)

		for _, row := range g.Rows {
			h.rawf(`<tr id="design-%s"%s>`, esc(row.Key), attrIf(row.Selected, `class="selected"`))
			if g.Selectable {
				link := esc(data.toggleURL(row.Key))
				h.rawf(`<td class="select"><a href="%s" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML" role="checkbox" aria-checked="%t">%s</a></td>`,
					link, link, row.Selected, checkbox(row.Selected))
			}
			for _, c := range row.Cells {
				h.rawf(`<td class="align-%s">`, esc(string(c.Align)))
				if c.Key == "status" {
					h.rawf(`<span class="badge badge-%s">%s</span>`, esc(c.Raw), esc(c.Text))
				} else {
					h.text(c.Text)
				}
				h.raw(`</td>`)
			}
			h.raw(`<td class="actions">`)
			for _, a := range row.Actions {
				renderAction(h, row.Key, a)
			}
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		renderPagination(h, data)
		h.raw(`</section>`)
		return h.err
	})
}

func renderEmptyState(h *htmlWriter, empty datatable.EmptyState, search string) {
	h.raw(`<div class="empty-state">`)
	if empty.Icon != "" {
		h.rawf(`<span class="icon icon-%s"></span>`, esc(empty.Icon))
	}
	h.rawf(`<p class="empty-label">%s</p>`, esc(empty.Label))
	if search != "" {
		h.rawf(`<p class="empty-description">Không có kết quả cho “%s”.</p>`, esc(search))
	} else if empty.Description != "" {
		h.rawf(`<p class="empty-description">%s</p>`, esc(empty.Description))
	}
	h.raw(`</div>`)
}

func renderAction(h *htmlWriter, key string, a datatable.GridAction) {
	endpoint := esc("/designs/" + url.PathEscape(key) + "/actions/" + url.PathEscape(a.Name))
	class := "btn btn-ghost"
	confirm := ""
	target := "#wizard-modal"
	if a.Variant == datatable.VariantDestructive {
		class = "btn btn-ghost btn-destructive"
		confirm = ` hx-confirm="Xoá thiết kế này?"`
		target = "#design-list"
	}
	h.rawf(`<button class="%s" hx-post="%s" hx-target="%s"%s title="%s">`, class, endpoint, target, confirm, esc(a.Label))
	if a.Icon != "" {
		h.rawf(`<span class="icon icon-%s"></span> `, esc(a.Icon))
	}
	h.rawf(`%s</button>`, esc(a.Label))
}

func renderPagination(h *htmlWriter, data DesignListData) {
	g := data.Grid
	h.raw(`<nav class="pagination">`)
	if g.HasPrev {
		link := esc(data.pageURL(g.Page - 1))
		h.rawf(`<a href="%s" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML">‹ Trước</a>`, link, link)
	}
	for _, p := range g.PageNumbers {
		if p == g.Page {
			h.rawf(`<span class="current">%d</span>`, p)
			continue
		}
		link := esc(data.pageURL(p))
		h.rawf(`<a href="%s" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML">%d</a>`, link, link, p)
	}
	if g.HasNext {
		link := esc(data.pageURL(g.Page + 1))
		h.rawf(`<a href="%s" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML">Sau ›</a>`, link, link)
	}

	if g.ShowSizeSelector {
		p := data.Params
		p.Page = 1
		p.PageSize = 0
		h.rawf(`<select name="page_size" hx-get="%s" hx-target="#design-list" hx-swap="outerHTML">`, esc(data.url(p, nil)))
		for _, size := range g.PageSizes {
			h.rawf(`<option value="%d"%s>%s / trang</option>`, size, attrIf(size == g.PageSize, "selected"), strconv.Itoa(size))
		}
		h.raw(`</select>`)
	}
	h.raw(`</nav>`)
}

func checkbox(checked bool) string {
	if checked {
		return "☑"
	}
	return "☐"
}

func sortIndicator(hd datatable.Header) string {
	if !hd.Active {
		return ""
	}
	if hd.Dir == datatable.SortDesc {
		return " ▼"
	}
	return " ▲"
}

func widthStyle(width string) string {
	if width == "" {
		return ""
	}
	return ` style="width:` + esc(width) + `"`
}
