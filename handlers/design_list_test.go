package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printflow/collections"
	"printflow/testhelpers"
)

func TestHandleDesignList_FullPage(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi cà phê")

	req := httptest.NewRequest(http.MethodGet, "/designs", nil)
	rec := serve(t, app, HandleDesignList(d), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<!DOCTYPE html>",
		`id="design-list"`,
		"TUI-20x30-0001",
		"Túi cà phê",
		"Màng PE",
		"1,000 cái",
		"20 × 30 cm",
		`<span class="badge badge-draft">Nháp</span>`,
	)
}

func TestHandleDesignList_PartialForHTMX(t *testing.T) {
	app, d := newTestDeps(t)

	rec := serve(t, app, HandleDesignList(d), htmxRequest(http.MethodGet, "/designs", nil))

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, `id="design-list"`, "Chưa có thiết kế nào")
	testhelpers.AssertHTMLNotContains(t, body, "<!DOCTYPE html>", "<table")
}

func TestHandleDesignList_SearchAndSort(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	hop := testhelpers.FindCategory(t, app, "Hộp giấy")
	ivory := testhelpers.FindMaterial(t, app, "Giấy Ivory 350")
	testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi bánh mì")
	testhelpers.CreateTestDesign(t, app, hop.Id, ivory.Id, "HOP-20x30-0001", "Hộp trà")
	testhelpers.CreateTestDesign(t, app, hop.Id, ivory.Id, "HOP-20x30-0002", "Hộp bánh")

	rec := serve(t, app, HandleDesignList(d),
		htmxRequest(http.MethodGet, "/designs?search=h%E1%BB%99p&sort_by=code&sort_order=desc", nil))
	body := rec.Body.String()

	testhelpers.AssertHTMLContains(t, body, "HOP-20x30-0001", "HOP-20x30-0002", "2 / 3 thiết kế")
	testhelpers.AssertHTMLNotContains(t, body, "TUI-20x30-0001")
	assert.Less(t, strings.Index(body, "HOP-20x30-0002"), strings.Index(body, "HOP-20x30-0001"),
		"descending code sort should list 0002 first")
}

func TestHandleDesignList_ActionsFollowStatus(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	done := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi xong")
	done.Set("status", "completed")
	require.NoError(t, app.Save(done))
	draft := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0002", "Túi nháp")

	body := serve(t, app, HandleDesignList(d), htmxRequest(http.MethodGet, "/designs", nil)).Body.String()

	testhelpers.AssertHTMLContains(t, body,
		"/designs/"+done.Id+"/actions/reorder",
		"/designs/"+draft.Id+"/actions/edit",
		"/designs/"+draft.Id+"/actions/advance",
		"/designs/"+draft.Id+"/actions/delete",
	)
	testhelpers.AssertHTMLNotContains(t, body,
		"/designs/"+done.Id+"/actions/edit",
		"/designs/"+done.Id+"/actions/advance",
		"/designs/"+draft.Id+"/actions/reorder",
	)
}

func actionRequest(id, action string) *http.Request {
	req := htmxRequest(http.MethodPost, "/designs/"+id+"/actions/"+action, nil)
	req.SetPathValue("id", id)
	req.SetPathValue("action", action)
	return req
}

func TestHandleDesignAction_EditOpensWizard(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	design := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi cà phê")

	rec := serve(t, app, HandleDesignAction(d), actionRequest(design.Id, "edit"))

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`data-step="basic_info"`,
		"Chỉnh sửa thiết kế TUI-20x30-0001",
		`value="Túi cà phê"`,
	)
	assert.Equal(t, 1, d.Sessions.Len())
}

func TestHandleDesignAction_HiddenActionRejected(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	design := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi cà phê")

	for _, action := range []string{"reorder", "publish"} {
		rec := serve(t, app, HandleDesignAction(d), actionRequest(design.Id, action))
		assert.Equal(t, http.StatusNotFound, rec.Code, action)
		assert.Equal(t, "none", rec.Header().Get("HX-Reswap"), action)
	}
	rec := serve(t, app, HandleDesignAction(d), actionRequest("missing", "edit"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, d.Sessions.Len())
}

func TestHandleDesignAction_Advance(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	design := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi cà phê")

	rec := serve(t, app, HandleDesignAction(d), actionRequest(design.Id, "advance"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), EventDesignsChanged)
	reloaded, err := app.FindRecordById(collections.Designs, design.Id)
	require.NoError(t, err)
	assert.Equal(t, "proofing", reloaded.GetString("status"))
}

func TestHandleDesignAction_Delete(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	design := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi cà phê")

	rec := serve(t, app, HandleDesignAction(d), actionRequest(design.Id, "delete"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Contains(t, rec.Header().Get("HX-Trigger"), EventDesignsChanged)
	_, err := app.FindRecordById(collections.Designs, design.Id)
	assert.Error(t, err)
}

func TestHandleDesignBulkDelete(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	a := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi A")
	b := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0002", "Túi B")
	keep := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0003", "Túi C")

	req := htmxRequest(http.MethodDelete, "/designs/bulk?selected="+a.Id+"&selected="+b.Id+"&selected=missing", nil)
	rec := serve(t, app, HandleDesignBulkDelete(d), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Đã xoá 2 thiết kế")
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "TUI-20x30-0003")
	testhelpers.AssertHTMLNotContains(t, body, "TUI-20x30-0001", "TUI-20x30-0002", "Đã chọn")

	count, err := app.CountRecords(collections.Designs)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	_, err = app.FindRecordById(collections.Designs, keep.Id)
	assert.NoError(t, err)
}

func TestHandleDesignBulkDelete_OnlyCurrentPage(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	a := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi A")
	b := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0002", "Túi B")

	target := "/designs/bulk?page_size=1&sort_by=code&sort_order=asc&selected=" + a.Id + "&selected=" + b.Id
	rec := serve(t, app, HandleDesignBulkDelete(d), htmxRequest(http.MethodDelete, target, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "Đã xoá 1 thiết kế")
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "TUI-20x30-0002")

	_, err := app.FindRecordById(collections.Designs, a.Id)
	assert.Error(t, err)
	_, err = app.FindRecordById(collections.Designs, b.Id)
	assert.NoError(t, err, "a design on another page stays")
}

func TestHandleDesignBulkDelete_OffPageSelectionOnly(t *testing.T) {
	app, d := newTestDeps(t)
	tui := testhelpers.FindCategory(t, app, "Túi")
	pe := testhelpers.FindMaterial(t, app, "Màng PE")
	testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0001", "Túi A")
	b := testhelpers.CreateTestDesign(t, app, tui.Id, pe.Id, "TUI-20x30-0002", "Túi B")

	target := "/designs/bulk?page_size=1&sort_by=code&sort_order=asc&selected=" + b.Id
	rec := serve(t, app, HandleDesignBulkDelete(d), htmxRequest(http.MethodDelete, target, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	count, err := app.CountRecords(collections.Designs)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestHandleDesignBulkDelete_NothingSelected(t *testing.T) {
	app, d := newTestDeps(t)

	rec := serve(t, app, HandleDesignBulkDelete(d), htmxRequest(http.MethodDelete, "/designs/bulk", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
}
