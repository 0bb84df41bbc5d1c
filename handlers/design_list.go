package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"printflow/configurator"
	"printflow/datatable"
	"printflow/metrics"
	"printflow/services"
	"printflow/templates"
)

// EventDesignsChanged is the client event that makes the design list reload itself.
const EventDesignsChanged = "designsChanged"

const designListURL = "/designs"

// Row action names, used in /designs/{id}/actions/{action}.
const (
	actionEdit    = "edit"
	actionReorder = "reorder"
	actionAdvance = "advance"
	actionDelete  = "delete"
)

type designRow = services.DesignRow

func designColumns() []datatable.Column[designRow] {
	return []datatable.Column[designRow]{
		datatable.Field("code", "Mã", func(r designRow) string { return r.Code }).
			WithAlign(datatable.AlignLeft, "9rem"),
		datatable.CollatedField("name", "Tên thiết kế", language.Vietnamese, func(r designRow) string { return r.Name }),
		datatable.CollatedField("category", "Danh mục", language.Vietnamese, func(r designRow) string { return r.Category }),
		datatable.CollatedField("material", "Vật liệu", language.Vietnamese, func(r designRow) string { return r.Material }),
		datatable.Field("quantity", "Số lượng", func(r designRow) int { return r.Quantity }).
			WithRender(func(_ any, r designRow) string { return services.FormatQuantity(r.Quantity, r.Unit) }).
			WithAlign(datatable.AlignRight, "8rem"),
		datatable.TextField("dimensions", "Kích thước", func(r designRow) string {
			return services.FormatDimensions(r.Length, r.Width, r.Height)
		}),
		datatable.TextField("finishing", "Gia công", func(r designRow) string { return r.Finishing.Label() }),
		datatable.Field("status", "Trạng thái", func(r designRow) string { return r.Status }).
			WithRender(func(_ any, r designRow) string { return statusLabel(r.Status) }).
			WithAlign(datatable.AlignCenter, "9rem"),
		datatable.TimeField("created", "Ngày tạo", func(r designRow) time.Time { return r.Created }).
			WithRender(func(_ any, r designRow) string { return services.FormatDate(r.Created) }).
			WithAlign(datatable.AlignRight, "7rem"),
		datatable.TimeField("updated", "Cập nhật", func(r designRow) time.Time { return r.Updated }).
			WithRender(func(_ any, r designRow) string { return services.FormatRelative(r.Updated, time.Now()) }).
			WithAlign(datatable.AlignRight, "8rem"),
	}
}

func statusLabel(status string) string {
	if l, ok := services.StatusLabels[status]; ok {
		return l
	}
	return status
}

// designActions returns the row actions. run receives the action name and row
// when an action is dispatched.
func designActions(run func(name string, row designRow)) []datatable.Action[designRow] {
	handler := func(name string) func(designRow) {
		return func(row designRow) {
			if run != nil {
				run(name, row)
			}
		}
	}
	return []datatable.Action[designRow]{
		{
			Name:    actionEdit,
			Label:   "Sửa",
			Icon:    "edit",
			Handler: handler(actionEdit),
			Show:    func(r designRow) bool { return r.Status != "completed" },
		},
		{
			Name:    actionReorder,
			Label:   "Đặt lại",
			Icon:    "repeat",
			Handler: handler(actionReorder),
			Show:    func(r designRow) bool { return r.Status == "completed" },
		},
		{
			Name:    actionAdvance,
			Label:   "Chuyển bước",
			Icon:    "arrow-right",
			Handler: handler(actionAdvance),
			Show:    func(r designRow) bool { return services.NextStatus(r.Status) != "" },
		},
		{
			Name:    actionDelete,
			Label:   "Xoá",
			Icon:    "trash",
			Variant: datatable.VariantDestructive,
			Handler: handler(actionDelete),
		},
	}
}

func newDesignTable(rows []designRow, pageSize int, run func(name string, row designRow)) *datatable.Table[designRow] {
	return datatable.New(rows, designColumns(),
		datatable.WithRowKey(func(r designRow) string { return r.ID }),
		datatable.WithPagination[designRow](pageSize, true),
		datatable.WithSelection[designRow](nil),
		datatable.WithActions(designActions(run)...),
		datatable.WithSearchFields(func(r designRow) []string {
			return []string{statusLabel(r.Status), string(r.Finishing), r.Requirements}
		}),
		datatable.WithTieBreak(func(a, b designRow) int { return strings.Compare(a.Code, b.Code) }),
		datatable.WithEmptyState[designRow](datatable.EmptyState{
			Label:       "Chưa có thiết kế nào",
			Description: "Bấm “Tạo thiết kế” để bắt đầu.",
			Icon:        "layers",
		}),
	)
}

// HandleDesignList renders the design list. HTMX requests get only the list
// region; direct visits get the full page.
func HandleDesignList(d *Deps) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderDesignList(e, d, e.Request.URL.Query())
	}
}

func renderDesignList(e *core.RequestEvent, d *Deps, q url.Values) error {
	rows, err := d.Designs.List()
	if err != nil {
		d.logger().Error("design list: load designs", zap.Error(err))
		return e.String(http.StatusInternalServerError, "Failed to load designs")
	}

	tbl := newDesignTable(rows, d.pageSize(), nil)
	params := datatable.ParseParams(q, tbl.Columns())
	tbl.Apply(params)

	data := templates.DesignListData{
		BaseURL: designListURL,
		Grid:    tbl.View().Grid(),
		Params:  params,
	}

	component := templates.DesignListPage(data)
	if isHTMX(e) {
		component = templates.DesignListContent(data)
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleDesignAction runs a row action. Edit and reorder open the wizard in the
// modal; advance and delete change the design and ask the list to reload.
func HandleDesignAction(d *Deps) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		name := e.Request.PathValue("action")

		rows, err := d.Designs.List()
		if err != nil {
			d.logger().Error("design action: load designs", zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Không tải được danh sách thiết kế")
		}

		var picked *designRow
		tbl := newDesignTable(rows, d.pageSize(), func(_ string, row designRow) {
			picked = &row
		})
		if !tbl.Dispatch(name, id) || picked == nil {
			return ErrorToast(e, http.StatusNotFound, "Thao tác không hợp lệ cho thiết kế này")
		}
		row := *picked

		switch name {
		case actionEdit, actionReorder:
			draft, err := d.Designs.Load(row.ID)
			if err != nil {
				if errors.Is(err, services.ErrDesignNotFound) {
					return ErrorToast(e, http.StatusNotFound, "Không tìm thấy thiết kế")
				}
				return ErrorToast(e, http.StatusInternalServerError, "Không tải được thiết kế")
			}
			mode := modeEdit
			if name == actionReorder {
				mode = modeReorder
				draft = configurator.Reorder(draft)
			}
			ws, err := d.openWizard(mode, &draft, row.Code)
			if err != nil {
				d.logger().Error("design action: open wizard", zap.String("design_id", row.ID), zap.Error(err))
				return ErrorToast(e, http.StatusInternalServerError, "Không mở được trình tạo thiết kế")
			}
			return renderWizard(e, d, ws)

		case actionAdvance:
			next := services.NextStatus(row.Status)
			if err := d.Designs.SetStatus(row.ID, next); err != nil {
				d.logger().Error("design action: advance status", zap.String("design_id", row.ID), zap.Error(err))
				return ErrorToast(e, http.StatusInternalServerError, "Không cập nhật được trạng thái")
			}
			SetToast(e, "success", fmt.Sprintf("%s: %s", row.Code, statusLabel(next)))
			TriggerEvent(e, EventDesignsChanged)
			return templates.WizardClosed().Render(e.Request.Context(), e.Response)

		case actionDelete:
			if err := d.Designs.Delete(row.ID); err != nil {
				d.logger().Error("design action: delete", zap.String("design_id", row.ID), zap.Error(err))
				return ErrorToast(e, http.StatusInternalServerError, "Không xoá được thiết kế")
			}
			metrics.DesignsDeleted.Inc()
			SetToast(e, "success", fmt.Sprintf("Đã xoá %s", row.Code))
			TriggerEvent(e, EventDesignsChanged)
			e.Response.Header().Set("HX-Reswap", "none")
			return e.NoContent(http.StatusOK)
		}
		return ErrorToast(e, http.StatusNotFound, "Thao tác không hợp lệ cho thiết kế này")
	}
}

// HandleDesignBulkDelete deletes the selected designs and re-renders the list
// without a selection.
func HandleDesignBulkDelete(d *Deps) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dữ liệu không hợp lệ")
		}

		rows, err := d.Designs.List()
		if err != nil {
			d.logger().Error("bulk delete: load designs", zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Không tải được danh sách thiết kế")
		}

		// The selection only covers the page the client is looking at.
		tbl := newDesignTable(rows, d.pageSize(), nil)
		tbl.Apply(datatable.ParseParams(e.Request.Form, tbl.Columns()))
		var ids []string
		for _, row := range tbl.SelectedRows() {
			ids = append(ids, row.ID)
		}
		if len(ids) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Chưa chọn thiết kế nào")
		}

		deleted, err := d.Designs.DeleteMany(ids)
		if err != nil {
			d.logger().Error("bulk delete", zap.Strings("design_ids", ids), zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Không xoá được các thiết kế đã chọn")
		}
		metrics.DesignsDeleted.Add(float64(deleted))
		SetToast(e, "success", fmt.Sprintf("Đã xoá %d thiết kế", deleted))

		q := e.Request.Form
		q.Del("selected")
		q.Del("page")
		return renderDesignList(e, d, q)
	}
}
