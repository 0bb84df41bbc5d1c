package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"printflow/configurator"
)

// ClassificationGroup is one classification select of the second step.
type ClassificationGroup struct {
	Key     string
	Label   string
	Options []Option
	Error   string
}

// WizardData is the state of an open configurator session.
type WizardData struct {
	SessionID string
	Title     string
	Step      configurator.Step
	Draft     configurator.Draft
	Card      configurator.Card
	ReadOnly  bool // copied from a completed design

	Categories       []Option
	Materials        []Option
	LoadingMaterials bool
	Finishings       []Option
	Groups           []ClassificationGroup
	DetailLoaded     bool
	Warning          string

	Errors     map[string]string
	CanAdvance bool
	CanSave    bool
}

func (d WizardData) endpoint(action string) string {
	return esc("/designs/wizard/" + d.SessionID + "/" + action)
}

// Wizard renders the configurator modal at its current step.
func Wizard(data WizardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		h.rawf(`<div class="modal-backdrop"><div class="modal wizard" id="wizard" data-session="%s" data-step="%s">`,
			esc(data.SessionID), esc(data.Step.String()))
		h.rawf(`<header><h2>%s</h2>`, esc(data.Title))
		h.rawf(`<ol class="steps"><li%s>1. Thông tin cơ bản</li><li%s>2. Tuỳ chọn nâng cao</li></ol>`,
			attrIf(data.Step == configurator.StepBasicInfo, `class="active"`),
			attrIf(data.Step == configurator.StepAdvancedOptions, `class="active"`))
		h.raw(`</header>`)

		if data.Warning != "" {
			h.rawf(`<p class="alert alert-warning">%s</p>`, esc(data.Warning))
		}
		if data.ReadOnly {
			h.raw(`<p class="alert alert-info">Đặt lại từ thiết kế đã hoàn thành: chỉ số lượng và tuỳ chọn nâng cao được thay đổi.</p>`)
		}

		switch data.Step {
		case configurator.StepAdvancedOptions:
			renderAdvancedOptions(h, data)
		default:
			renderBasicInfo(h, data)
		}

		h.raw(`</div></div>`)
		return h.err
	})
}

func fieldError(h *htmlWriter, errs map[string]string, field string) {
	if msg, ok := errs[field]; ok {
		h.rawf(`<p class="field-error" id="error-%s">%s</p>`, esc(field), esc(msg))
	}
}

func formatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return configurator.FormatDimension(v)
}

func renderBasicInfo(h *htmlWriter, data WizardData) {
	d := data.Draft
	locked := attrIf(data.ReadOnly, "disabled")

	h.rawf(`<form class="wizard-step" hx-post="%s" hx-trigger="change" hx-target="#wizard-modal">`, data.endpoint("basic"))

	h.raw(`<label>Tên thiết kế`)
	h.rawf(`<input type="text" name="name" value="%s"%s></label>`, esc(d.Name), locked)
	fieldError(h, data.Errors, "name")

	h.raw(`<label>Danh mục<select name="category"` + locked + `>`)
	renderOptions(h, "Chọn danh mục", data.Categories)
	h.raw(`</select></label>`)
	fieldError(h, data.Errors, "category")

	h.raw(`<label>Vật liệu`)
	if data.LoadingMaterials {
		h.rawf(`<select name="material" disabled hx-get="%s?category=%s" hx-trigger="load delay:500ms" hx-target="#wizard-modal"><option>Đang tải...</option></select>`,
			data.endpoint("materials"), esc(d.CategoryID))
	} else {
		h.rawf(`<select name="material"%s>`, attrIf(data.ReadOnly || d.CategoryID == "", "disabled"))
		renderOptions(h, "Chọn vật liệu", data.Materials)
		h.raw(`</select>`)
	}
	h.raw(`</label>`)
	fieldError(h, data.Errors, "material")

	h.raw(`<fieldset class="dimensions"><legend>Kích thước (cm)</legend>`)
	h.rawf(`<input type="number" step="any" min="0" name="length" placeholder="Dài" value="%s"%s>`, esc(formatNumber(d.Length)), locked)
	h.rawf(`<input type="number" step="any" min="0" name="width" placeholder="Rộng" value="%s"%s>`, esc(formatNumber(d.Width)), locked)
	h.rawf(`<input type="number" step="any" min="0" name="height" placeholder="Cao (tuỳ chọn)" value="%s"%s>`, esc(formatNumber(d.Height)), locked)
	h.raw(`</fieldset>`)
	fieldError(h, data.Errors, "length")
	fieldError(h, data.Errors, "width")
	fieldError(h, data.Errors, "height")

	h.raw(`<label>Số lượng`)
	quantity := ""
	if d.Quantity != 0 {
		quantity = strconv.Itoa(d.Quantity)
	}
	h.rawf(`<input type="number" min="1" name="quantity" value="%s">`, esc(quantity))
	if d.MinQuantity > 0 {
		h.rawf(`<small class="hint">Tối thiểu %d</small>`, d.MinQuantity)
	}
	h.raw(`</label>`)
	fieldError(h, data.Errors, "quantity")

	h.rawf(`<label>Yêu cầu in<textarea name="requirements"%s>%s</textarea></label>`, locked, esc(d.Requirements))
	h.rawf(`<label>Ghi chú<textarea name="notes"%s>%s</textarea></label>`, locked, esc(d.Notes))
	h.raw(`</form>`)

	h.raw(`<footer>`)
	h.rawf(`<button class="btn" hx-post="%s" hx-target="#wizard-modal">Huỷ</button>`, data.endpoint("cancel"))
	h.rawf(`<button class="btn btn-primary" hx-post="%s" hx-target="#wizard-modal"%s>Tiếp tục</button>`,
		data.endpoint("next"), attrIf(!data.CanAdvance, "disabled"))
	h.raw(`</footer>`)
}

func renderAdvancedOptions(h *htmlWriter, data WizardData) {
	c := data.Card
	h.raw(`<dl class="summary">`)
	h.rawf(`<dt>Thiết kế</dt><dd>%s</dd>`, esc(c.Name))
	h.rawf(`<dt>Danh mục</dt><dd>%s</dd>`, esc(c.Category))
	h.rawf(`<dt>Vật liệu</dt><dd>%s</dd>`, esc(c.Material))
	h.rawf(`<dt>Kích thước</dt><dd>%s</dd>`, esc(c.Dimensions))
	h.rawf(`<dt>Số lượng</dt><dd>%d %s</dd>`, c.Quantity, esc(c.Unit))
	h.raw(`</dl>`)

	h.rawf(`<form class="wizard-step" hx-post="%s" hx-trigger="change" hx-target="#wizard-modal">`, data.endpoint("options"))

	h.raw(`<fieldset class="finishing"><legend>Gia công sau in</legend>`)
	for _, f := range data.Finishings {
		h.rawf(`<label class="radio"><input type="radio" name="finishing" value="%s"%s> %s</label>`,
			esc(f.Value), attrIf(f.Selected, "checked"), esc(f.Label))
	}
	h.raw(`</fieldset>`)
	fieldError(h, data.Errors, "finishing")

	if len(data.Groups) == 0 {
		if data.DetailLoaded {
			h.raw(`<p class="muted">Vật liệu này không có phân loại.</p>`)
		} else {
			h.raw(`<p class="muted">Chưa tải được phân loại của vật liệu.</p>`)
		}
	}
	for _, g := range data.Groups {
		h.rawf(`<label>%s<select name="classification_%s">`, esc(g.Label), esc(g.Key))
		renderOptions(h, "Chọn "+g.Label, g.Options)
		h.raw(`</select></label>`)
		if g.Error != "" {
			h.rawf(`<p class="field-error" id="error-classification_%s">%s</p>`, esc(g.Key), esc(g.Error))
		}
	}
	h.raw(`</form>`)

	h.raw(`<footer>`)
	h.rawf(`<button class="btn" hx-post="%s" hx-target="#wizard-modal">Huỷ</button>`, data.endpoint("cancel"))
	h.rawf(`<button class="btn" hx-post="%s" hx-target="#wizard-modal">Quay lại</button>`, data.endpoint("back"))
	h.rawf(`<button class="btn btn-primary" hx-post="%s" hx-target="#wizard-modal"%s>Lưu thiết kế</button>`,
		data.endpoint("save"), attrIf(!data.CanSave, "disabled"))
	h.raw(`</footer>`)
}
