package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"printflow/configurator"
	"printflow/metrics"
	"printflow/services"
	"printflow/templates"
)

const classificationFieldPrefix = "classification_"

// openWizard starts a wizard session over draft (nil for a blank design).
// source is the code of the design being edited or copied.
func (d *Deps) openWizard(mode string, draft *configurator.Draft, source string) (*wizardSession, error) {
	categories, err := d.Catalog.Categories()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	var materials []configurator.Material
	if draft != nil && draft.CategoryID != "" {
		materials, err = d.Catalog.Materials(draft.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("load materials of %s: %w", draft.CategoryID, err)
		}
	}

	logger := d.logger().Named("wizard").With(zap.String("mode", mode))
	ws := &wizardSession{mode: mode, source: source}
	host := configurator.Host{
		Categories: categories,
		Materials:  materials,
		Source:     d.Catalog,
		OnSave: func(saved configurator.Draft) {
			ws.mu.Lock()
			ws.saved = &saved
			ws.mu.Unlock()
		},
		// Materials are fetched by the lazy request the loading select issues.
		OnCategoryChange: func(categoryID string) {
			logger.Debug("category changed", zap.String("session_id", ws.id), zap.String("category_id", categoryID))
		},
	}
	ws.wizard = configurator.New(host,
		configurator.WithClassificationPolicy(d.Policy),
		configurator.WithLogger(logger),
		configurator.WithTransitionHook(func(from, to configurator.Step) {
			metrics.RecordTransition(from.String(), to.String())
		}),
	)
	d.Sessions.add(ws)
	ws.wizard.Open(draft)
	return ws, nil
}

func wizardTitle(ws *wizardSession) string {
	switch ws.mode {
	case modeEdit:
		return "Chỉnh sửa thiết kế " + ws.source
	case modeReorder:
		return "Đặt lại thiết kế " + ws.source
	default:
		return "Tạo thiết kế mới"
	}
}

func toOptions(opts []services.SelectOption, selected string) []templates.Option {
	ret := make([]templates.Option, 0, len(opts))
	for _, o := range opts {
		ret = append(ret, templates.Option{Value: o.Value, Label: o.Label, Selected: o.Value == selected})
	}
	return ret
}

func wizardData(ws *wizardSession) templates.WizardData {
	w := ws.wizard
	draft := w.Draft()
	step := w.Step()
	materials, loading := w.Materials()
	touched, warning := ws.state()

	errs := map[string]string{}
	if touched {
		switch step {
		case configurator.StepBasicInfo:
			errs = w.BasicInfoErrors()
		case configurator.StepAdvancedOptions:
			errs = w.AdvancedOptionsErrors()
		}
	}

	data := templates.WizardData{
		SessionID:        ws.id,
		Title:            wizardTitle(ws),
		Step:             step,
		Draft:            draft,
		Card:             w.Card(),
		ReadOnly:         draft.IsFromExisting,
		Categories:       toOptions(services.CategoryOptions(w.Categories()), draft.CategoryID),
		Materials:        toOptions(services.MaterialOptions(materials), draft.MaterialID),
		LoadingMaterials: loading,
		Finishings:       toOptions(services.FinishingOptions(), string(draft.Finishing)),
		DetailLoaded:     w.DetailLoaded(),
		Warning:          warning,
		Errors:           errs,
		CanAdvance:       w.CanAdvance(),
		CanSave:          w.CanSave(),
	}

	if m, ok := w.ActiveMaterial(); ok {
		for _, c := range m.Classifications {
			group := templates.ClassificationGroup{
				Key:   c.Key,
				Label: c.Label,
				Error: errs[classificationFieldPrefix+c.Key],
			}
			if group.Label == "" {
				group.Label = c.Key
			}
			for _, o := range c.Options {
				group.Options = append(group.Options, templates.Option{
					Value:    o.ID,
					Label:    o.Label,
					Selected: draft.Classifications[c.Key] == o.ID,
				})
			}
			data.Groups = append(data.Groups, group)
		}
	}
	return data
}

func renderWizard(e *core.RequestEvent, d *Deps, ws *wizardSession) error {
	if !ws.wizard.IsOpen() {
		d.Sessions.remove(ws.id)
		return templates.WizardClosed().Render(e.Request.Context(), e.Response)
	}
	return templates.Wizard(wizardData(ws)).Render(e.Request.Context(), e.Response)
}

// withSession resolves the {sid} path value. An unknown or expired session closes
// the modal with a toast.
func withSession(d *Deps, fn func(e *core.RequestEvent, ws *wizardSession) error) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sid := e.Request.PathValue("sid")
		ws, ok := d.Sessions.get(sid)
		if !ok {
			d.logger().Info("wizard: unknown session", zap.String("session_id", sid))
			SetToast(e, "warning", "Phiên tạo thiết kế đã hết hạn, vui lòng mở lại")
			return templates.WizardClosed().Render(e.Request.Context(), e.Response)
		}
		return fn(e, ws)
	}
}

// formFloat parses a number input; blank or invalid input is 0.
func formFloat(v string) float64 {
	f, err := cast.ToFloat64E(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return f
}

// formInt parses an integer input; blank or invalid input is 0.
func formInt(v string) int {
	v = strings.TrimLeft(strings.TrimSpace(v), "0")
	if v == "" {
		return 0
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}

// HandleWizardNew opens a wizard for a new design.
func HandleWizardNew(d *Deps) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ws, err := d.openWizard(modeNew, nil, "")
		if err != nil {
			d.logger().Error("wizard: open", zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Không mở được trình tạo thiết kế")
		}
		return renderWizard(e, d, ws)
	}
}

// HandleWizardShow re-renders an open wizard.
func HandleWizardShow(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		return renderWizard(e, d, ws)
	})
}

// HandleWizardBasicInfo applies the first-step form. Only submitted fields are
// applied; disabled inputs of a reorder are never submitted.
func HandleWizardBasicInfo(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dữ liệu không hợp lệ")
		}
		applyBasicInfo(ws.wizard, e.Request.PostForm)
		ws.markTouched()
		return renderWizard(e, d, ws)
	})
}

func applyBasicInfo(w *configurator.Wizard, f url.Values) {
	current := w.Draft()

	if f.Has("name") {
		w.SetName(f.Get("name"))
	}
	categoryChanged := false
	if f.Has("category") && f.Get("category") != current.CategoryID {
		categoryChanged = w.SelectCategory(f.Get("category"))
	}
	// The submitted material belongs to the previous category.
	if !categoryChanged && f.Has("material") {
		w.SelectMaterial(f.Get("material"))
	}
	if f.Has("length") || f.Has("width") || f.Has("height") {
		length, width, height := current.Length, current.Width, current.Height
		if f.Has("length") {
			length = formFloat(f.Get("length"))
		}
		if f.Has("width") {
			width = formFloat(f.Get("width"))
		}
		if f.Has("height") {
			height = formFloat(f.Get("height"))
		}
		w.SetDimensions(length, width, height)
	}
	if f.Has("quantity") {
		w.SetQuantity(formInt(f.Get("quantity")))
	}
	if f.Has("requirements") {
		w.SetRequirements(f.Get("requirements"))
	}
	if f.Has("notes") {
		w.SetNotes(f.Get("notes"))
	}
}

// HandleWizardMaterials loads the materials of the selected category, answering
// the loading state left by a category change.
func HandleWizardMaterials(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		categoryID := e.Request.URL.Query().Get("category")
		if categoryID == "" || categoryID != ws.wizard.Draft().CategoryID {
			return renderWizard(e, d, ws)
		}
		materials, err := d.Catalog.Materials(categoryID)
		if err != nil {
			d.logger().Warn("wizard: load materials", zap.String("category_id", categoryID), zap.Error(err))
			ws.wizard.SetMaterials(nil, false)
			ws.setWarning("Không tải được danh sách vật liệu")
			return renderWizard(e, d, ws)
		}
		// Reloaded materials may carry new classifications.
		ws.wizard.InvalidateDetails()
		ws.wizard.SetMaterials(materials, false)
		ws.setWarning("")
		return renderWizard(e, d, ws)
	})
}

// HandleWizardNext advances to the advanced options. A failed classification
// fetch still advances, with a warning.
func HandleWizardNext(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		moved, err := ws.wizard.Next(e.Request.Context())
		switch {
		case !moved:
			ws.markTouched()
		case err != nil:
			d.logger().Warn("wizard: classification fetch failed", zap.String("session_id", ws.id), zap.Error(err))
			ws.reset("Không tải được phân loại của vật liệu, đang dùng dữ liệu có sẵn")
		default:
			ws.reset("")
		}
		return renderWizard(e, d, ws)
	})
}

// HandleWizardBack returns to the first step.
func HandleWizardBack(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		if ws.wizard.Back() {
			ws.reset("")
		}
		return renderWizard(e, d, ws)
	})
}

// HandleWizardOptions applies the second-step form: finishing and the
// classification_<key> selects of the active material. Other keys are ignored.
func HandleWizardOptions(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Dữ liệu không hợp lệ")
		}
		f := e.Request.PostForm
		if f.Has("finishing") {
			ws.wizard.SetFinishing(configurator.Finishing(f.Get("finishing")))
		}
		if m, ok := ws.wizard.ActiveMaterial(); ok {
			for _, c := range m.Classifications {
				name := classificationFieldPrefix + c.Key
				if f.Has(name) {
					ws.wizard.SelectOption(c.Key, strings.TrimSpace(f.Get(name)))
				}
			}
		}
		ws.markTouched()
		return renderWizard(e, d, ws)
	})
}

// HandleWizardSave persists the completed design. When persisting fails the
// wizard is reopened on the same draft so nothing entered is lost.
func HandleWizardSave(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		if !ws.wizard.Save() {
			ws.markTouched()
			return renderWizard(e, d, ws)
		}
		draft, ok := ws.takeSaved()
		if !ok {
			d.Sessions.remove(ws.id)
			return templates.WizardClosed().Render(e.Request.Context(), e.Response)
		}

		saved, err := d.Designs.Save(draft)
		if err != nil {
			d.logger().Error("wizard: save design", zap.String("session_id", ws.id), zap.Error(err))
			ws.wizard.Open(&draft)
			if _, err := ws.wizard.Next(e.Request.Context()); err != nil {
				d.logger().Warn("wizard: reload classifications", zap.Error(err))
			}
			ws.reset("Không lưu được thiết kế, vui lòng thử lại")
			return renderWizard(e, d, ws)
		}

		metrics.DesignsSaved.WithLabelValues(ws.mode).Inc()
		d.Sessions.remove(ws.id)
		SetToast(e, "success", fmt.Sprintf("Đã lưu thiết kế %s", saved.Code))
		TriggerEvent(e, EventDesignsChanged)
		return templates.WizardClosed().Render(e.Request.Context(), e.Response)
	})
}

// HandleWizardCancel discards the draft and closes the modal.
func HandleWizardCancel(d *Deps) func(e *core.RequestEvent) error {
	return withSession(d, func(e *core.RequestEvent, ws *wizardSession) error {
		ws.wizard.Cancel()
		d.Sessions.remove(ws.id)
		return templates.WizardClosed().Render(e.Request.Context(), e.Response)
	})
}
