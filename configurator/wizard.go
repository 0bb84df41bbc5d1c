package configurator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Step is a wizard step.
type Step int

const (
	StepClosed Step = iota
	StepBasicInfo
	StepAdvancedOptions
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepAdvancedOptions:
		return "advanced_options"
	default:
		return "closed"
	}
}

// Field names a draft field for Editable.
type Field string

const (
	FieldName            Field = "name"
	FieldCategory        Field = "category"
	FieldMaterial        Field = "material"
	FieldQuantity        Field = "quantity"
	FieldDimensions      Field = "dimensions"
	FieldRequirements    Field = "requirements"
	FieldNotes           Field = "notes"
	FieldFinishing       Field = "finishing"
	FieldClassifications Field = "classifications"
)

// Host supplies reference data and receives the wizard's outcome.
type Host struct {
	Categories       []Category
	Materials        []Material // materials of the selected category
	LoadingMaterials bool
	Source           ClassificationSource

	// OnSave receives the completed draft, exactly once per successful save.
	OnSave func(Draft)
	// OnCategoryChange asks the host to load the materials of a category; the host
	// answers with SetMaterials.
	OnCategoryChange func(categoryID string)
}

// Wizard drives the two-step creation or edit of a design. It is safe for
// concurrent use; host callbacks run without the wizard lock held.
type Wizard struct {
	mu     sync.Mutex
	host   Host
	opts   options
	loader *detailLoader

	open       bool
	step       Step
	draft      Draft
	detail     *Material // classification detail of draft.MaterialID, once loaded
	generation uint64
}

// New returns a closed wizard.
func New(host Host, opts ...WizardOption) *Wizard {
	o := options{policy: PolicyAllGroups, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Wizard{
		host:   host,
		opts:   o,
		loader: newDetailLoader(host.Source),
		step:   StepClosed,
	}
}

// Open starts the wizard at the first step. A nil entity starts a blank draft;
// otherwise the draft is a copy of entity.
func (w *Wizard) Open(entity *Draft) {
	w.mu.Lock()
	from := w.step
	w.generation++
	w.open = true
	w.step = StepBasicInfo
	w.detail = nil
	if entity == nil {
		w.draft = Draft{}.Clone()
	} else {
		w.draft = entity.Clone()
	}
	if m, ok := w.loader.cached(w.draft.MaterialID); ok {
		w.detail = &m
	}
	if w.draft.MinQuantity == 0 {
		w.draft.MinQuantity = w.materialMinLocked()
	}
	w.mu.Unlock()

	w.notifyTransition(from, StepBasicInfo)
}

// IsOpen reports whether the wizard is showing.
func (w *Wizard) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Step returns the current step, StepClosed when the wizard is closed.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// Categories returns the host's categories.
func (w *Wizard) Categories() []Category {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.host.Categories
}

// Materials returns the materials of the selected category and whether they are
// still loading.
func (w *Wizard) Materials() ([]Material, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.host.Materials, w.host.LoadingMaterials
}

// SetMaterials replaces the material list, typically in answer to OnCategoryChange.
func (w *Wizard) SetMaterials(materials []Material, loading bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.host.Materials = materials
	w.host.LoadingMaterials = loading
	if w.draft.MinQuantity == 0 {
		w.draft.MinQuantity = w.materialMinLocked()
	}
}

// InvalidateDetails drops cached material details so the next advance refetches them.
func (w *Wizard) InvalidateDetails() {
	w.loader.reset()
	w.mu.Lock()
	w.detail = nil
	w.mu.Unlock()
}

// ActiveMaterial returns the selected material, with its classification detail
// when it has been loaded.
func (w *Wizard) ActiveMaterial() (Material, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeMaterialLocked()
}

// DetailLoaded reports whether the classification detail of the selected material
// is available.
func (w *Wizard) DetailLoaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.detail != nil && w.detail.ID == w.draft.MaterialID
}

func (w *Wizard) activeMaterialLocked() (Material, bool) {
	if w.draft.MaterialID == "" {
		return Material{}, false
	}
	if w.detail != nil && w.detail.ID == w.draft.MaterialID {
		return *w.detail, true
	}
	return findMaterial(w.host.Materials, w.draft.MaterialID)
}

func (w *Wizard) materialMinLocked() int {
	m, ok := w.activeMaterialLocked()
	if !ok {
		return 0
	}
	return m.MinQuantity
}

// Editable reports whether a field may change. Drafts copied from a completed design
// only allow quantity and the advanced options.
func (w *Wizard) Editable(f Field) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.editableLocked(f)
}

func (w *Wizard) editableLocked(f Field) bool {
	if !w.open {
		return false
	}
	if !w.draft.IsFromExisting {
		return true
	}
	switch f {
	case FieldQuantity, FieldFinishing, FieldClassifications:
		return true
	default:
		return false
	}
}

func (w *Wizard) canEditLocked(f Field, step Step) bool {
	return w.step == step && w.editableLocked(f)
}

// SetName sets the design name.
func (w *Wizard) SetName(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldName, StepBasicInfo) {
		return false
	}
	w.draft.Name = strings.TrimSpace(name)
	return true
}

// SelectCategory picks a category. Changing it clears the material, its minimum
// quantity and every classification choice, then asks the host for the new
// category's materials.
func (w *Wizard) SelectCategory(categoryID string) bool {
	w.mu.Lock()
	if !w.canEditLocked(FieldCategory, StepBasicInfo) {
		w.mu.Unlock()
		return false
	}
	if w.draft.CategoryID == categoryID {
		w.mu.Unlock()
		return true
	}
	w.draft.CategoryID = categoryID
	w.draft.MaterialID = ""
	w.draft.MinQuantity = 0
	w.draft.Classifications = map[string]string{}
	w.detail = nil
	w.host.Materials = nil
	w.host.LoadingMaterials = categoryID != ""
	onChange := w.host.OnCategoryChange
	w.mu.Unlock()

	if onChange != nil && categoryID != "" {
		onChange(categoryID)
	}
	return true
}

// SelectMaterial picks a material of the current category, pre-filling its minimum
// quantity and clearing classification choices.
func (w *Wizard) SelectMaterial(materialID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldMaterial, StepBasicInfo) {
		return false
	}
	if w.draft.MaterialID == materialID {
		return true
	}
	w.draft.MaterialID = materialID
	w.draft.Classifications = map[string]string{}
	w.detail = nil
	if m, ok := w.loader.cached(materialID); ok {
		w.detail = &m
	}
	w.draft.MinQuantity = w.materialMinLocked()
	return true
}

// SetQuantity sets the number of units.
func (w *Wizard) SetQuantity(quantity int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldQuantity, StepBasicInfo) {
		return false
	}
	w.draft.Quantity = quantity
	return true
}

// SetDimensions sets length, width and height in centimetres. Height 0 means flat.
func (w *Wizard) SetDimensions(length, width, height float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldDimensions, StepBasicInfo) {
		return false
	}
	w.draft.Length = length
	w.draft.Width = width
	w.draft.Height = height
	return true
}

// SetRequirements sets the free-text printing requirements.
func (w *Wizard) SetRequirements(text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldRequirements, StepBasicInfo) {
		return false
	}
	w.draft.Requirements = text
	return true
}

// SetNotes sets the free-text notes.
func (w *Wizard) SetNotes(text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldNotes, StepBasicInfo) {
		return false
	}
	w.draft.Notes = text
	return true
}

// SetFinishing stores the finishing treatment. Values outside Finishings are kept
// but block saving.
func (w *Wizard) SetFinishing(f Finishing) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldFinishing, StepAdvancedOptions) {
		return false
	}
	w.draft.Finishing = f
	return true
}

// SelectOption chooses optionID in the classification group key. An empty optionID
// clears the choice.
func (w *Wizard) SelectOption(key, optionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canEditLocked(FieldClassifications, StepAdvancedOptions) || key == "" {
		return false
	}
	if optionID == "" {
		delete(w.draft.Classifications, key)
		return true
	}
	w.draft.Classifications[key] = optionID
	return true
}

// BasicInfoErrors returns field -> message for the first step. Empty when the
// wizard can advance.
func (w *Wizard) BasicInfoErrors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errorMessages(validateBasicInfo(w.draft, w.draft.MinQuantity))
}

// CanAdvance reports whether the first step is complete.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open && w.step == StepBasicInfo && validateBasicInfo(w.draft, w.draft.MinQuantity) == nil
}

// AdvancedOptionsErrors returns field -> message for the second step.
func (w *Wizard) AdvancedOptionsErrors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, _ := w.activeMaterialLocked()
	return errorMessages(validateAdvancedOptions(w.draft, m, w.opts.policy))
}

// CanSave reports whether the draft is complete.
func (w *Wizard) CanSave() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSaveLocked()
}

func (w *Wizard) canSaveLocked() bool {
	if !w.open || w.step != StepAdvancedOptions {
		return false
	}
	if validateBasicInfo(w.draft, w.draft.MinQuantity) != nil {
		return false
	}
	m, _ := w.activeMaterialLocked()
	return validateAdvancedOptions(w.draft, m, w.opts.policy) == nil
}

// Next moves to the advanced options and loads the material's classification
// detail. It reports whether the step changed. A failed fetch still advances; the
// wizard falls back to the material from the host list and the error is returned.
// A fetch answered after the material changed or the wizard was reopened is
// discarded.
func (w *Wizard) Next(ctx context.Context) (bool, error) {
	w.mu.Lock()
	if !w.open || w.step != StepBasicInfo || validateBasicInfo(w.draft, w.draft.MinQuantity) != nil {
		w.mu.Unlock()
		return false, nil
	}
	w.step = StepAdvancedOptions
	materialID := w.draft.MaterialID
	generation := w.generation
	loaded := w.detail != nil && w.detail.ID == materialID
	w.mu.Unlock()

	w.notifyTransition(StepBasicInfo, StepAdvancedOptions)
	if loaded || w.host.Source == nil {
		return true, nil
	}

	m, err := w.loader.load(ctx, materialID)
	if err != nil {
		w.opts.logger.Warn("load material classifications",
			zap.String("material_id", materialID), zap.Error(err))
		return true, fmt.Errorf("load classifications of material %s: %w", materialID, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open || w.generation != generation || w.draft.MaterialID != materialID {
		w.opts.logger.Debug("discard stale material detail",
			zap.String("material_id", materialID), zap.String("current", w.draft.MaterialID))
		return true, nil
	}
	w.detail = &m
	if m.MinQuantity > 0 {
		w.draft.MinQuantity = m.MinQuantity
	}
	return true, nil
}

// Back returns to the first step, keeping every entered value.
func (w *Wizard) Back() bool {
	w.mu.Lock()
	if !w.open || w.step != StepAdvancedOptions {
		w.mu.Unlock()
		return false
	}
	w.step = StepBasicInfo
	w.mu.Unlock()

	w.notifyTransition(StepAdvancedOptions, StepBasicInfo)
	return true
}

// Save hands the completed draft to the host and closes the wizard. It reports
// whether the save happened; OnSave runs once per successful call.
func (w *Wizard) Save() bool {
	w.mu.Lock()
	if !w.canSaveLocked() {
		w.mu.Unlock()
		return false
	}
	draft := w.draft.Clone()
	from := w.step
	w.closeLocked()
	onSave := w.host.OnSave
	w.mu.Unlock()

	if onSave != nil {
		onSave(draft)
	}
	w.notifyTransition(from, StepClosed)
	return true
}

// Cancel closes the wizard and discards the draft.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return
	}
	from := w.step
	w.closeLocked()
	w.mu.Unlock()

	w.notifyTransition(from, StepClosed)
}

func (w *Wizard) closeLocked() {
	w.open = false
	w.step = StepClosed
	w.generation++
	w.draft = Draft{}.Clone()
	w.detail = nil
}

func (w *Wizard) notifyTransition(from, to Step) {
	if w.opts.onTransition != nil && from != to {
		w.opts.onTransition(from, to)
	}
}
