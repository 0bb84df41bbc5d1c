package datatable

// Variant selects the display style of an action.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Action is a per-row menu entry.
type Action[T any] struct {
	Name    string // identifies the action when dispatched from a request
	Label   string
	Icon    string
	Variant Variant
	Handler func(row T)
	Show    func(row T) bool // nil means always visible
}

// Visible reports whether the action is offered for the row.
func (a Action[T]) Visible(row T) bool {
	return a.Show == nil || a.Show(row)
}

// Dispatch invokes the action handler for the row if the action is visible for it.
// It returns whether the handler ran. Panics raised by the handler are not
// recovered.
func Dispatch[T any](action Action[T], row T) bool {
	if !action.Visible(row) || action.Handler == nil {
		return false
	}
	action.Handler(row)
	return true
}

func findAction[T any](actions []Action[T], name string) (Action[T], bool) {
	for _, a := range actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action[T]{}, false
}
