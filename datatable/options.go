package datatable

// DefaultPageSize is used when no page size option is given.
const DefaultPageSize = 10

// DefaultPageSizes are the sizes offered by the size selector.
var DefaultPageSizes = []int{10, 20, 50, 100}

// EmptyState is shown instead of the table body when no rows are visible.
type EmptyState struct {
	Label       string
	Description string
	Icon        string
}

// DefaultEmptyState is used when no empty state option is given.
var DefaultEmptyState = EmptyState{
	Label:       "No data",
	Description: "There is nothing to show here yet.",
	Icon:        "inbox",
}

// Option configures a Table.
type Option[T any] func(*options[T])

type options[T any] struct {
	pageSize         int
	pageSizes        []int
	showSizeSelector bool
	actions          []Action[T]
	rowKey           func(T) string
	selectable       bool
	onSelection      func(keys []string)
	emptyState       EmptyState
	searchExtra      func(T) []string
	tieBreak         func(a, b T) int
}

// WithPagination sets the page size and whether the size selector is shown.
func WithPagination[T any](pageSize int, showSizeSelector bool) Option[T] {
	return func(o *options[T]) {
		if pageSize > 0 {
			o.pageSize = pageSize
		}
		o.showSizeSelector = showSizeSelector
	}
}

// WithPageSizes sets the sizes offered by the size selector.
func WithPageSizes[T any](sizes ...int) Option[T] {
	return func(o *options[T]) {
		o.pageSizes = sizes
	}
}

// WithActions sets the per-row actions.
func WithActions[T any](actions ...Action[T]) Option[T] {
	return func(o *options[T]) {
		o.actions = append(o.actions, actions...)
	}
}

// WithRowKey sets the function returning a unique, stable key per row. Selection
// and dispatch by key need it.
func WithRowKey[T any](key func(T) string) Option[T] {
	return func(o *options[T]) {
		o.rowKey = key
	}
}

// WithSelection enables row selection. onChange, if not nil, receives the selected
// keys after every change. Selection stays disabled without WithRowKey.
func WithSelection[T any](onChange func(keys []string)) Option[T] {
	return func(o *options[T]) {
		o.selectable = true
		o.onSelection = onChange
	}
}

// WithEmptyState sets the descriptor rendered when no rows are visible.
func WithEmptyState[T any](empty EmptyState) Option[T] {
	return func(o *options[T]) {
		o.emptyState = empty
	}
}

// WithSearchFields adds strings that are matched by the search term in addition
// to the column values.
func WithSearchFields[T any](extra func(T) []string) Option[T] {
	return func(o *options[T]) {
		o.searchExtra = extra
	}
}

// WithTieBreak orders rows whose sort keys are equal.
func WithTieBreak[T any](tieBreak func(a, b T) int) Option[T] {
	return func(o *options[T]) {
		o.tieBreak = tieBreak
	}
}
