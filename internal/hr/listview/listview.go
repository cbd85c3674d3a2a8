// Package listview implements the list-management state machine shared
// by every entity page: fetch status, dialog mode, AND-composed filter
// predicates over an in-memory item set, and a fixed-size pagination
// window. Filtering is synchronous and never triggers a network
// round-trip; a filter change resets the window to the first page.
package listview

// Status is the data-fetch state of the view.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

// DialogMode is the mutation dialog currently open, if any.
type DialogMode int

const (
	DialogClosed DialogMode = iota
	DialogCreate
	DialogEdit
	DialogView
	DialogDeleteConfirm
)

// DefaultPageSize matches the page size the entity tables always used.
const DefaultPageSize = 10

// Predicate decides whether an item passes one active filter. An
// inactive filter is simply not registered, so an empty filter value
// never excludes anything.
type Predicate[T any] func(T) bool

// Model is the view state for one entity list.
type Model[T any] struct {
	status     Status
	err        string
	items      []T
	filtered   []T
	predicates map[string]Predicate[T]
	page       int
	pageSize   int

	dialog   DialogMode
	selected *T
}

// New returns an idle model with the default page size.
func New[T any]() *Model[T] {
	return &Model[T]{
		status:     StatusIdle,
		predicates: map[string]Predicate[T]{},
		page:       1,
		pageSize:   DefaultPageSize,
	}
}

// SetPageSize overrides the page size. Values below 1 keep the default.
func (m *Model[T]) SetPageSize(n int) {
	if n < 1 {
		return
	}
	m.pageSize = n
	m.page = 1
}

// BeginLoad moves the view into the loading state. Previously loaded
// items stay on screen until the load resolves.
func (m *Model[T]) BeginLoad() {
	m.status = StatusLoading
	m.err = ""
}

// Resolve completes a load. On error the message is captured and the
// item set is left as it was, except on initial load where it is empty.
func (m *Model[T]) Resolve(items []T, err error) {
	if err != nil {
		m.status = StatusError
		m.err = err.Error()
		return
	}
	m.status = StatusLoaded
	m.items = items
	m.refilter()
}

// Status returns the current fetch state.
func (m *Model[T]) Status() Status {
	return m.status
}

// Err returns the captured load-failure message, if any.
func (m *Model[T]) Err() string {
	return m.err
}

// SetFilter registers or replaces the named filter predicate and
// recomputes the derived list. Pagination resets to page 1.
func (m *Model[T]) SetFilter(name string, p Predicate[T]) {
	m.predicates[name] = p
	m.refilter()
}

// ClearFilter removes the named filter.
func (m *Model[T]) ClearFilter(name string) {
	delete(m.predicates, name)
	m.refilter()
}

// refilter intersects the item set with every active predicate.
// An item survives iff it matches all of them.
func (m *Model[T]) refilter() {
	m.filtered = m.filtered[:0]
	for _, item := range m.items {
		ok := true
		for _, p := range m.predicates {
			if !p(item) {
				ok = false
				break
			}
		}
		if ok {
			m.filtered = append(m.filtered, item)
		}
	}
	m.page = 1
}

// Filtered returns the full derived list.
func (m *Model[T]) Filtered() []T {
	return m.filtered
}

// SetPage moves the pagination window. Pages below 1 clamp to 1; pages
// beyond the last are allowed and simply yield an empty slice.
func (m *Model[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	m.page = page
}

// Page returns the current window into the filtered list. The last
// page holds the remainder; a page beyond the last is empty, not an
// error.
func (m *Model[T]) Page() []T {
	start := (m.page - 1) * m.pageSize
	if start >= len(m.filtered) {
		return nil
	}
	end := start + m.pageSize
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	return m.filtered[start:end]
}

// PageCount returns how many pages the filtered list spans. An empty
// list still has one (empty) page.
func (m *Model[T]) PageCount() int {
	if len(m.filtered) == 0 {
		return 1
	}
	return (len(m.filtered) + m.pageSize - 1) / m.pageSize
}

// CurrentPage returns the 1-based page number.
func (m *Model[T]) CurrentPage() int {
	return m.page
}

// OpenCreate opens the dialog with a blank form model.
func (m *Model[T]) OpenCreate() {
	m.dialog = DialogCreate
	m.selected = nil
}

// OpenEdit opens the dialog seeded from the given row.
func (m *Model[T]) OpenEdit(item T) {
	m.dialog = DialogEdit
	m.selected = &item
}

// OpenView opens the read-only dialog for the given row.
func (m *Model[T]) OpenView(item T) {
	m.dialog = DialogView
	m.selected = &item
}

// OpenDeleteConfirm opens the destructive-action confirmation for the
// given row. Cancelling (CloseDialog) has no side effect.
func (m *Model[T]) OpenDeleteConfirm(item T) {
	m.dialog = DialogDeleteConfirm
	m.selected = &item
}

// CloseDialog closes any open dialog and drops the selection.
func (m *Model[T]) CloseDialog() {
	m.dialog = DialogClosed
	m.selected = nil
}

// Dialog returns the open dialog mode.
func (m *Model[T]) Dialog() DialogMode {
	return m.dialog
}

// Selected returns the row the open dialog was seeded from, nil for
// create mode or when no dialog is open.
func (m *Model[T]) Selected() *T {
	return m.selected
}
