// Package table implements a generic searchable, sortable, paginated view
// over an asynchronously fetched row collection. The visible page is always
// a pure function of {rows, search query, sort state, current page}.
package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"go.uber.org/zap"
)

// View holds the UI state of one table instance. Instances are independent;
// nothing is shared between them.
type View[T any] struct {
	cols  []Column[T]
	fetch func(context.Context) ([]T, error)
	log   *zap.Logger

	// OnRowView, when set, is invoked with the full row value by ActivateRow.
	OnRowView func(T)
	// SearchPlaceholder is the hint shown next to the search box.
	SearchPlaceholder string

	rows      []T
	query     string
	sortState *Sort
	page      int
}

// NewView builds a View over the given columns and row producer. Column IDs
// must be non-empty and unique; sort state is keyed by them.
func NewView[T any](cols []Column[T], fetch func(context.Context) ([]T, error), log *zap.Logger) (*View[T], error) {
	if len(cols) == 0 {
		return nil, errors.New("table: at least one column required")
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.ID == "" {
			return nil, errors.New("table: column with empty id")
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("table: duplicate column id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return &View[T]{
		cols:              cols,
		fetch:             fetch,
		log:               log,
		SearchPlaceholder: "Search...",
		page:              1,
	}, nil
}

// Reload invokes the row producer and replaces the full row set on success.
// On failure the prior rows are left untouched and the error is logged.
func (v *View[T]) Reload(ctx context.Context) error {
	rows, err := v.fetch(ctx)
	if err != nil {
		v.log.Error("failed to fetch table rows", zap.Error(err))
		return err
	}
	v.rows = rows
	return nil
}

// SetSearch updates the filter text and resets to the first page.
func (v *View[T]) SetSearch(query string) {
	v.query = query
	v.page = 1
}

// Search returns the current filter text.
func (v *View[T]) Search() string { return v.query }

// ClickHeader toggles sorting for the named column. A repeated click on the
// ascending column flips it to descending; any other click sorts ascending
// on that column. Clicks on non-sortable or unknown columns do nothing.
func (v *View[T]) ClickHeader(id string) {
	var col *Column[T]
	for i := range v.cols {
		if v.cols[i].ID == id {
			col = &v.cols[i]
			break
		}
	}
	if col == nil || !col.Sortable {
		return
	}
	direction := Asc
	if v.sortState != nil && v.sortState.Key == id && v.sortState.Direction == Asc {
		direction = Desc
	}
	v.sortState = &Sort{Key: id, Direction: direction}
}

// SortState returns a copy of the active sort, or nil.
func (v *View[T]) SortState() *Sort {
	if v.sortState == nil {
		return nil
	}
	s := *v.sortState
	return &s
}

// Page runs the pipeline for the current state.
func (v *View[T]) Page() Page[T] {
	return Apply(v.rows, v.cols, v.query, v.sortState, v.page)
}

// CurrentPage returns the 1-based page number.
func (v *View[T]) CurrentPage() int { return v.page }

// CanPrev reports whether a previous page exists.
func (v *View[T]) CanPrev() bool { return v.page > 1 }

// CanNext reports whether a next page exists.
func (v *View[T]) CanNext() bool { return v.page < v.Page().TotalPages }

// NextPage advances one page, clamped at the last page.
func (v *View[T]) NextPage() {
	if v.CanNext() {
		v.page++
	}
}

// PrevPage goes back one page, clamped at the first page.
func (v *View[T]) PrevPage() {
	if v.CanPrev() {
		v.page--
	}
}

// GoToPage jumps to page n, clamped to the valid range.
func (v *View[T]) GoToPage(n int) {
	total := v.Page().TotalPages
	if n < 1 {
		n = 1
	}
	if total > 0 && n > total {
		n = total
	}
	if total == 0 {
		n = 1
	}
	v.page = n
}

// PageNumbers returns at most three page buttons: a window centered on the
// current page, clamped to the first or last pages near the edges.
func (v *View[T]) PageNumbers() []int {
	total := v.Page().TotalPages
	count := total
	if count > 3 {
		count = 3
	}
	var nums []int
	for i := 0; i < count; i++ {
		var n int
		switch {
		case v.page <= 2:
			n = i + 1
		case v.page >= total-1:
			n = total - 2 + i
		default:
			n = v.page - 1 + i
		}
		if n <= 0 || n > total {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// ActivateRow invokes the row-view callback with the i-th row of the
// current page. It reports whether a row was activated.
func (v *View[T]) ActivateRow(i int) bool {
	if v.OnRowView == nil {
		return false
	}
	page := v.Page()
	if i < 0 || i >= len(page.Rows) {
		return false
	}
	v.OnRowView(page.Rows[i])
	return true
}

// Render writes the current page as an aligned text table: headers with a
// sort indicator, one line per row through each column's cell function, a
// single empty-state line when nothing matches, and the page summary.
func (v *View[T]) Render(w io.Writer) {
	page := v.Page()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "#")
	for _, col := range v.cols {
		fmt.Fprint(tw, "\t")
		fmt.Fprint(tw, col.Header)
		if v.sortState != nil && v.sortState.Key == col.ID {
			if v.sortState.Direction == Asc {
				fmt.Fprint(tw, " ^")
			} else {
				fmt.Fprint(tw, " v")
			}
		}
	}
	fmt.Fprintln(tw)

	if len(page.Rows) == 0 {
		fmt.Fprintln(tw, "No results found.")
	}
	for n, row := range page.Rows {
		fmt.Fprintf(tw, "%d.", page.Start+n)
		for _, col := range v.cols {
			fmt.Fprintf(tw, "\t%s", col.Cell(row))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	fmt.Fprintf(w, "Showing %d-%d of %d (page %d of %d)\n",
		page.Start, page.End, page.Total, v.page, page.TotalPages)
}
