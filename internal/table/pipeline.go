package table

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// itemsPerPage is the fixed page size of every table view.
const itemsPerPage = 10

// Direction orders a sorted column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort names the active sort column and its direction. A nil Sort means
// insertion order as returned by the fetch, after filtering.
type Sort struct {
	Key       string
	Direction Direction
}

// Column describes one table column: a unique ID, a header label, a typed
// accessor used for filtering and sorting, and a presentation transform.
type Column[T any] struct {
	ID       string
	Header   string
	Value    func(T) any
	Cell     func(T) string
	Sortable bool
}

// Page is the result of running the pipeline: the visible rows plus the
// bookkeeping the pagination controls need. Start and End are 1-based
// display positions within the filtered set, both zero when it is empty.
type Page[T any] struct {
	Rows       []T
	Total      int
	TotalPages int
	Start      int
	End        int
}

// Apply runs the filter → sort → paginate pipeline. It is a pure function
// of its inputs: rows are never mutated and equal-keyed rows keep their
// relative order.
func Apply[T any](rows []T, cols []Column[T], query string, sortState *Sort, page int) Page[T] {
	filtered := filterRows(rows, cols, query)
	sorted := sortRows(filtered, cols, sortState)

	total := len(sorted)
	totalPages := (total + itemsPerPage - 1) / itemsPerPage

	if page < 1 {
		page = 1
	}
	start := (page - 1) * itemsPerPage
	end := start + itemsPerPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	p := Page[T]{
		Rows:       sorted[start:end],
		Total:      total,
		TotalPages: totalPages,
	}
	if len(p.Rows) > 0 {
		p.Start = start + 1
		p.End = end
	}
	return p
}

// filterRows keeps rows where any column value, stringified, contains the
// query case-insensitively. An empty query keeps everything.
func filterRows[T any](rows []T, cols []Column[T], query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]T, len(rows))
		copy(out, rows)
		return out
	}
	var out []T
	for _, row := range rows {
		for _, col := range cols {
			v := col.Value(row)
			if v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(v)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// sortRows orders rows by the sort column's value with a stable three-way
// comparison. An unset sort, or a key naming no column, leaves the order as-is.
func sortRows[T any](rows []T, cols []Column[T], sortState *Sort) []T {
	if sortState == nil {
		return rows
	}
	var value func(T) any
	for _, col := range cols {
		if col.ID == sortState.Key {
			value = col.Value
			break
		}
	}
	if value == nil {
		return rows
	}
	desc := sortState.Direction == Desc
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(value(rows[i]), value(rows[j]))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return rows
}

// compareValues three-way-compares two cell values: numerically for
// numbers, chronologically for times, case-folded lexically otherwise.
func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(strings.ToLower(stringify(a)), strings.ToLower(stringify(b)))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
