package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Dimension and date-range filtering via RecordView
// ============================================================================
// Single-pass filters returning a SubView (index list into parent) — zero
// data copy.
// ============================================================================

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			val := strings.ToLower(view.Dimension(i, dim))
			if !set[val] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// FilterDateRange keeps records whose date dimension parses and lies in r
// (inclusive). A nil range is the identity. Records with a missing or
// unparseable date are dropped when a range is given.
func FilterDateRange(view RecordView, dimension string, r *DateRange) RecordView {
	if r == nil {
		return view
	}
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		t, ok := ParseDate(view.Dimension(i, dimension))
		if ok && r.Contains(t) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
