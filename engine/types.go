package engine

import "time"

// ============================================================================
// ENGINE TYPES — Records, filters and aggregation results
// ============================================================================
// Records only enter the engine through a schema (package schema), so every
// dimension is a string and every measure a float64. Dates stay as their
// DD/MM/YYYY source string and are parsed on demand with ParseDate.
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
//
// A sales row: Record{Dimensions["team"]="a", Measures["call_revenue"]=10}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// DateRange is an inclusive interval of dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies in [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ============================================================================
// AGGREGATION RESULTS
// ============================================================================

// Sums holds per-measure totals.
type Sums map[string]float64

// Aggregate is one group produced by GroupAndSum.
// With two keys, Sub holds the per-second-key sums flattened onto the
// group (the "a" and "b" of {date, a: {...}, b: {...}}).
type Aggregate struct {
	Key      string          `json:"key"`
	Date     time.Time       `json:"date,omitempty"`
	Count    int             `json:"count"`
	Sums     Sums            `json:"sums"`
	Sub      map[string]Sums `json:"sub,omitempty"`
	SubOrder []string        `json:"subOrder,omitempty"`
}

// Average is the mean of one measure for one category.
type Average struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// CategoryCount is the number of records falling into a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Point is one cleaned (date, value) observation of a series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Group represents a grouped/aggregated result for a single measure.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}
