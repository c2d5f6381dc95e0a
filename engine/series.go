package engine

import (
	"math"
	"time"
)

// ============================================================================
// SERIES — Ordered (date, value) observations for line and area widgets
// ============================================================================

// CleanSeries converts records into points, preserving input order.
// Records without a parseable date or with a missing, zero or NaN measure
// are dropped.
func CleanSeries(view RecordView, dateDimension, measure string) []Point {
	out := make([]Point, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		t, ok := ParseDate(view.Dimension(i, dateDimension))
		if !ok {
			continue
		}
		v := view.Measure(i, measure)
		if v == 0 || math.IsNaN(v) {
			continue
		}
		out = append(out, Point{Date: t, Value: v})
	}
	return out
}

// SumSeries turns date aggregates into points whose value is metric summed
// over the given sub-keys. Aggregates without a parsed date are dropped.
func SumSeries(aggs []Aggregate, keys []string, metric string) []Point {
	out := make([]Point, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Date.IsZero() {
			continue
		}
		var sum float64
		for _, k := range keys {
			sum += agg.Sub[k][metric]
		}
		out = append(out, Point{Date: agg.Date, Value: sum})
	}
	return out
}

// FilterPoints keeps points whose date lies in r. Nil r is the identity.
func FilterPoints(points []Point, r *DateRange) []Point {
	if r == nil {
		return points
	}
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// Extent returns the earliest and latest dates. ok is false for no points.
func Extent(points []Point) (lo, hi time.Time, ok bool) {
	for i, p := range points {
		if i == 0 || p.Date.Before(lo) {
			lo = p.Date
		}
		if i == 0 || p.Date.After(hi) {
			hi = p.Date
		}
	}
	return lo, hi, len(points) > 0
}

// MaxValue returns the largest point value ignoring NaN, 0 when there is
// none.
func MaxValue(points []Point) float64 {
	m, found := 0.0, false
	for _, p := range points {
		if math.IsNaN(p.Value) {
			continue
		}
		if !found || p.Value > m {
			m, found = p.Value, true
		}
	}
	return m
}
