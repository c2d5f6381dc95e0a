package layout

import (
	"sort"
	"time"
)

// BisectTime returns the first index in the ascending dates at which t could
// be inserted, keeping order. Equal dates insert to the left.
func BisectTime(dates []time.Time, t time.Time, lo int) int {
	if lo < 0 {
		lo = 0
	}
	if lo > len(dates) {
		return len(dates)
	}
	return lo + sort.Search(len(dates)-lo, func(i int) bool {
		return !dates[lo+i].Before(t)
	})
}

// NearestTime returns the index of the date closest to t, searching from
// index 1 like a tooltip bisector. Ties go to the earlier date. It returns
// -1 for no dates.
func NearestTime(dates []time.Time, t time.Time) int {
	switch len(dates) {
	case 0:
		return -1
	case 1:
		return 0
	}
	i := BisectTime(dates, t, 1)
	if i >= len(dates) {
		return len(dates) - 1
	}
	d0, d1 := dates[i-1], dates[i]
	if t.Sub(d0) > d1.Sub(t) {
		return i
	}
	return i - 1
}
