package layout

// StackPoint is the baseline and topline of one series at one row.
type StackPoint struct {
	Y0, Y1 float64
}

// Series is one stacked layer.
type Series struct {
	Key    string
	Index  int
	Points []StackPoint
}

// Stack layers the values of keys on top of each other for n rows, in key
// order with a zero baseline.
func Stack(n int, keys []string, value func(row int, key string) float64) []Series {
	out := make([]Series, len(keys))
	for j, k := range keys {
		out[j] = Series{Key: k, Index: j, Points: make([]StackPoint, n)}
	}
	for i := 0; i < n; i++ {
		base := 0.0
		for j, k := range keys {
			v := value(i, k)
			out[j].Points[i] = StackPoint{Y0: base, Y1: base + v}
			base += v
		}
	}
	return out
}
