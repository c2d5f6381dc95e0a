// Package layout turns data into geometry: pie angles, stacked baselines
// and the line, area and arc paths that widgets attach to scene nodes.
package layout

import (
	"math"

	"github.com/spektr-org/vizkit/join"
)

// Arc is one pie slice. Angles are radians, clockwise from twelve o'clock.
type Arc struct {
	Key        string
	Index      int
	Value      float64
	StartAngle float64
	EndAngle   float64
	PadAngle   float64
}

// Pie lays values out around the full circle in input order. Non-positive
// values get an empty slice at their position.
func Pie(keys []string, values []float64, padAngle float64) []Arc {
	n := len(values)
	arcs := make([]Arc, n)
	if n == 0 {
		return arcs
	}

	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	pa := math.Min(math.Abs(padAngle), 2*math.Pi/float64(n))
	k := 0.0
	if total > 0 {
		k = (2*math.Pi - float64(n)*pa) / total
	} else {
		pa = 0
	}

	a := 0.0
	for i, v := range values {
		span := 0.0
		if v > 0 {
			span = v * k
		}
		arcs[i] = Arc{
			Key:        keys[i],
			Index:      i,
			Value:      v,
			StartAngle: a,
			EndAngle:   a + span + pa,
			PadAngle:   pa,
		}
		a = arcs[i].EndAngle
	}
	return arcs
}

// LerpArc interpolates every numeric field of an arc independently.
func LerpArc(a, b Arc, t float64) Arc {
	return Arc{
		Key:        b.Key,
		Index:      b.Index,
		Value:      join.Float(a.Value, b.Value, t),
		StartAngle: join.Float(a.StartAngle, b.StartAngle, t),
		EndAngle:   join.Float(a.EndAngle, b.EndAngle, t),
		PadAngle:   join.Float(a.PadAngle, b.PadAngle, t),
	}
}
