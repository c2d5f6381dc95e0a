package layout

import (
	"math"

	"github.com/spektr-org/vizkit/scene"
)

// ============================================================================
// SHAPE GENERATORS — data coordinates to scene paths
// ============================================================================

// ArcPath draws a slice as an annulus sector centered at the origin.
// An inner radius of zero draws a pie wedge.
func ArcPath(a Arc, inner, outer float64) scene.Path {
	var p scene.Path
	a0 := a.StartAngle + a.PadAngle/2
	a1 := a.EndAngle - a.PadAngle/2
	if a1 < a0 {
		a0 = (a.StartAngle + a.EndAngle) / 2
		a1 = a0
	}

	p.MoveTo(scene.ArcPoint(0, 0, outer, a0))
	p.Arc(0, 0, outer, a0, a1)
	if inner > 0 {
		p.LineTo(scene.ArcPoint(0, 0, inner, a1))
		p.Arc(0, 0, inner, a1, a0)
	} else {
		p.LineTo(0, 0)
	}
	p.Close()
	return p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LinePath connects points with straight segments. A non-finite coordinate
// breaks the line into separate sub-paths.
func LinePath(xs, ys []float64) scene.Path {
	var p scene.Path
	open := false
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			open = false
			continue
		}
		if open {
			p.LineTo(xs[i], ys[i])
		} else {
			p.MoveTo(xs[i], ys[i])
			open = true
		}
	}
	return p
}

// AreaPath fills between a baseline y0 and a topline y1 sharing xs.
// Points with a non-finite coordinate are skipped.
func AreaPath(xs, y0, y1 []float64) scene.Path {
	var p scene.Path
	idx := make([]int, 0, len(xs))
	for i := range xs {
		if finite(xs[i]) && finite(y0[i]) && finite(y1[i]) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return p
	}
	for n, i := range idx {
		if n == 0 {
			p.MoveTo(xs[i], y1[i])
		} else {
			p.LineTo(xs[i], y1[i])
		}
	}
	for n := len(idx) - 1; n >= 0; n-- {
		i := idx[n]
		p.LineTo(xs[i], y0[i])
	}
	p.Close()
	return p
}

// RingPath draws a closed polygon ring, used for map regions.
func RingPath(ring [][2]float64) scene.Path {
	var p scene.Path
	for i, pt := range ring {
		if i == 0 {
			p.MoveTo(pt[0], pt[1])
		} else {
			p.LineTo(pt[0], pt[1])
		}
	}
	if len(ring) > 0 {
		p.Close()
	}
	return p
}
