package scene

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// PATH — Vector path segments with an SVG "d" encoding
// ============================================================================
// Arc angles follow the pie convention: radians, 0 at twelve o'clock,
// increasing clockwise in screen space (y down).
// ============================================================================

// Op is a path segment operation.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpArc
	OpClose
)

// Segment is one path command. Move and Line use X, Y. Arc draws a circular
// arc around center (X, Y) with radius R from angle A0 to A1.
type Segment struct {
	Op     Op
	X, Y   float64
	R      float64
	A0, A1 float64
}

// Path is an ordered list of segments.
type Path struct {
	Segments []Segment
}

// MoveTo starts a new sub-path.
func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpMove, X: x, Y: y})
}

// LineTo draws a straight line from the current point.
func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Op: OpLine, X: x, Y: y})
}

// Arc draws an arc around (cx, cy). The current point must already be at
// the arc's start.
func (p *Path) Arc(cx, cy, r, a0, a1 float64) {
	p.Segments = append(p.Segments, Segment{Op: OpArc, X: cx, Y: cy, R: r, A0: a0, A1: a1})
}

// Close closes the current sub-path.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Op: OpClose})
}

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool { return len(p.Segments) == 0 }

// ArcPoint returns the point at angle a on a circle around (cx, cy).
func ArcPoint(cx, cy, r, a float64) (x, y float64) {
	return cx + r*math.Sin(a), cy - r*math.Cos(a)
}

// String encodes the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			b.WriteByte('M')
			writePair(&b, s.X, s.Y)
		case OpLine:
			b.WriteByte('L')
			writePair(&b, s.X, s.Y)
		case OpArc:
			span := s.A1 - s.A0
			if math.Abs(span) >= 2*math.Pi-1e-9 {
				// SVG cannot draw a full circle in one arc command.
				mx, my := ArcPoint(s.X, s.Y, s.R, s.A0+span/2)
				writeArc(&b, s.R, false, span > 0, mx, my)
				ex, ey := ArcPoint(s.X, s.Y, s.R, s.A1)
				writeArc(&b, s.R, false, span > 0, ex, ey)
				continue
			}
			ex, ey := ArcPoint(s.X, s.Y, s.R, s.A1)
			writeArc(&b, s.R, math.Abs(span) > math.Pi, span > 0, ex, ey)
		case OpClose:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func writeArc(b *strings.Builder, r float64, large, sweep bool, x, y float64) {
	b.WriteByte('A')
	writePair(b, r, r)
	b.WriteString(",0,")
	b.WriteString(flag(large))
	b.WriteByte(',')
	b.WriteString(flag(sweep))
	b.WriteByte(',')
	writePair(b, x, y)
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func writePair(b *strings.Builder, x, y float64) {
	b.WriteString(Num(x))
	b.WriteByte(',')
	b.WriteString(Num(y))
}

// Num formats a coordinate compactly with at most three decimals.
func Num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Flatten approximates the path with straight lines. Each sub-path is a
// polyline; closed sub-paths end back at their first point.
func (p Path) Flatten(step float64) [][][2]float64 {
	if step <= 0 {
		step = math.Pi / 36
	}
	var out [][][2]float64
	var cur [][2]float64
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			flush()
			cur = append(cur, [2]float64{s.X, s.Y})
		case OpLine:
			cur = append(cur, [2]float64{s.X, s.Y})
		case OpArc:
			span := s.A1 - s.A0
			n := int(math.Ceil(math.Abs(span) / step))
			if n < 1 {
				n = 1
			}
			for i := 1; i <= n; i++ {
				x, y := ArcPoint(s.X, s.Y, s.R, s.A0+span*float64(i)/float64(n))
				cur = append(cur, [2]float64{x, y})
			}
		case OpClose:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
			flush()
		}
	}
	flush()
	return out
}
