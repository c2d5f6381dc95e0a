package chart

import (
	"strconv"

	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// ============================================================================
// AXES
// ============================================================================
// An axis group is rebuilt from its ticks on every update: a domain line,
// then one "tick" group per tick holding a 6px tick line and a label.
// ============================================================================

const tickSize = 6

// Tick is one labelled position along an axis.
type Tick struct {
	Pos   float64
	Label string
}

func drawAxisBottom(g *scene.Node, r0, r1 float64, ticks []Tick) {
	g.Clear()
	domain := g.Add(scene.KindPath, "domain")
	domain.Path.MoveTo(r0, tickSize)
	domain.Path.LineTo(r0, 0)
	domain.Path.LineTo(r1, 0)
	domain.Path.LineTo(r1, tickSize)
	domain.Style.Stroke = "#000000"

	for _, t := range ticks {
		tg := g.Group("tick")
		tg.Transform = scene.Transform{TX: t.Pos}
		line := tg.Add(scene.KindLine, "")
		line.Y2 = tickSize
		line.Style.Stroke = "#000000"
		label := tg.Add(scene.KindText, "")
		label.Y = tickSize + 12
		label.Text = t.Label
		label.Style.Anchor = "middle"
		label.Style.FontSize = 10
		label.Style.Fill = "#000000"
	}
}

func drawAxisLeft(g *scene.Node, r0, r1 float64, ticks []Tick) {
	g.Clear()
	domain := g.Add(scene.KindPath, "domain")
	domain.Path.MoveTo(-tickSize, r0)
	domain.Path.LineTo(0, r0)
	domain.Path.LineTo(0, r1)
	domain.Path.LineTo(-tickSize, r1)
	domain.Style.Stroke = "#000000"

	for _, t := range ticks {
		tg := g.Group("tick")
		tg.Transform = scene.Transform{TY: t.Pos}
		line := tg.Add(scene.KindLine, "")
		line.X2 = -tickSize
		line.Style.Stroke = "#000000"
		label := tg.Add(scene.KindText, "")
		label.X = -tickSize - 3
		label.Y = 3
		label.Text = t.Label
		label.Style.Anchor = "end"
		label.Style.FontSize = 10
		label.Style.Fill = "#000000"
	}
}

func plainNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func linearTicks(s *scale.Linear, n int, format func(float64) string) []Tick {
	if format == nil {
		format = plainNumber
	}
	var out []Tick
	for _, v := range s.Ticks(n) {
		out = append(out, Tick{Pos: s.Map(v), Label: format(v)})
	}
	return out
}

func timeTicks(s *scale.Time, n int) []Tick {
	t0, t1 := s.Domain()
	span := t1.Sub(t0)
	var out []Tick
	for _, t := range s.Ticks(n) {
		out = append(out, Tick{Pos: s.Map(t), Label: formatTimeTick(t, span)})
	}
	return out
}

func bandTicks(s *scale.Band) []Tick {
	var out []Tick
	for _, k := range s.Domain() {
		c, _ := s.Center(k)
		out = append(out, Tick{Pos: c, Label: k})
	}
	return out
}

// ============================================================================
// LEGEND
// ============================================================================

// legendRow is one swatch and label.
type legendRow struct {
	Label string
	Color string
}

// drawLegend lays rows out vertically, spacing apart. Circle swatches are
// used when round is set, squares otherwise.
func drawLegend(g *scene.Node, rows []legendRow, spacing float64, round bool) {
	g.Clear()
	for i, r := range rows {
		row := g.Group("legend-row")
		y := spacing * float64(i)
		if round {
			c := row.Add(scene.KindCircle, "swatch")
			c.Y, c.R = y, 5
			c.Style.Fill = r.Color
		} else {
			sw := row.Add(scene.KindRect, "swatch")
			sw.Y, sw.Width, sw.Height = y, 10, 10
			sw.Style.Fill = r.Color
		}
		label := row.Add(scene.KindText, "label")
		label.X = 15
		label.Y = y + 10
		if round {
			label.Y = y + 5
		}
		label.Text = r.Label
		label.Style.FontSize = 15
		label.Style.Fill = "#000000"
	}
}
