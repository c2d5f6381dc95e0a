package chart

import (
	"math"
	"strings"
	"time"

	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/join"
	"github.com/spektr-org/vizkit/layout"
	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// DonutTransition is the default arc tween length.
const DonutTransition = 200 * time.Millisecond

// Donut draws one arc per canonical category. Categories come from the
// color map; categories missing from an update are drawn with zero value
// at their canonical position so the slice order never changes.
type Donut struct {
	base
	inner, outer float64
	colors       ColorMap
	palette      *scale.Ordinal
	arcs         *scene.Node
	legend       *scene.Node
	marks        *join.Reconciler[string, layout.Arc]
}

// NewDonut builds the donut and its legend. Radii default to a ring 80px
// thick filling the smaller canvas side.
func NewDonut(cfg Config, opts ...Option) (*Donut, error) {
	o := applyOptions(DonutTransition, opts)
	b, err := newBase("donut-chart", cfg, o)
	if err != nil {
		return nil, err
	}
	outer, inner := o.outer, o.inner
	if outer <= 0 {
		outer = math.Min(cfg.PlotWidth(), cfg.PlotHeight()) / 2
		inner = math.Max(outer-80, 0)
	}

	c := &Donut{
		base:    b,
		inner:   inner,
		outer:   outer,
		colors:  o.colors,
		palette: scale.NewOrdinal(scale.Set1(), scale.WithDomain(o.colors.Keys()...)),
		marks:   join.New[string, layout.Arc]("donut"),
	}
	c.plot.Transform = scene.Transform{
		TX: cfg.Margins.Left + outer*1.005,
		TY: cfg.Margins.Top + cfg.PlotHeight()/2,
	}
	c.arcs = c.plot.Group("arcs")
	c.legend = c.plot.Group("legend")
	c.legend.Transform = scene.Transform{TX: outer*1.005 + 15, TY: -35}

	rows := make([]legendRow, len(o.colors))
	for i, e := range o.colors {
		rows[i] = legendRow{Label: capitalize(e.Key), Color: e.Color}
	}
	drawLegend(c.legend, rows, 30, false)
	return c, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type slice struct {
	Category string
	Value    float64
}

// Update lays out one slice per category from the category dimension and
// the metric measure, then tweens every arc from its previous angles.
func (c *Donut) Update(view engine.RecordView, category, metric string) error {
	data := make([]slice, view.Len())
	for i := range data {
		data[i] = slice{Category: view.Dimension(i, category), Value: view.Measure(i, metric)}
	}
	data = join.PadCategories(data, c.colors.Keys(),
		func(s slice) string { return s.Category },
		func(cat string) slice { return slice{Category: cat} })

	keys := make([]string, len(data))
	values := make([]float64, len(data))
	for i, s := range data {
		keys[i], values[i] = s.Category, s.Value
	}
	arcs := layout.Pie(keys, values, 0)

	res, err := c.marks.Reconcile(arcs, func(a layout.Arc) string { return a.Key })
	if err != nil {
		return err
	}
	c.opts.logger.Debug("donut: update", "enter", len(res.Enter), "update", len(res.Update), "exit", len(res.Exit))

	c.anim.reset()
	removeExits(c.arcs, res.Exit)
	tr := join.Transition[layout.Arc]{Duration: c.opts.transition, Lerp: layout.LerpArc}
	for _, m := range res.Merged() {
		node := c.arcs.ByKey(m.Key)
		if node == nil {
			node = c.arcs.AddKeyed(scene.KindPath, "arc", m.Key)
			node.Style.Fill = c.color(m.Key)
			node.Style.Stroke = "#ffffff"
			node.Style.StrokeWidth = 6
		}
		d := tr.Duration
		if m.Phase == join.PhaseEnter {
			d = 0
		}
		from, to := m.From, m.To
		c.anim.add(d, func(t float64) {
			node.Path = layout.ArcPath(tr.Sample(from, to, t), c.inner, c.outer)
		}, nil)
	}
	orderByKeys(c.arcs, res.Keys())
	return nil
}

// color prefers the configured map and falls back to Set1 by first use.
func (c *Donut) color(key string) string {
	if col, ok := c.colors.Get(key); ok {
		return col
	}
	return c.palette.Assign(key)
}

// Arc returns the settled arc for a category.
func (c *Donut) Arc(key string) (layout.Arc, bool) {
	return c.marks.Value(key)
}

var _ Widget = (*Donut)(nil)
