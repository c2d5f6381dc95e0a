package chart

import (
	"math"

	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/join"
	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// BarFill is the default bar color.
const BarFill = "#5f9ea0"

type barGeom struct {
	Key        string
	X, Y, W, H float64
}

func lerpBar(a, b barGeom, t float64) barGeom {
	return barGeom{
		Key: b.Key,
		X:   join.Float(a.X, b.X, t),
		Y:   join.Float(a.Y, b.Y, t),
		W:   join.Float(a.W, b.W, t),
		H:   join.Float(a.H, b.H, t),
	}
}

// Bar draws one rectangle per category on a band x axis.
type Bar struct {
	base
	x     *scale.Band
	y     *scale.Linear
	xAxis *scene.Node
	yAxis *scene.Node
	bars  *scene.Node
	marks *join.Reconciler[string, barGeom]
}

// NewBar allocates the bar chart's axes and scales. Bars do not animate
// unless WithTransition is given.
func NewBar(cfg Config, opts ...Option) (*Bar, error) {
	o := applyOptions(0, opts)
	b, err := newBase("bar-chart", cfg, o)
	if err != nil {
		return nil, err
	}
	w, h := cfg.PlotWidth(), cfg.PlotHeight()
	c := &Bar{
		base:  b,
		x:     scale.NewBand(0, w).SetPaddingInner(0.3).SetPaddingOuter(0.3),
		y:     scale.NewLinear(0, 1, h, 0),
		marks: join.New[string, barGeom]("bar"),
	}
	c.xAxis = c.plot.Group("x axis")
	c.xAxis.Transform = scene.Transform{TY: h}
	c.yAxis = c.plot.Group("y axis")
	c.bars = c.plot.Group("bars")
	return c, nil
}

// Update binds one bar per record, keyed by the key dimension, with height
// from measure. The y domain is [0, max*1.1].
func (c *Bar) Update(view engine.RecordView, key, measure string) error {
	n := view.Len()
	keys := make([]string, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		keys[i] = view.Dimension(i, key)
		values[i] = view.Measure(i, measure)
	}
	if err := join.Unique(keys); err != nil {
		return err
	}

	h := c.cfg.PlotHeight()
	c.x.SetDomain(keys...)
	c.y.SetDomain(0, maxOf(values)*1.1)

	drawAxisBottom(c.xAxis, 0, c.cfg.PlotWidth(), bandTicks(c.x))
	drawAxisLeft(c.yAxis, h, 0, linearTicks(c.y, 3, nil))

	geoms := make([]barGeom, n)
	for i := range keys {
		x, _ := c.x.Map(keys[i])
		top := c.y.Map(values[i])
		geoms[i] = barGeom{Key: keys[i], X: x, Y: top, W: c.x.Bandwidth(), H: h - top}
	}

	res, err := c.marks.Reconcile(geoms, func(g barGeom) string { return g.Key })
	if err != nil {
		return err
	}
	c.opts.logger.Debug("bar: update", "bars", n, "ymax", maxOf(values)*1.1)

	c.anim.reset()
	removeExits(c.bars, res.Exit)
	tr := join.Transition[barGeom]{Duration: c.opts.transition, Lerp: lerpBar}
	for _, m := range res.Merged() {
		node := c.bars.ByKey(m.Key)
		if node == nil {
			node = c.bars.AddKeyed(scene.KindRect, "bar", m.Key)
			node.Style.Fill = BarFill
		}
		c.animate(node, tr, m)
	}
	orderByKeys(c.bars, res.Keys())
	return nil
}

func (c *Bar) animate(node *scene.Node, tr join.Transition[barGeom], m join.Mark[string, barGeom]) {
	set := func(t float64) {
		g := tr.Sample(m.From, m.To, t)
		node.X, node.Y, node.Width, node.Height = g.X, g.Y, g.W, g.H
	}
	d := tr.Duration
	if m.Phase == join.PhaseEnter {
		d = 0
	}
	c.anim.add(d, set, nil)
}

// Scales exposes the current x and y scales.
func (c *Bar) Scales() (*scale.Band, *scale.Linear) { return c.x, c.y }

// removeExits detaches the nodes of exiting marks from g.
func removeExits[V any](g *scene.Node, exits []join.Mark[string, V]) {
	nodes := make([]*scene.Node, 0, len(exits))
	for _, m := range exits {
		if node := g.ByKey(m.Key); node != nil {
			nodes = append(nodes, node)
		}
	}
	g.RemoveAll(nodes)
}

// orderByKeys reorders children of g so keyed children follow keys.
// Unkeyed or unknown children keep their place at the end.
func orderByKeys(g *scene.Node, keys []string) {
	pos := make(map[string]int, len(keys))
	for i, k := range keys {
		pos[k] = i
	}
	ordered := make([]*scene.Node, len(keys))
	var rest []*scene.Node
	for _, ch := range g.Children {
		if i, ok := pos[ch.Key]; ok && ordered[i] == nil {
			ordered[i] = ch
		} else {
			rest = append(rest, ch)
		}
	}
	out := ordered[:0]
	for _, ch := range ordered {
		if ch != nil {
			out = append(out, ch)
		}
	}
	g.Children = append(out, rest...)
}

// maxOf returns the largest value ignoring NaN, 0 when there is none.
func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

var _ Widget = (*Bar)(nil)
