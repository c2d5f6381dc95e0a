package chart

import (
	"time"

	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/join"
	"github.com/spektr-org/vizkit/layout"
	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// StackedArea stacks one area per color map key over date aggregates.
type StackedArea struct {
	base
	x      *scale.Time
	y      *scale.Linear
	xAxis  *scene.Node
	yAxis  *scene.Node
	layers *scene.Node
	marks  *join.Reconciler[string, layout.Series]
}

// NewStackedArea allocates the axes and the layer group.
func NewStackedArea(cfg Config, opts ...Option) (*StackedArea, error) {
	o := applyOptions(0, opts)
	b, err := newBase("stacked-area", cfg, o)
	if err != nil {
		return nil, err
	}
	w, h := cfg.PlotWidth(), cfg.PlotHeight()
	epoch := time.Unix(0, 0).UTC()
	c := &StackedArea{
		base:  b,
		x:     scale.NewTime(epoch, epoch, 0, w),
		y:     scale.NewLinear(0, 1, h, 0),
		marks: join.New[string, layout.Series]("stacked-area"),
	}
	c.xAxis = c.plot.Group("x axis")
	c.xAxis.Transform = scene.Transform{TY: h}
	c.yAxis = c.plot.Group("y axis")
	c.layers = c.plot.Group("layers")
	return c, nil
}

// Update stacks metric across the color map keys for every aggregate whose
// date is in r (all when nil). yMax fixes the y domain so the axis does not
// jump between ranges; pass FindMaxSums output for the metric.
func (c *StackedArea) Update(aggs []engine.Aggregate, metric string, yMax float64, r *engine.DateRange) error {
	keys := c.opts.colors.Keys()
	if err := join.Unique(keys); err != nil {
		return err
	}
	ranged := make([]engine.Aggregate, 0, len(aggs))
	for _, a := range aggs {
		if a.Date.IsZero() {
			continue
		}
		if r == nil || r.Contains(a.Date) {
			ranged = append(ranged, a)
		}
	}

	var lo, hi time.Time
	for i, a := range ranged {
		if i == 0 || a.Date.Before(lo) {
			lo = a.Date
		}
		if i == 0 || a.Date.After(hi) {
			hi = a.Date
		}
	}
	c.x.SetDomain(lo, hi)
	c.y.SetDomain(0, yMax)

	w, h := c.cfg.PlotWidth(), c.cfg.PlotHeight()
	drawAxisBottom(c.xAxis, 0, w, timeTicks(c.x, 4))
	drawAxisLeft(c.yAxis, h, 0, linearTicks(c.y, 5, nil))

	series := layout.Stack(len(ranged), keys, func(i int, k string) float64 {
		return ranged[i].Sub[k][metric]
	})

	res, err := c.marks.Reconcile(series, func(s layout.Series) string { return s.Key })
	if err != nil {
		return err
	}

	xs := make([]float64, len(ranged))
	for i, a := range ranged {
		xs[i] = c.x.Map(a.Date)
	}
	removeExits(c.layers, res.Exit)
	for _, m := range res.Merged() {
		team := c.layers.ByKey(m.Key)
		if team == nil {
			team = c.layers.AddKeyed(scene.KindGroup, "team "+m.Key, m.Key)
			area := team.Add(scene.KindPath, "area")
			area.Style.Fill, _ = c.opts.colors.Get(m.Key)
			area.Style.Opacity = 0.5
		}
		y0 := make([]float64, len(m.To.Points))
		y1 := make([]float64, len(m.To.Points))
		for i, p := range m.To.Points {
			y0[i], y1[i] = c.y.Map(p.Y0), c.y.Map(p.Y1)
		}
		team.Select("area").Path = layout.AreaPath(xs, y0, y1)
	}
	orderByKeys(c.layers, res.Keys())

	c.opts.logger.Debug("stacked-area: update", "metric", metric, "rows", len(ranged), "layers", len(keys))
	return nil
}

// Scales exposes the current x and y scales.
func (c *StackedArea) Scales() (*scale.Time, *scale.Linear) { return c.x, c.y }

var _ Widget = (*StackedArea)(nil)
