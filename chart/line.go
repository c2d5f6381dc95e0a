package chart

import (
	"fmt"
	"time"

	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/layout"
	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// MetricLabels maps crypto metrics to their display names.
var MetricLabels = map[string]string{
	"price_usd":  "Price",
	"market_cap": "Market Cap",
	"24h_vol":    "Daily Volume",
}

// TooltipState is what the tooltip shows after a pointer move.
type TooltipState struct {
	Visible bool
	Index   int
	Point   engine.Point
	X, Y    float64 // plot coordinates of the focused point
	Label   string
}

// LinePlot draws a single time series as one path with a hover tooltip.
type LinePlot struct {
	base
	x          *scale.Time
	y          *scale.Linear
	xAxis      *scene.Node
	yAxis      *scene.Node
	yLabel     *scene.Node
	path       *scene.Node
	focus      *scene.Node
	xHoverLine *scene.Node
	yHoverLine *scene.Node
	tipValue   *scene.Node
	overlay    *scene.Node
	ranged     []engine.Point
	dates      []time.Time
	labels     map[string]string
}

// NewLinePlot allocates the line, axes, axis title and tooltip shells.
func NewLinePlot(cfg Config, opts ...Option) (*LinePlot, error) {
	o := applyOptions(0, opts)
	b, err := newBase("line-plot", cfg, o)
	if err != nil {
		return nil, err
	}
	w, h := cfg.PlotWidth(), cfg.PlotHeight()
	epoch := time.Unix(0, 0).UTC()
	c := &LinePlot{
		base:   b,
		x:      scale.NewTime(epoch, epoch, 0, w),
		y:      scale.NewLinear(0, 1, h, 0),
		labels: make(map[string]string, len(MetricLabels)),
	}
	for k, v := range MetricLabels {
		c.labels[k] = v
	}
	for k, v := range o.metricLabels {
		c.labels[k] = v
	}

	c.path = c.plot.Add(scene.KindPath, "line")
	c.path.Style.Stroke = "#808080"
	c.path.Style.StrokeWidth = 3

	c.xAxis = c.plot.Group("x axis")
	c.xAxis.Transform = scene.Transform{TY: h}
	c.yAxis = c.plot.Group("y axis")

	c.yLabel = c.plot.Add(scene.KindText, "axis-title")
	c.yLabel.Transform = scene.Transform{TX: -50, TY: h / 2, Rotate: -90}
	c.yLabel.Style.FontSize = 16
	c.yLabel.Style.Anchor = "middle"
	c.yLabel.Style.Fill = "#5D6971"

	c.focus = c.plot.Group("focus")
	c.focus.Hidden = true
	c.xHoverLine = c.focus.Add(scene.KindLine, "x-hover-line hover-line")
	c.xHoverLine.Y2 = h
	c.xHoverLine.Style.Stroke = "#808080"
	c.yHoverLine = c.focus.Add(scene.KindLine, "y-hover-line hover-line")
	c.yHoverLine.X2 = w
	c.yHoverLine.Style.Stroke = "#808080"
	dot := c.focus.Add(scene.KindCircle, "")
	dot.R = 7.5
	dot.Style.Fill = "#808080"

	c.tipValue = c.plot.Add(scene.KindText, "tip-value")
	c.tipValue.X = 50
	c.tipValue.Style.Anchor = "end"
	c.tipValue.Hidden = true

	c.overlay = c.plot.Add(scene.KindRect, "overlay")
	c.overlay.Width, c.overlay.Height = w, h
	c.overlay.Style.Opacity = 0
	return c, nil
}

// MetricLabel returns the display name of a metric.
func (c *LinePlot) MetricLabel(metric string) string {
	if l, ok := c.labels[metric]; ok {
		return l
	}
	return metric
}

// Update cleans the records into a date series of metric, keeps the dates
// in r (all when nil), and redraws scales, axes and the line.
func (c *LinePlot) Update(view engine.RecordView, metric string, r *engine.DateRange) error {
	cleaned := engine.CleanSeries(view, c.opts.dateField, metric)
	c.ranged = engine.FilterPoints(cleaned, r)
	c.dates = make([]time.Time, len(c.ranged))
	for i, p := range c.ranged {
		c.dates[i] = p.Date
	}

	c.yLabel.Text = fmt.Sprintf("%s ($)", c.MetricLabel(metric))

	lo, hi, _ := engine.Extent(c.ranged)
	c.x.SetDomain(lo, hi)
	c.y.SetDomain(0, engine.MaxValue(c.ranged)*1.005)

	w, h := c.cfg.PlotWidth(), c.cfg.PlotHeight()
	drawAxisBottom(c.xAxis, 0, w, timeTicks(c.x, 4))
	drawAxisLeft(c.yAxis, h, 0, linearTicks(c.y, 6, FormatAbbreviation))

	xs := make([]float64, len(c.ranged))
	ys := make([]float64, len(c.ranged))
	for i, p := range c.ranged {
		xs[i], ys[i] = c.x.Map(p.Date), c.y.Map(p.Value)
	}
	c.path.Path = layout.LinePath(xs, ys)

	c.opts.logger.Debug("line: update", "metric", metric, "points", len(c.ranged), "dropped", view.Len()-len(cleaned))
	return nil
}

// Points returns the series currently drawn.
func (c *LinePlot) Points() []engine.Point { return c.ranged }

// OnPointerEnter shows the tooltip.
func (c *LinePlot) OnPointerEnter() {
	c.focus.Hidden = false
	c.tipValue.Hidden = false
}

// OnPointerLeave hides the tooltip.
func (c *LinePlot) OnPointerLeave() TooltipState {
	c.focus.Hidden = true
	c.tipValue.Hidden = true
	return TooltipState{Index: -1}
}

// OnPointerMove focuses the point nearest to plot x coordinate px.
func (c *LinePlot) OnPointerMove(px float64) TooltipState {
	i := layout.NearestTime(c.dates, c.x.Invert(px))
	if i < 0 {
		return TooltipState{Index: -1}
	}
	p := c.ranged[i]
	x, y := c.x.Map(p.Date), c.y.Map(p.Value)
	h := c.cfg.PlotHeight()

	c.OnPointerEnter()
	c.focus.Transform = scene.Transform{TX: x, TY: y}
	c.xHoverLine.Y2 = h - y
	c.yHoverLine.X2 = -x
	c.tipValue.Y = y - 15
	c.tipValue.Text = FormatAbbreviation(p.Value)

	return TooltipState{Visible: true, Index: i, Point: p, X: x, Y: y, Label: c.tipValue.Text}
}

// Scales exposes the current x and y scales.
func (c *LinePlot) Scales() (*scale.Time, *scale.Linear) { return c.x, c.y }

var _ Widget = (*LinePlot)(nil)
