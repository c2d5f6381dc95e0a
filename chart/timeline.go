package chart

import (
	"math"
	"time"

	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/layout"
	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// Selection is a brushed pixel interval on the timeline's x axis.
type Selection struct {
	Start, End float64
}

// Width returns End - Start.
func (s Selection) Width() float64 { return s.End - s.Start }

// BrushResult is the outcome of a finished drag.
type BrushResult struct {
	Selection *Selection        // clamped selection, nil when cleared
	Range     *engine.DateRange // inverted selection, nil when cleared
	Clamped   bool              // the width was forced into bounds
}

// Timeline draws an area overview of a series with a horizontal brush.
// With zero brush bounds selections are kept as dragged.
type Timeline struct {
	base
	x         *scale.Time
	y         *scale.Linear
	xAxis     *scene.Node
	area      *scene.Node
	brush     *scene.Node
	selection *scene.Node
	current   *Selection
}

// NewTimeline allocates the axis, area and brush shells.
func NewTimeline(cfg Config, opts ...Option) (*Timeline, error) {
	o := applyOptions(0, opts)
	b, err := newBase("timeline", cfg, o)
	if err != nil {
		return nil, err
	}
	w, h := cfg.PlotWidth(), cfg.PlotHeight()
	epoch := time.Unix(0, 0).UTC()
	c := &Timeline{
		base: b,
		x:    scale.NewTime(epoch, epoch, 0, w),
		y:    scale.NewLinear(0, 1, h, 0),
	}
	c.xAxis = c.plot.Group("x axis")
	c.xAxis.Transform = scene.Transform{TY: h}

	c.brush = c.plot.Group("brush")
	overlay := c.brush.Add(scene.KindRect, "overlay")
	overlay.Width, overlay.Height = w, h
	overlay.Style.Opacity = 0
	overlay.Style.Cursor = "crosshair"
	c.selection = c.brush.Add(scene.KindRect, "selection")
	c.selection.Height = h
	c.selection.Style.Fill = "#777777"
	c.selection.Style.Stroke = "#ffffff"
	c.selection.Style.Opacity = 0.3
	c.selection.Hidden = true

	c.area = c.plot.Add(scene.KindPath, "area")
	c.area.Style.Fill = "#808080"
	return c, nil
}

// Update redraws the area of property over time. Records without a date
// or with a zero property are left out.
func (c *Timeline) Update(view engine.RecordView, property string) error {
	points := engine.CleanSeries(view, c.opts.dateField, property)
	lo, hi, _ := engine.Extent(points)
	c.x.SetDomain(lo, hi)
	c.y.SetDomain(0, engine.MaxValue(points)*1.005)

	w, h := c.cfg.PlotWidth(), c.cfg.PlotHeight()
	drawAxisBottom(c.xAxis, 0, w, timeTicks(c.x, 4))

	xs := make([]float64, len(points))
	y0 := make([]float64, len(points))
	y1 := make([]float64, len(points))
	for i, p := range points {
		xs[i], y0[i], y1[i] = c.x.Map(p.Date), h, c.y.Map(p.Value)
	}
	c.area.Path = layout.AreaPath(xs, y0, y1)

	c.opts.logger.Debug("timeline: update", "property", property, "points", len(points))
	return nil
}

// Clamp normalizes a raw selection: ordered ends, width forced into the
// brush bounds by growing or shrinking around its center, then shifted to
// lie inside the plot. The second result reports whether the width changed.
func (c *Timeline) Clamp(sel Selection) (Selection, bool) {
	w := c.cfg.PlotWidth()
	if sel.End < sel.Start {
		sel.Start, sel.End = sel.End, sel.Start
	}
	clamped := false
	center := (sel.Start + sel.End) / 2
	width := sel.Width()
	if lo := c.opts.brushMin; lo > 0 && width < lo {
		width, clamped = lo, true
	}
	if hi := c.opts.brushMax; hi > 0 && width > hi {
		width, clamped = hi, true
	}
	width = math.Min(width, w)
	if clamped {
		sel = Selection{Start: center - width/2, End: center + width/2}
	}
	if sel.Start < 0 {
		sel.End -= sel.Start
		sel.Start = 0
	}
	if sel.End > w {
		sel.Start -= sel.End - w
		sel.End = w
	}
	sel.Start = math.Max(sel.Start, 0)
	return sel, clamped
}

// Invert converts a pixel selection into the date range it covers.
func (c *Timeline) Invert(sel Selection) engine.DateRange {
	return engine.DateRange{Start: c.x.Invert(sel.Start), End: c.x.Invert(sel.End)}
}

// OnBrush reports an in-progress drag without clamping. A nil selection
// reports a cleared brush.
func (c *Timeline) OnBrush(sel *Selection) *engine.DateRange {
	var r *engine.DateRange
	if sel != nil {
		inv := c.Invert(*sel)
		r = &inv
	}
	c.drawSelection(sel)
	c.notify(r)
	return r
}

// OnDragEnd clamps the final selection, redraws the brush and reports the
// inverted range to the OnBrush callback.
func (c *Timeline) OnDragEnd(sel *Selection) BrushResult {
	if sel == nil {
		c.current = nil
		c.drawSelection(nil)
		c.notify(nil)
		return BrushResult{}
	}
	clamped, changed := c.Clamp(*sel)
	r := c.Invert(clamped)
	c.current = &clamped
	c.drawSelection(&clamped)
	c.notify(&r)
	if changed {
		c.opts.logger.Debug("timeline: brush clamped", "from", sel.Width(), "to", clamped.Width())
	}
	return BrushResult{Selection: &clamped, Range: &r, Clamped: changed}
}

// ResetBrush clears the selection without notifying the host.
func (c *Timeline) ResetBrush() {
	c.current = nil
	c.drawSelection(nil)
}

// Selection returns the settled selection, nil when none.
func (c *Timeline) Selection() *Selection {
	if c.current == nil {
		return nil
	}
	s := *c.current
	return &s
}

func (c *Timeline) drawSelection(sel *Selection) {
	if sel == nil {
		c.selection.Hidden = true
		return
	}
	c.selection.Hidden = false
	c.selection.X = math.Min(sel.Start, sel.End)
	c.selection.Width = math.Abs(sel.Width())
}

func (c *Timeline) notify(r *engine.DateRange) {
	if c.opts.callbacks.OnBrush != nil {
		c.opts.callbacks.OnBrush(r)
	}
}

// Scales exposes the current x and y scales.
func (c *Timeline) Scales() (*scale.Time, *scale.Linear) { return c.x, c.y }

var _ Widget = (*Timeline)(nil)
