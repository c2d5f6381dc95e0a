package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spektr-org/vizkit/join"
	"github.com/spektr-org/vizkit/layout"
	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// ============================================================================
// PROJECTION
// ============================================================================

// Projector maps longitude and latitude to canvas coordinates.
type Projector interface {
	Project(lon, lat float64) (x, y float64)
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(lon, lat float64) (float64, float64)

func (f ProjectorFunc) Project(lon, lat float64) (float64, float64) { return f(lon, lat) }

// FitProjector is a plate carrée projection scaled and centered so a
// bounding box fills the canvas.
type FitProjector struct {
	k      float64
	tx, ty float64
}

// FitBounds fits every ring into a width x height canvas.
func FitBounds(width, height float64, rings ...[][2]float64) *FitProjector {
	minLon, minLat := math.Inf(1), math.Inf(1)
	maxLon, maxLat := math.Inf(-1), math.Inf(-1)
	for _, ring := range rings {
		for _, pt := range ring {
			minLon, maxLon = math.Min(minLon, pt[0]), math.Max(maxLon, pt[0])
			minLat, maxLat = math.Min(minLat, pt[1]), math.Max(maxLat, pt[1])
		}
	}
	if math.IsInf(minLon, 1) {
		return &FitProjector{k: 1, tx: width / 2, ty: height / 2}
	}
	dx, dy := maxLon-minLon, maxLat-minLat
	k := math.Inf(1)
	if dx > 0 {
		k = width / dx
	}
	if dy > 0 {
		k = math.Min(k, height/dy)
	}
	if math.IsInf(k, 1) {
		k = 1
	}
	return &FitProjector{
		k:  k,
		tx: width/2 - k*(minLon+maxLon)/2,
		ty: height/2 + k*(minLat+maxLat)/2,
	}
}

func (p *FitProjector) Project(lon, lat float64) (float64, float64) {
	return p.tx + p.k*lon, p.ty - p.k*lat
}

// ============================================================================
// MAP
// ============================================================================

// Race is one census category with its point color.
type Race struct {
	Key   string
	Label string
	Color string
}

// Races in legend order.
var Races = []Race{
	{Key: "black1nh", Label: "Black", Color: "#3899c9"},
	{Key: "hisp", Label: "Hispanic", Color: "#fff07c"},
	{Key: "white1nh", Label: "White", Color: "#fb3640"},
	{Key: "asianpi1nh", Label: "Asian / Pacific Islander", Color: "#89ffa7"},
	{Key: "native1nh", Label: "Native", Color: "#e8800c"},
	{Key: "other1nh", Label: "Other", Color: "#a799b7"},
}

// RaceColor returns the point color of a race key.
func RaceColor(key string) (string, bool) {
	for _, r := range Races {
		if r.Key == key {
			return r.Color, true
		}
	}
	return "", false
}

// Region is a named polygon, optionally carrying a value for choropleth
// shading. Rings are lon/lat pairs.
type Region struct {
	Name  string         `json:"name"`
	Rings [][][2]float64 `json:"rings"`
	Value *float64       `json:"value,omitempty"`
}

// CensusPoint is one dot of the dot-density layer.
type CensusPoint struct {
	ID    string  `json:"id"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Color string  `json:"color"`
}

type pin struct {
	Key   string
	X, Y  float64
	Color string
}

// Map draws region outlines once and a keyed point layer per update.
type Map struct {
	base
	proj    Projector
	regions *scene.Node
	points  *scene.Node
	marks   *join.Reconciler[string, pin]
}

// PointRadius is the dot-density point size.
const PointRadius = 0.25

// NewMap projects and draws the regions. Regions that carry values are
// shaded on the viridis ramp; the rest are white.
func NewMap(cfg Config, regions []Region, opts ...Option) (*Map, error) {
	o := applyOptions(0, opts)
	b, err := newBase("map", cfg, o)
	if err != nil {
		return nil, err
	}
	w, h := cfg.PlotWidth(), cfg.PlotHeight()
	proj := o.projector
	if proj == nil {
		var rings [][][2]float64
		for _, r := range regions {
			rings = append(rings, r.Rings...)
		}
		proj = FitBounds(w, h, rings...)
	}

	c := &Map{
		base:    b,
		proj:    proj,
		regions: b.plot.Group("regions"),
		marks:   join.New[string, pin]("map"),
	}
	c.drawRegions(regions)
	c.points = c.plot.Group("points")

	legend := c.plot.Group("legend")
	legend.Transform = scene.Transform{TX: w - 200, TY: 10}
	rows := make([]legendRow, len(Races))
	for i, r := range Races {
		rows[i] = legendRow{Label: r.Label, Color: r.Color}
	}
	drawLegend(legend, rows, 20, false)
	return c, nil
}

func (c *Map) drawRegions(regions []Region) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range regions {
		if r.Value != nil {
			lo, hi = math.Min(lo, *r.Value), math.Max(hi, *r.Value)
		}
	}
	for _, r := range regions {
		node := c.regions.AddKeyed(scene.KindPath, "region", r.Name)
		for _, ring := range r.Rings {
			projected := make([][2]float64, len(ring))
			for i, pt := range ring {
				x, y := c.proj.Project(pt[0], pt[1])
				projected[i] = [2]float64{x, y}
			}
			node.Path.Segments = append(node.Path.Segments, layout.RingPath(projected).Segments...)
		}
		node.Style.Fill = "#ffffff"
		node.Style.Stroke = "#808080"
		if r.Value != nil {
			t := 0.5
			if hi > lo {
				t = (*r.Value - lo) / (hi - lo)
			}
			node.Style.Fill = scale.Viridis(t)
		}
	}
}

// Update projects points and joins them by ID. race filters points to one
// Races key unless it is "all" or empty.
func (c *Map) Update(points []CensusPoint, race string) error {
	color := ""
	if race != "" && race != "all" {
		col, ok := RaceColor(race)
		if !ok {
			return fmt.Errorf("chart: map race %q: %w", race, scale.ErrUnknownKey)
		}
		color = col
	}

	pins := make([]pin, 0, len(points))
	for i, p := range points {
		if color != "" && p.Color != color {
			continue
		}
		key := p.ID
		if key == "" {
			key = "#" + strconv.Itoa(i)
		}
		x, y := c.proj.Project(p.Lon, p.Lat)
		pins = append(pins, pin{Key: key, X: x, Y: y, Color: p.Color})
	}

	res, err := c.marks.Reconcile(pins, func(p pin) string { return p.Key })
	if err != nil {
		return err
	}
	removeExits(c.points, res.Exit)
	for _, m := range res.Merged() {
		node := c.points.ByKey(m.Key)
		if node == nil {
			node = c.points.AddKeyed(scene.KindCircle, "point", m.Key)
			node.R = PointRadius
		}
		node.X, node.Y = m.To.X, m.To.Y
		node.Style.Fill = m.To.Color
	}
	orderByKeys(c.points, res.Keys())

	c.opts.logger.Debug("map: update", "race", race, "points", len(pins), "exit", len(res.Exit))
	return nil
}

var _ Widget = (*Map)(nil)
