package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/vizkit/chart"
	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/helpers"
	"github.com/spektr-org/vizkit/schema"
)

// ============================================================================
// DASHBOARD — YAML description of the widgets to render
// ============================================================================

// Dashboard is the top-level YAML document.
type Dashboard struct {
	Title   string   `yaml:"title"`
	Widgets []Widget `yaml:"widgets"`
}

// Range is a DD/MM/YYYY date interval.
type Range struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Brush is a pixel selection applied to a timeline after its update.
type Brush struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Widget is one chart of the dashboard. Fields a widget type does not use
// are ignored.
type Widget struct {
	Name   string       `yaml:"name"`
	Type   string       `yaml:"type"` // bar, donut, line, stacked, timeline, scatter, map
	Data   string       `yaml:"data"`
	Schema string       `yaml:"schema"` // builtin name or schema file; inferred when empty
	Config chart.Config `yaml:"config"`

	Colors     chart.ColorMap      `yaml:"colors"`
	Filters    map[string][]string `yaml:"filters"`
	Range      *Range              `yaml:"range"`
	Transition time.Duration       `yaml:"transition"`
	At         *time.Duration      `yaml:"at"` // frame to render, settled when unset

	Key         string `yaml:"key"`
	Measure     string `yaml:"measure"`
	Aggregation string `yaml:"aggregation"`
	Sort        string `yaml:"sort"`
	Limit       int    `yaml:"limit"`

	Brush *Brush `yaml:"brush"`

	Year      string `yaml:"year"`
	Continent string `yaml:"continent"`
	Selected  string `yaml:"selected"`

	Regions string `yaml:"regions"`
	Race    string `yaml:"race"`
}

// LoadDashboard reads and checks a dashboard file.
func LoadDashboard(path string) (*Dashboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Dashboard
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dashboard %s: %w", path, err)
	}
	base := filepath.Dir(path)
	seen := make(map[string]bool)
	for i := range d.Widgets {
		w := &d.Widgets[i]
		if w.Name == "" {
			w.Name = fmt.Sprintf("%s-%d", w.Type, i+1)
		}
		if seen[w.Name] {
			return nil, fmt.Errorf("dashboard %s: duplicate widget name %q", path, w.Name)
		}
		seen[w.Name] = true
		w.Data = resolveURI(base, w.Data)
		w.Regions = resolveURI(base, w.Regions)
		if w.Schema != "" && strings.ContainsAny(w.Schema, "./") {
			w.Schema = filepath.Join(base, w.Schema)
		}
	}
	return &d, nil
}

// resolveURI makes a bare relative path relative to the dashboard file.
func resolveURI(base, uri string) string {
	if uri == "" || strings.Contains(uri, "://") || filepath.IsAbs(uri) {
		return uri
	}
	return filepath.Join(base, uri)
}

func (w Widget) dateRange() (*engine.DateRange, error) {
	if w.Range == nil {
		return nil, nil
	}
	start, ok := engine.ParseDate(w.Range.Start)
	if !ok {
		return nil, fmt.Errorf("widget %s: bad range start %q", w.Name, w.Range.Start)
	}
	end, ok := engine.ParseDate(w.Range.End)
	if !ok {
		return nil, fmt.Errorf("widget %s: bad range end %q", w.Name, w.Range.End)
	}
	return &engine.DateRange{Start: start, End: end}, nil
}

func (w Widget) schema() (*schema.Config, error) {
	switch {
	case w.Schema == "":
		return nil, nil
	case strings.ContainsAny(w.Schema, "./"):
		data, err := os.ReadFile(w.Schema)
		if err != nil {
			return nil, err
		}
		return schema.Parse(data)
	default:
		return schema.Builtin(w.Schema)
	}
}

func (w Widget) options() []chart.Option {
	opts := []chart.Option{chart.WithLogger(logger.With("widget", w.Name))}
	if w.Transition > 0 {
		opts = append(opts, chart.WithTransition(w.Transition))
	}
	if len(w.Colors) > 0 {
		opts = append(opts, chart.WithColorMap(w.Colors))
	}
	if w.Brush != nil {
		opts = append(opts, chart.WithBrushBounds(w.Brush.Min, w.Brush.Max))
	}
	return opts
}

// ============================================================================
// BUILD
// ============================================================================

// Build loads a widget's data and returns the updated chart.
func Build(ctx context.Context, r *helpers.Reader, w Widget) (chart.Widget, error) {
	switch w.Type {
	case "scatter":
		return buildScatter(ctx, r, w)
	case "map":
		return buildMap(ctx, r, w)
	}

	sch, err := w.schema()
	if err != nil {
		return nil, err
	}
	ds, err := r.Load(ctx, w.Data, sch)
	if err != nil {
		return nil, err
	}
	rng, err := w.dateRange()
	if err != nil {
		return nil, err
	}
	opts := ds.Schema.EngineOptions()
	view := engine.ApplyFilters(ds.View(), engine.Filters{Dimensions: w.Filters})
	measure := w.Measure
	if measure == "" {
		measure = ds.Schema.GetDefaultMeasure()
	}
	dateDim := ds.Schema.DateDimension()

	switch w.Type {
	case "bar":
		c, err := chart.NewBar(w.Config, w.options()...)
		if err != nil {
			return nil, err
		}
		agg := w.Aggregation
		if agg == "" {
			agg = "sum"
		}
		groups := engine.GroupAndAggregate(view, []string{w.Key}, measure, agg, w.Sort, w.Limit, opts...)
		return c, c.Update(groupView(groups, w.Key, measure), w.Key, measure)

	case "donut":
		c, err := chart.NewDonut(w.Config, w.options()...)
		if err != nil {
			return nil, err
		}
		ranged := engine.FilterDateRange(view, dateDim, rng)
		aggs := engine.GroupAndSum(ranged, []string{w.Key}, []string{measure}, opts...)
		return c, c.Update(aggregateView(aggs, w.Key), w.Key, measure)

	case "line":
		c, err := chart.NewLinePlot(w.Config, append(w.options(), chart.WithDateField(dateDim))...)
		if err != nil {
			return nil, err
		}
		return c, c.Update(view, measure, rng)

	case "stacked":
		c, err := chart.NewStackedArea(w.Config, w.options()...)
		if err != nil {
			return nil, err
		}
		aggs := engine.AggregateOnDate(view, opts...)
		yMax := engine.FindMaxSums(aggs, w.Colors.Keys())[measure]
		return c, c.Update(aggs, measure, yMax, rng)

	case "timeline":
		c, err := chart.NewTimeline(w.Config, append(w.options(), chart.WithDateField(dateDim))...)
		if err != nil {
			return nil, err
		}
		if err := c.Update(view, measure); err != nil {
			return nil, err
		}
		if w.Brush != nil && w.Brush.End != w.Brush.Start {
			res := c.OnDragEnd(&chart.Selection{Start: w.Brush.Start, End: w.Brush.End})
			logger.Info("timeline brushed",
				"widget", w.Name,
				"start", engine.FormatDate(res.Range.Start),
				"end", engine.FormatDate(res.Range.End),
				"clamped", res.Clamped)
		}
		return c, nil
	}
	return nil, fmt.Errorf("widget %s: unknown type %q", w.Name, w.Type)
}

func buildScatter(ctx context.Context, r *helpers.Reader, w Widget) (chart.Widget, error) {
	years, err := helpers.ReadJSON[[]chart.YearData](ctx, r, w.Data)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("widget %s: no years in %s", w.Name, w.Data)
	}
	year := years[0]
	for _, y := range years {
		if y.Year == w.Year {
			year = y
		}
	}
	c, err := chart.NewScatter(w.Config, w.options()...)
	if err != nil {
		return nil, err
	}
	if err := c.Update(year, w.Selected, w.Continent); err != nil {
		return nil, err
	}
	if w.Selected != "" {
		c.UpdateInfo(w.Selected)
	}
	return c, nil
}

func buildMap(ctx context.Context, r *helpers.Reader, w Widget) (chart.Widget, error) {
	var regions []chart.Region
	if w.Regions != "" {
		var err error
		regions, err = helpers.ReadJSON[[]chart.Region](ctx, r, w.Regions)
		if err != nil {
			return nil, err
		}
	}
	c, err := chart.NewMap(w.Config, regions, w.options()...)
	if err != nil {
		return nil, err
	}
	if w.Data == "" {
		return c, nil
	}
	points, err := helpers.ReadJSON[[]chart.CensusPoint](ctx, r, w.Data)
	if err != nil {
		return nil, err
	}
	return c, c.Update(points, w.Race)
}

// groupView turns aggregated groups into one record per group.
func groupView(groups []engine.Group, key, measure string) engine.RecordView {
	records := make([]engine.Record, len(groups))
	for i, g := range groups {
		records[i] = engine.Record{
			Dimensions: map[string]string{key: g.Key},
			Measures:   map[string]float64{measure: g.Value},
		}
	}
	return engine.NewSliceView(records)
}

// aggregateView turns GroupAndSum output into one record per group.
func aggregateView(aggs []engine.Aggregate, key string) engine.RecordView {
	records := make([]engine.Record, len(aggs))
	for i, a := range aggs {
		records[i] = engine.Record{
			Dimensions: map[string]string{key: a.Key},
			Measures:   a.Sums,
		}
	}
	return engine.NewSliceView(records)
}
