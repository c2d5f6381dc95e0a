package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/join"
	"github.com/spektr-org/vizkit/layout"
)

func canvas() Config {
	return Config{Width: 600, Height: 400, Margins: Margins{Left: 50, Right: 50, Top: 20, Bottom: 80}}
}

func rec(dims map[string]string, measures map[string]float64) engine.Record {
	return engine.Record{Dimensions: dims, Measures: measures}
}

// ============================================================================
// 1. CONFIG
// ============================================================================

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"zero width", Config{Height: 10}, "width"},
		{"zero height", Config{Width: 10}, "height"},
		{"margins eat width", Config{Width: 100, Height: 100, Margins: Margins{Left: 60, Right: 40}}, "margins"},
		{"margins eat height", Config{Width: 100, Height: 100, Margins: Margins{Top: 100}}, "margins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfig))
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
	assert.NoError(t, canvas().Validate())
	assert.Equal(t, 500.0, canvas().PlotWidth())
	assert.Equal(t, 300.0, canvas().PlotHeight())
}

func TestNewWidgetRejectsBadConfig(t *testing.T) {
	_, err := NewBar(Config{})
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewDonut(Config{Width: 10})
	assert.ErrorIs(t, err, ErrConfig)
}

// ============================================================================
// 2. FORMATTING
// ============================================================================

func TestFormatAbbreviation(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234, "$1.2K"},
		{3.4e9, "$3.4B"},
		{500, "$500"},
		{0, "$0.0"},
		{25e6, "$25M"},
		{0.5, "$0.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAbbreviation(tt.in), "FormatAbbreviation(%v)", tt.in)
	}
}

func TestCommasAndCurrency(t *testing.T) {
	assert.Equal(t, "1,234,567", Commas(1234567))
	assert.Equal(t, "12", Commas(12))
	assert.Equal(t, "$1,000", Currency(1000))
	assert.Equal(t, "-$5", Currency(-5))
}

// ============================================================================
// 3. BAR
// ============================================================================

func TestBarUpdateIsKeyed(t *testing.T) {
	c, err := NewBar(canvas())
	require.NoError(t, err)

	view := engine.NewSliceView([]engine.Record{
		rec(map[string]string{"month": "jan"}, map[string]float64{"sales": 10}),
		rec(map[string]string{"month": "feb"}, map[string]float64{"sales": 20}),
	})
	require.NoError(t, c.Update(view, "month", "sales"))

	bars := c.Root().SelectAll("bar")
	require.Len(t, bars, 2)
	feb := c.bars.ByKey("feb")
	require.NotNil(t, feb)

	_, y := c.Scales()
	lo, hi := y.Domain()
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 22.0, hi, 1e-9)
	// Bars grow up from the baseline.
	assert.InDelta(t, canvas().PlotHeight(), feb.Y+feb.Height, 1e-9)
	assert.Greater(t, feb.Height, c.bars.ByKey("jan").Height)
	assert.Equal(t, BarFill, feb.Style.Fill)

	view = engine.NewSliceView([]engine.Record{
		rec(map[string]string{"month": "feb"}, map[string]float64{"sales": 5}),
		rec(map[string]string{"month": "mar"}, map[string]float64{"sales": 50}),
	})
	require.NoError(t, c.Update(view, "month", "sales"))

	assert.Same(t, feb, c.bars.ByKey("feb"), "surviving bar keeps its node")
	assert.Nil(t, c.bars.ByKey("jan"))
	assert.Len(t, c.Root().SelectAll("bar"), 2)
	assert.Equal(t, "feb", c.bars.Children[0].Key)
}

func TestBarDuplicateKeysLeaveChartUntouched(t *testing.T) {
	c, err := NewBar(canvas())
	require.NoError(t, err)
	require.NoError(t, c.Update(engine.NewSliceView([]engine.Record{
		rec(map[string]string{"month": "jan"}, map[string]float64{"sales": 10}),
	}), "month", "sales"))
	x, y := c.Scales()
	ticks := len(c.xAxis.SelectAll("tick"))

	err = c.Update(engine.NewSliceView([]engine.Record{
		rec(map[string]string{"month": "feb"}, map[string]float64{"sales": 100}),
		rec(map[string]string{"month": "feb"}, map[string]float64{"sales": 200}),
	}), "month", "sales")
	require.ErrorIs(t, err, join.ErrDuplicateKey)

	assert.Equal(t, []string{"jan"}, x.Domain())
	_, hi := y.Domain()
	assert.InDelta(t, 11.0, hi, 1e-9)
	assert.Len(t, c.xAxis.SelectAll("tick"), ticks)
	assert.NotNil(t, c.bars.ByKey("jan"))
}

func TestMaxOfIgnoresNaN(t *testing.T) {
	assert.Equal(t, 7.0, maxOf([]float64{math.NaN(), 4, 7}))
	assert.Zero(t, maxOf([]float64{math.NaN()}))
	assert.Zero(t, maxOf(nil))
}

func TestBarTransitionTweensHeight(t *testing.T) {
	c, err := NewBar(canvas(), WithTransition(100*time.Millisecond))
	require.NoError(t, err)
	one := func(v float64) engine.RecordView {
		return engine.NewSliceView([]engine.Record{
			rec(map[string]string{"k": "a"}, map[string]float64{"m": v}),
			rec(map[string]string{"k": "b"}, map[string]float64{"m": 10}),
		})
	}
	require.NoError(t, c.Update(one(10), "k", "m"))
	a := c.bars.ByKey("a")
	before := a.Height

	require.NoError(t, c.Update(one(1), "k", "m"))
	assert.InDelta(t, before, a.Height, 1e-9, "update starts from the previous geometry")
	assert.False(t, c.Frame(50*time.Millisecond))
	mid := a.Height
	Settle(c)
	assert.Less(t, a.Height, mid)
	assert.Less(t, mid, before)
}

// ============================================================================
// 4. DONUT
// ============================================================================

func donutColors() ColorMap {
	return ColorMap{{Key: "a", Color: "#111111"}, {Key: "b", Color: "#222222"}, {Key: "c", Color: "#333333"}}
}

func donutView(pairs map[string]float64) engine.RecordView {
	var records []engine.Record
	for _, k := range []string{"a", "b", "c", "d"} {
		if v, ok := pairs[k]; ok {
			records = append(records, rec(map[string]string{"team": k}, map[string]float64{"units": v}))
		}
	}
	return engine.NewSliceView(records)
}

func TestDonutMissingCategoryKeepsCanonicalSlot(t *testing.T) {
	c, err := NewDonut(canvas(), WithColorMap(donutColors()))
	require.NoError(t, err)

	require.NoError(t, c.Update(donutView(map[string]float64{"a": 1, "c": 1}), "team", "units"))

	keys := []string{}
	for _, n := range c.arcs.Children {
		keys = append(keys, n.Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	b, ok := c.Arc("b")
	require.True(t, ok)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, b.StartAngle, b.EndAngle, "missing category is an empty slice")
	assert.Equal(t, "#222222", c.arcs.ByKey("b").Style.Fill)
	assert.Len(t, c.legend.SelectAll("legend-row"), 3)
}

func TestDonutTweensFromPreviousAngles(t *testing.T) {
	c, err := NewDonut(canvas(), WithColorMap(donutColors()))
	require.NoError(t, err)
	require.NoError(t, c.Update(donutView(map[string]float64{"a": 1, "b": 1, "c": 2}), "team", "units"))
	node := c.arcs.ByKey("a")
	first := node.Path.String()

	require.NoError(t, c.Update(donutView(map[string]float64{"a": 3, "b": 1, "c": 0}), "team", "units"))
	assert.Equal(t, first, node.Path.String(), "tween starts at the old arc")

	c.Frame(DonutTransition / 2)
	mid := node.Path.String()
	assert.NotEqual(t, first, mid)

	Settle(c)
	want, _ := c.Arc("a")
	assert.Equal(t, layout.ArcPath(want, c.inner, c.outer).String(), node.Path.String())
	assert.NotEqual(t, mid, node.Path.String())
}

func TestDonutUnknownCategoryAppendedWithFallbackColor(t *testing.T) {
	c, err := NewDonut(canvas(), WithColorMap(donutColors()))
	require.NoError(t, err)
	require.NoError(t, c.Update(donutView(map[string]float64{"a": 1, "d": 1}), "team", "units"))

	d, ok := c.Arc("d")
	require.True(t, ok)
	assert.Equal(t, 3, d.Index)
	assert.NotEmpty(t, c.arcs.ByKey("d").Style.Fill)
}

func TestDonutRadii(t *testing.T) {
	c, err := NewDonut(canvas(), WithColorMap(donutColors()), WithRadii(40, 90))
	require.NoError(t, err)
	assert.Equal(t, 40.0, c.inner)
	assert.Equal(t, 90.0, c.outer)
}

// ============================================================================
// 5. LINE + TOOLTIP
// ============================================================================

func priceView() engine.RecordView {
	return engine.NewSliceView([]engine.Record{
		rec(map[string]string{"date": "01/01/2020"}, map[string]float64{"price_usd": 100}),
		rec(map[string]string{"date": "02/01/2020"}, map[string]float64{"price_usd": 200}),
		rec(map[string]string{"date": "03/01/2020"}, map[string]float64{"price_usd": 0}),
		rec(map[string]string{"date": "04/01/2020"}, map[string]float64{"price_usd": 1500}),
		rec(map[string]string{"date": "garbage"}, map[string]float64{"price_usd": 9}),
	})
}

func TestLinePlotCleansSeries(t *testing.T) {
	c, err := NewLinePlot(canvas())
	require.NoError(t, err)
	require.NoError(t, c.Update(priceView(), "price_usd", nil))

	assert.Len(t, c.Points(), 3, "zero and undated rows are dropped")
	assert.Equal(t, "Price ($)", c.yLabel.Text)
	_, y := c.Scales()
	_, hi := y.Domain()
	assert.InDelta(t, 1500*1.005, hi, 1e-9)
	assert.False(t, c.path.Path.Empty())
}

func TestLinePlotTooltipSnapsToNearestDate(t *testing.T) {
	c, err := NewLinePlot(canvas())
	require.NoError(t, err)
	require.NoError(t, c.Update(priceView(), "price_usd", nil))

	x, _ := c.Scales()
	jan2 := c.Points()[1].Date
	px := x.Map(jan2.Add(10 * time.Hour))

	st := c.OnPointerMove(px)
	require.True(t, st.Visible)
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, 200.0, st.Point.Value)
	assert.Equal(t, "$200", st.Label)
	assert.False(t, c.focus.Hidden)
	assert.InDelta(t, x.Map(jan2), c.focus.Transform.TX, 1e-9)

	st = c.OnPointerLeave()
	assert.False(t, st.Visible)
	assert.True(t, c.focus.Hidden)
}

func TestLinePlotDateRange(t *testing.T) {
	c, err := NewLinePlot(canvas(), WithMetricLabels(map[string]string{"price_usd": "Cost"}))
	require.NoError(t, err)
	start, _ := engine.ParseDate("02/01/2020")
	end, _ := engine.ParseDate("04/01/2020")
	require.NoError(t, c.Update(priceView(), "price_usd", &engine.DateRange{Start: start, End: end}))

	assert.Len(t, c.Points(), 2)
	assert.Equal(t, "Cost ($)", c.yLabel.Text)
}

func TestLineAndTimelineReadTheConfiguredDateField(t *testing.T) {
	view := engine.NewSliceView([]engine.Record{
		rec(map[string]string{"day": "01/01/2020"}, map[string]float64{"price_usd": 100}),
		rec(map[string]string{"day": "02/01/2020"}, map[string]float64{"price_usd": 200}),
	})

	line, err := NewLinePlot(canvas(), WithDateField("day"))
	require.NoError(t, err)
	require.NoError(t, line.Update(view, "price_usd", nil))
	assert.Len(t, line.Points(), 2)
	assert.NotEmpty(t, line.path.Path.Segments)
	assert.Equal(t, 1, line.OnPointerMove(canvas().PlotWidth()).Index)

	tl, err := NewTimeline(canvas(), WithDateField("day"))
	require.NoError(t, err)
	require.NoError(t, tl.Update(view, "price_usd"))
	assert.NotEmpty(t, tl.area.Path.Segments)

	plain, err := NewLinePlot(canvas(), WithDateField(""))
	require.NoError(t, err)
	require.NoError(t, plain.Update(priceView(), "price_usd", nil))
	assert.Len(t, plain.Points(), 3, "empty field keeps the date default")
}

func TestLinePlotEmptySeriesHidesTooltip(t *testing.T) {
	c, err := NewLinePlot(canvas())
	require.NoError(t, err)
	require.NoError(t, c.Update(engine.NewSliceView(nil), "price_usd", nil))
	assert.Equal(t, -1, c.OnPointerMove(10).Index)
}

// ============================================================================
// 6. STACKED AREA
// ============================================================================

func TestStackedAreaLayersFollowColorMap(t *testing.T) {
	c, err := NewStackedArea(canvas(), WithColorMap(donutColors()))
	require.NoError(t, err)

	d1, _ := engine.ParseDate("01/01/2020")
	d2, _ := engine.ParseDate("02/01/2020")
	aggs := []engine.Aggregate{
		{Key: "01/01/2020", Date: d1, Sub: map[string]engine.Sums{"a": {"units": 1}, "b": {"units": 2}, "c": {"units": 3}}},
		{Key: "02/01/2020", Date: d2, Sub: map[string]engine.Sums{"a": {"units": 4}, "c": {"units": 1}}},
	}
	require.NoError(t, c.Update(aggs, "units", 6, nil))

	teams := c.layers.Children
	require.Len(t, teams, 3)
	assert.Equal(t, "a", teams[0].Key)
	assert.True(t, teams[2].HasClass("team"))
	area := teams[1].Select("area")
	require.NotNil(t, area)
	assert.Equal(t, "#222222", area.Style.Fill)
	assert.Equal(t, 0.5, area.Style.Opacity)

	_, y := c.Scales()
	_, hi := y.Domain()
	assert.Equal(t, 6.0, hi)

	require.NoError(t, c.Update(aggs, "units", 6, &engine.DateRange{Start: d2, End: d2}))
	assert.Same(t, teams[0], c.layers.ByKey("a"))
}
