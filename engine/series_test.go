package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanSeries(t *testing.T) {
	view := NewSliceView([]Record{
		{Dimensions: map[string]string{"date": "01/01/2018"}, Measures: map[string]float64{"price_usd": 100}},
		{Dimensions: map[string]string{"date": ""}, Measures: map[string]float64{"price_usd": 50}},
		{Dimensions: map[string]string{"date": "03/01/2018"}, Measures: map[string]float64{"price_usd": 0}},
		{Dimensions: map[string]string{"date": "04/01/2018"}, Measures: map[string]float64{"price_usd": math.NaN()}},
		{Dimensions: map[string]string{"date": "05/01/2018"}, Measures: map[string]float64{}},
		{Dimensions: map[string]string{"date": "02/01/2018"}, Measures: map[string]float64{"price_usd": 120}},
	})

	points := CleanSeries(view, "date", "price_usd")
	require.Len(t, points, 2)
	assert.Equal(t, Point{Date: date(2018, time.January, 1), Value: 100}, points[0])
	assert.Equal(t, Point{Date: date(2018, time.January, 2), Value: 120}, points[1])

	lo, hi, ok := Extent(points)
	assert.True(t, ok)
	assert.Equal(t, date(2018, time.January, 1), lo)
	assert.Equal(t, date(2018, time.January, 2), hi)
	assert.Equal(t, 120.0, MaxValue(points))
}

func TestSumSeries(t *testing.T) {
	aggs := AggregateOnDate(NewSliceView(salesRecords))
	points := SumSeries(aggs, []string{"a", "b"}, "call_revenue")

	require.Len(t, points, 3)
	assert.Equal(t, 15.0, points[0].Value)
	assert.Equal(t, 26.0, points[1].Value)
	assert.Equal(t, 8.0, points[2].Value)
}

func TestFilterPointsAndEmptyExtent(t *testing.T) {
	points := SumSeries(AggregateOnDate(NewSliceView(salesRecords)), []string{"a"}, "units_sold")
	r := &DateRange{Start: date(2020, time.January, 2), End: date(2020, time.January, 2)}

	ranged := FilterPoints(points, r)
	require.Len(t, ranged, 1)
	assert.Equal(t, 4.0, ranged[0].Value)

	_, _, ok := Extent(nil)
	assert.False(t, ok)
	assert.Zero(t, MaxValue(nil))
}

func TestMaxValueIgnoresNaN(t *testing.T) {
	day := date(2020, time.January, 1)
	points := []Point{{Date: day, Value: math.NaN()}, {Date: day, Value: 4}, {Date: day, Value: math.NaN()}, {Date: day, Value: 7}}
	assert.Equal(t, 7.0, MaxValue(points))
	assert.Zero(t, MaxValue([]Point{{Date: day, Value: math.NaN()}}))
	assert.Equal(t, -2.0, MaxValue([]Point{{Date: day, Value: -2}}))
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate(" 31/12/2019 ")
	require.True(t, ok)
	assert.Equal(t, date(2019, time.December, 31), d)
	assert.Equal(t, "31/12/2019", FormatDate(d))

	_, ok = ParseDate("12/31/2019")
	assert.False(t, ok)
}
