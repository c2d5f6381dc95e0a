package layout

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPieKeepsInputOrder(t *testing.T) {
	arcs := Pie([]string{"a", "b", "c"}, []float64{1, 2, 1}, 0)
	require.Len(t, arcs, 3)

	assert.Equal(t, 0.0, arcs[0].StartAngle)
	assert.InDelta(t, math.Pi/2, arcs[0].EndAngle, 1e-12)
	assert.InDelta(t, math.Pi/2, arcs[1].StartAngle, 1e-12)
	assert.InDelta(t, 3*math.Pi/2, arcs[1].EndAngle, 1e-12)
	assert.InDelta(t, 2*math.Pi, arcs[2].EndAngle, 1e-12)
	assert.Equal(t, "b", arcs[1].Key)
}

func TestPieZeroValueKeepsPosition(t *testing.T) {
	arcs := Pie([]string{"N", "S", "E", "W"}, []float64{1, 1, 0, 2}, 0)
	assert.Equal(t, arcs[2].StartAngle, arcs[2].EndAngle)
	assert.InDelta(t, math.Pi, arcs[2].StartAngle, 1e-12)
	assert.Equal(t, 2, arcs[2].Index)
}

func TestPieAllZero(t *testing.T) {
	arcs := Pie([]string{"a", "b"}, []float64{0, 0}, 0.1)
	for _, a := range arcs {
		assert.Zero(t, a.StartAngle)
		assert.Zero(t, a.EndAngle)
	}
	assert.Empty(t, Pie(nil, nil, 0))
}

func TestLerpArc(t *testing.T) {
	a := Arc{Key: "x", Value: 0, StartAngle: 0, EndAngle: 1, PadAngle: 0}
	b := Arc{Key: "x", Value: 10, StartAngle: 2, EndAngle: 4, PadAngle: 0.2}
	mid := LerpArc(a, b, 0.5)
	assert.Equal(t, Arc{Key: "x", Value: 5, StartAngle: 1, EndAngle: 2.5, PadAngle: 0.1}, mid)
}

func TestArcPathDonut(t *testing.T) {
	p := ArcPath(Arc{StartAngle: 0, EndAngle: math.Pi / 2}, 5, 10)
	assert.Equal(t, "M0,-10A10,10,0,0,1,10,0L5,0A5,5,0,0,0,0,-5Z", p.String())
}

func TestLineAndAreaPaths(t *testing.T) {
	line := LinePath([]float64{0, 10, 20, 30}, []float64{5, math.NaN(), 7, 8})
	assert.Equal(t, "M0,5M20,7L30,8", line.String())

	area := AreaPath([]float64{0, 10}, []float64{100, 100}, []float64{50, 40})
	assert.Equal(t, "M0,50L10,40L10,100L0,100Z", area.String())
	assert.True(t, AreaPath(nil, nil, nil).Empty())
}

func TestStack(t *testing.T) {
	rows := []map[string]float64{{"a": 1, "b": 2}, {"a": 3, "b": 4}}
	series := Stack(len(rows), []string{"a", "b"}, func(i int, k string) float64 { return rows[i][k] })

	require.Len(t, series, 2)
	assert.Equal(t, []StackPoint{{0, 1}, {0, 3}}, series[0].Points)
	assert.Equal(t, []StackPoint{{1, 3}, {3, 7}}, series[1].Points)
}

func TestNearestTime(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }
	dates := []time.Time{day(1), day(3), day(5)}

	assert.Equal(t, 0, NearestTime(dates, day(1)))
	assert.Equal(t, 0, NearestTime(dates, day(2)))
	assert.Equal(t, 1, NearestTime(dates, day(3).Add(time.Hour)))
	assert.Equal(t, 2, NearestTime(dates, day(9)))
	assert.Equal(t, 0, NearestTime(dates, day(1).Add(-time.Hour)))
	assert.Equal(t, -1, NearestTime(nil, day(1)))
	assert.Equal(t, 2, BisectTime(dates, day(4), 1))
}
