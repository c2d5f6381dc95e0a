package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Test Data ─────────────────────────────────────────────────────────────────

func sale(date, team, category, size string, revenue, duration, units float64) Record {
	return Record{
		Dimensions: map[string]string{
			"date":         date,
			"team":         team,
			"category":     category,
			"company_size": size,
		},
		Measures: map[string]float64{
			"call_revenue":  revenue,
			"call_duration": duration,
			"units_sold":    units,
		},
	}
}

var salesRecords = []Record{
	sale("01/01/2020", "a", "electronics", "small", 10, 3, 1),
	sale("01/01/2020", "b", "furniture", "medium", 5, 2, 2),
	sale("02/01/2020", "a", "electronics", "large", 20, 4, 3),
	sale("02/01/2020", "a", "appliances", "enterprise", 6, 1, 1),
	sale("03/01/2020", "b", "furniture", "small", 8, 6, 5),
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ============================================================================
// 1. GROUP AND SUM
// ============================================================================

func TestAggregateOnDateSingleDate(t *testing.T) {
	view := NewSliceView([]Record{
		{Dimensions: map[string]string{"date": "01/01/2020", "team": "a"}, Measures: map[string]float64{"call_revenue": 10}},
		{Dimensions: map[string]string{"date": "01/01/2020", "team": "b"}, Measures: map[string]float64{"call_revenue": 5}},
	})

	aggs := AggregateOnDate(view)
	require.Len(t, aggs, 1)

	agg := aggs[0]
	assert.Equal(t, date(2020, time.January, 1), agg.Date)
	assert.Equal(t, []string{"a", "b"}, agg.SubOrder)
	assert.Equal(t, 10.0, agg.Sub["a"]["call_revenue"])
	assert.Equal(t, 5.0, agg.Sub["b"]["call_revenue"])
	assert.Equal(t, 15.0, agg.Sums["call_revenue"])
	assert.Equal(t, 0.0, agg.Sub["a"]["units_sold"])
}

func TestGroupAndSumFirstSeenOrder(t *testing.T) {
	aggs := AggregateOnDate(NewSliceView(salesRecords))
	require.Len(t, aggs, 3)

	assert.Equal(t, "01/01/2020", aggs[0].Key)
	assert.Equal(t, "02/01/2020", aggs[1].Key)
	assert.Equal(t, "03/01/2020", aggs[2].Key)

	assert.Equal(t, 26.0, aggs[1].Sub["a"]["call_revenue"])
	assert.Equal(t, 2, aggs[1].Count)
	assert.Equal(t, []string{"a"}, aggs[1].SubOrder)
}

func TestGroupAndSumEmpty(t *testing.T) {
	aggs := GroupAndSum(NewSliceView(nil), []string{"date"}, SalesMeasures)
	assert.Empty(t, aggs)
	assert.NotNil(t, aggs)
}

func TestGroupAndSumNoKeys(t *testing.T) {
	aggs := GroupAndSum(NewSliceView(salesRecords), nil, []string{"units_sold"})
	require.Len(t, aggs, 1)
	assert.Equal(t, 12.0, aggs[0].Sums["units_sold"])
	assert.Equal(t, 5, aggs[0].Count)
}

func TestGroupAndSumNonDateKey(t *testing.T) {
	aggs := GroupAndSum(NewSliceView(salesRecords), []string{"team"}, []string{"call_revenue"})
	require.Len(t, aggs, 2)
	assert.True(t, aggs[0].Date.IsZero())
	assert.Nil(t, aggs[0].Sub)
	assert.Equal(t, 36.0, aggs[0].Sums["call_revenue"])
	assert.Equal(t, 13.0, aggs[1].Sums["call_revenue"])
}

// ============================================================================
// 2. MAX OF SUMS
// ============================================================================

func TestFindMaxSums(t *testing.T) {
	aggs := AggregateOnDate(NewSliceView(salesRecords))
	maxSums := FindMaxSums(aggs, []string{"a", "b"})

	assert.Equal(t, 26.0, maxSums["call_revenue"])
	assert.Equal(t, 6.0, maxSums["call_duration"])
	assert.Equal(t, 5.0, maxSums["units_sold"])
}

func TestMaxOfSumsEmpty(t *testing.T) {
	maxSums := FindMaxSums(nil, []string{"a"})
	assert.Equal(t, Sums{"call_revenue": 0, "call_duration": 0, "units_sold": 0}, maxSums)
}

// ============================================================================
// 3. AVERAGES
// ============================================================================

func TestDetermineAverages(t *testing.T) {
	avgs := DetermineAverages(NewSliceView(salesRecords), nil)
	require.Len(t, avgs, 3)

	revenue := avgs["revenue"]
	require.Len(t, revenue, 4)
	assert.Equal(t, Average{Category: "Electronics", Value: 15}, revenue[0])
	assert.Equal(t, Average{Category: "Furniture", Value: 6.5}, revenue[1])
	assert.Equal(t, Average{Category: "Appliances", Value: 6}, revenue[2])
	assert.Equal(t, Average{Category: "Materials", Value: 0}, revenue[3])

	assert.Equal(t, 3.5, avgs["units"][1].Value)
	assert.Equal(t, 3.5, avgs["duration"][0].Value)
}

func TestDetermineAveragesEmpty(t *testing.T) {
	avgs := DetermineAverages(NewSliceView(nil), nil)
	for metric, list := range avgs {
		require.Len(t, list, len(SalesCategories), metric)
		for _, a := range list {
			assert.Zero(t, a.Value, "%s/%s", metric, a.Category)
		}
	}
}

func TestDetermineAveragesInRange(t *testing.T) {
	r := &DateRange{Start: date(2020, time.January, 2), End: date(2020, time.January, 3)}
	avgs := DetermineAverages(NewSliceView(salesRecords), r)

	assert.Equal(t, 20.0, avgs["revenue"][0].Value)
	assert.Equal(t, 8.0, avgs["revenue"][1].Value)
}

func TestGroupAndAverageRawLabelsAndUnknown(t *testing.T) {
	view := NewSliceView([]Record{
		{Dimensions: map[string]string{"kind": "x"}, Measures: map[string]float64{"v": 4}},
		{Dimensions: map[string]string{"kind": "zzz"}, Measures: map[string]float64{"v": 100}},
	})
	avgs := GroupAndAverage(view, "kind", []string{"x", "y"}, []string{"v"}, WithRawLabels())
	assert.Equal(t, []Average{{Category: "x", Value: 4}, {Category: "y", Value: 0}}, avgs["v"])
}

// ============================================================================
// 4. COUNTS
// ============================================================================

func TestCountByCompanySize(t *testing.T) {
	counts := CountByCompanySize(NewSliceView(salesRecords), nil)
	assert.Equal(t, []CategoryCount{
		{Category: "small", Count: 2},
		{Category: "medium", Count: 1},
		{Category: "large", Count: 2},
	}, counts)
}

func TestCountByCategoryEmpty(t *testing.T) {
	counts := CountByCategory(NewSliceView(nil), "company_size", CompanySizes, "large")
	require.Len(t, counts, 3)
	for _, c := range counts {
		assert.Zero(t, c.Count)
	}
}

// ============================================================================
// 5. GROUP AND AGGREGATE
// ============================================================================

func TestGroupAndAggregateVirtualYear(t *testing.T) {
	records := append([]Record{}, salesRecords...)
	records = append(records, sale("05/06/2021", "c", "materials", "small", 1, 1, 1))

	groups := GroupAndAggregate(NewSliceView(records), []string{"year"}, "call_revenue", "sum", "date_desc", 0)
	require.Len(t, groups, 2)
	assert.Equal(t, "2021", groups[0].Key)
	assert.Equal(t, 1.0, groups[0].Value)
	assert.Equal(t, "2020", groups[1].Key)
	assert.Equal(t, 49.0, groups[1].Value)
}

func TestGroupAndAggregateMulti(t *testing.T) {
	groups := GroupAndAggregate(NewSliceView(salesRecords), []string{"team", "category"}, "units_sold", "sum", "value_desc", 1)
	require.Len(t, groups, 1)
	assert.Equal(t, "b", groups[0].Key)
	assert.Equal(t, 7.0, groups[0].Value)
	require.Len(t, groups[0].SubGroups, 1)
	assert.Equal(t, "furniture", groups[0].SubGroups[0].Key)
}

func TestSortGroupsChronological(t *testing.T) {
	groups := []Group{{Key: "03/02/2020"}, {Key: "01/01/2021"}, {Key: "15/01/2020"}}
	SortGroups(groups, "chronological")
	assert.Equal(t, "15/01/2020", groups[0].Key)
	assert.Equal(t, "03/02/2020", groups[1].Key)
	assert.Equal(t, "01/01/2021", groups[2].Key)
}

func TestUniqueValues(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, UniqueValues(NewSliceView(salesRecords), "team"))
	assert.Equal(t, []string{"01/2020"}, UniqueValues(NewSliceView(salesRecords), "month"))
}

func TestMinMaxMeasure(t *testing.T) {
	view := NewSliceView(salesRecords)
	assert.Equal(t, 20.0, MaxMeasure(view, "call_revenue"))
	assert.Equal(t, 5.0, MinMeasure(view, "call_revenue"))
	assert.Equal(t, 0.0, AvgMeasure(NewSliceView(nil), "call_revenue"))
}
