package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Summing, Averaging and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view). Empty input is
// never an error: sums are zero, group lists are empty, averages are 0.
// ============================================================================

// Sales dataset fields shared by the dashboard widgets.
var (
	SalesMeasures   = []string{"call_revenue", "call_duration", "units_sold"}
	SalesCategories = []string{"electronics", "furniture", "appliances", "materials"}
	CompanySizes    = []string{"small", "medium", "large"}
)

// averageMetrics maps the averages output names onto sales measures.
var averageMetrics = []struct{ Name, Measure string }{
	{"units", "units_sold"},
	{"duration", "call_duration"},
	{"revenue", "call_revenue"},
}

// ============================================================================
// GROUP AND SUM
// ============================================================================

// GroupAndSum groups records by one or two dimensions and folds measures by
// addition. Groups come out in first-seen order. With two keys every group
// also carries per-second-key sums in Sub (first-seen order in SubOrder).
// When the first key is the date dimension, Date holds the parsed value.
func GroupAndSum(view RecordView, keys []string, measures []string, opts ...Option) []Aggregate {
	cfg := applyOptions(opts)
	if view.Len() == 0 {
		return []Aggregate{}
	}
	if len(keys) == 0 {
		agg := newAggregate("all", measures)
		for i := 0; i < view.Len(); i++ {
			foldInto(agg.Sums, view, i, measures)
			agg.Count++
		}
		return []Aggregate{agg}
	}

	index := make(map[string]int)
	var out []Aggregate
	for i := 0; i < view.Len(); i++ {
		key := getDimensionValue(view, i, keys[0], cfg)
		pos, ok := index[key]
		if !ok {
			agg := newAggregate(key, measures)
			if keys[0] == cfg.DateDimension {
				agg.Date, _ = ParseDate(key)
			}
			if len(keys) > 1 {
				agg.Sub = make(map[string]Sums)
			}
			pos = len(out)
			index[key] = pos
			out = append(out, agg)
		}
		agg := &out[pos]
		agg.Count++
		foldInto(agg.Sums, view, i, measures)

		if len(keys) > 1 {
			sub := getDimensionValue(view, i, keys[1], cfg)
			sums, ok := agg.Sub[sub]
			if !ok {
				sums = zeroSums(measures)
				agg.Sub[sub] = sums
				agg.SubOrder = append(agg.SubOrder, sub)
			}
			foldInto(sums, view, i, measures)
		}
	}
	return out
}

// AggregateOnDate rolls sales records up by date then team.
func AggregateOnDate(view RecordView, opts ...Option) []Aggregate {
	cfg := applyOptions(opts)
	return GroupAndSum(view, []string{cfg.DateDimension, "team"}, SalesMeasures, opts...)
}

func newAggregate(key string, measures []string) Aggregate {
	return Aggregate{Key: key, Sums: zeroSums(measures)}
}

func zeroSums(measures []string) Sums {
	s := make(Sums, len(measures))
	for _, m := range measures {
		s[m] = 0
	}
	return s
}

func foldInto(s Sums, view RecordView, i int, measures []string) {
	for _, m := range measures {
		s[m] += view.Measure(i, m)
	}
}

// ============================================================================
// MAX OF SUMS
// ============================================================================

// MaxOfSums returns, per measure, the largest sum over subKeys found in any
// aggregate. Maxima start at 0 and missing sub-keys count as 0.
func MaxOfSums(aggs []Aggregate, subKeys []string, measures []string) Sums {
	maxSums := zeroSums(measures)
	for _, agg := range aggs {
		sums := zeroSums(measures)
		for _, k := range subKeys {
			for _, m := range measures {
				sums[m] += agg.Sub[k][m]
			}
		}
		for _, m := range measures {
			if maxSums[m] < sums[m] {
				maxSums[m] = sums[m]
			}
		}
	}
	return maxSums
}

// FindMaxSums is MaxOfSums over the sales measures.
func FindMaxSums(aggs []Aggregate, subKeys []string) Sums {
	return MaxOfSums(aggs, subKeys, SalesMeasures)
}

// ============================================================================
// GROUP AND AVERAGE
// ============================================================================

// Averages maps an output metric name to one Average per category.
type Averages map[string][]Average

type accumulator struct {
	total float64
	count int
}

// GroupAndAverage averages each measure per category over the enumerated
// categories. Output lists follow the categories order; a category with no
// records averages to 0. Values outside the enumeration are ignored.
func GroupAndAverage(view RecordView, dimension string, categories []string, measures []string, opts ...Option) Averages {
	cfg := applyOptions(opts)
	slot := make(map[string]int, len(categories))
	for i, c := range categories {
		slot[strings.ToLower(c)] = i
	}

	acc := make(map[string][]accumulator, len(measures))
	for _, m := range measures {
		acc[m] = make([]accumulator, len(categories))
	}

	for i := 0; i < view.Len(); i++ {
		pos, ok := slot[strings.ToLower(view.Dimension(i, dimension))]
		if !ok {
			continue
		}
		for _, m := range measures {
			acc[m][pos].total += view.Measure(i, m)
			acc[m][pos].count++
		}
	}

	out := make(Averages, len(measures))
	for _, m := range measures {
		list := make([]Average, len(categories))
		for j, c := range categories {
			a := acc[m][j]
			label := c
			if cfg.Capitalize {
				label = LabelForDimension(c)
			}
			list[j] = Average{Category: label}
			if a.count > 0 {
				list[j].Value = a.total / float64(a.count)
			}
		}
		out[m] = list
	}
	return out
}

// DetermineAverages averages units, duration and revenue per sales category
// over records inside r (all records when r is nil).
func DetermineAverages(view RecordView, r *DateRange, opts ...Option) Averages {
	cfg := applyOptions(opts)
	ranged := FilterDateRange(view, cfg.DateDimension, r)

	measures := make([]string, len(averageMetrics))
	for i, am := range averageMetrics {
		measures[i] = am.Measure
	}
	byMeasure := GroupAndAverage(ranged, "category", SalesCategories, measures, opts...)

	out := make(Averages, len(averageMetrics))
	for _, am := range averageMetrics {
		out[am.Name] = byMeasure[am.Measure]
	}
	return out
}

// ============================================================================
// COUNT BY CATEGORY
// ============================================================================

// CountByCategory counts records per enumerated category. Values that match
// no category are counted under fallback, which must be one of categories.
func CountByCategory(view RecordView, dimension string, categories []string, fallback string) []CategoryCount {
	out := make([]CategoryCount, len(categories))
	slot := make(map[string]int, len(categories))
	for i, c := range categories {
		out[i].Category = c
		slot[c] = i
	}
	fb, hasFallback := slot[fallback]

	for i := 0; i < view.Len(); i++ {
		pos, ok := slot[view.Dimension(i, dimension)]
		if !ok {
			if !hasFallback {
				continue
			}
			pos = fb
		}
		out[pos].Count++
	}
	return out
}

// CountByCompanySize counts sales records per company size in r.
// Anything that is not small or medium counts as large.
func CountByCompanySize(view RecordView, r *DateRange, opts ...Option) []CategoryCount {
	cfg := applyOptions(opts)
	ranged := FilterDateRange(view, cfg.DateDimension, r)
	return CountByCategory(ranged, "company_size", CompanySizes, "large")
}

// ============================================================================
// GROUP AND AGGREGATE — single-measure pipeline
// ============================================================================

// GroupAndAggregate runs group → aggregate → sort → limit for one measure.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
	opts ...Option,
) []Group {
	if view.Len() == 0 {
		return nil
	}
	cfg := applyOptions(opts)

	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else if len(groupBy) == 1 {
		groups = groupBySingle(view, groupBy[0], cfg)
	} else {
		groups = groupByMulti(view, groupBy, cfg)
	}

	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	SortGroups(groups, sortBy)

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func groupBySingle(view RecordView, dimension string, cfg *config) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := getDimensionValue(view, i, dimension, cfg)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string, cfg *config) []Group {
	primaryGroups := groupBySingle(view, dimensions[0], cfg)
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1], cfg)
	}
	return primaryGroups
}

// getDimensionValue extracts a dimension value from a view at index.
// "year" and "month" are virtual dimensions derived from the date dimension
// when the view has no dimension of that name.
func getDimensionValue(view RecordView, i int, dimension string, cfg *config) string {
	if v := view.Dimension(i, dimension); v != "" {
		return v
	}
	switch dimension {
	case "year":
		if t, ok := ParseDate(view.Dimension(i, cfg.DateDimension)); ok {
			return strconv.Itoa(t.Year())
		}
	case "month":
		if t, ok := ParseDate(view.Dimension(i, cfg.DateDimension)); ok {
			return t.Format("01/2006")
		}
	}
	return ""
}

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case "count":
		group.Value = float64(group.Count)
	case "avg":
		group.Value = AvgMeasure(group.View, measure)
	case "max":
		group.Value = MaxMeasure(group.View, measure)
	case "min":
		group.Value = MinMeasure(group.View, measure)
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes average of a named measure. Empty view averages to 0.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	if view.Len() == 0 {
		return 0
	}
	m := math.Inf(-1)
	for i := 0; i < view.Len(); i++ {
		m = math.Max(m, view.Measure(i, measure))
	}
	return m
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	if view.Len() == 0 {
		return 0
	}
	m := math.Inf(1)
	for i := 0; i < view.Len(); i++ {
		m = math.Min(m, view.Measure(i, measure))
	}
	return m
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// Unknown modes preserve grouping order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "chronological", "date_asc":
		sort.SliceStable(groups, func(i, j int) bool { return sortableDate(groups[i].Key) < sortableDate(groups[j].Key) })
	case "reverse_chronological", "date_desc":
		sort.SliceStable(groups, func(i, j int) bool { return sortableDate(groups[i].Key) > sortableDate(groups[j].Key) })
	case "label_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	}
}

// sortableDate turns a DD/MM/YYYY, MM/YYYY or YYYY key into a comparable
// YYYYMMDD integer. Unparseable keys sort first.
func sortableDate(key string) int {
	if t, ok := ParseDate(key); ok {
		return t.Year()*10000 + int(t.Month())*100 + t.Day()
	}
	if t, ok := ParseDate("01/" + key); ok {
		return t.Year()*10000 + int(t.Month())*100
	}
	if y, err := strconv.Atoi(key); err == nil {
		return y * 10000
	}
	return 0
}

// UniqueValues returns distinct values for a dimension across a view.
func UniqueValues(view RecordView, dimension string, opts ...Option) []string {
	cfg := applyOptions(opts)
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := getDimensionValue(view, i, dimension, cfg)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// LabelForDimension returns a capitalized label for a dimension.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}
