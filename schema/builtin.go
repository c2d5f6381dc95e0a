package schema

import (
	"fmt"
	"sort"

	"github.com/spektr-org/vizkit/engine"
)

// ErrUnknownSchema is returned by Builtin for names it does not know.
var ErrUnknownSchema = fmt.Errorf("%w: unknown builtin", ErrInvalidSchema)

var builtins = map[string]func() *Config{
	"sales":  Sales,
	"crypto": Crypto,
	"fruit":  Fruit,
}

// Builtin returns a fresh copy of a named dataset schema.
func Builtin(name string) (*Config, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSchema, name)
	}
	return fn(), nil
}

// BuiltinNames lists the builtin schemas alphabetically.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sales is the call-center dataset behind the donut, stacked area and
// timeline widgets.
func Sales() *Config {
	return &Config{
		Name:    "sales",
		Version: "1.0",
		Dimensions: []DimensionMeta{
			TemporalDimension("date", "Date"),
			DefaultDimension("team", "Team", nil),
			{Key: "category", DisplayName: "Category", Categories: append([]string(nil), engine.SalesCategories...)},
			{Key: "company_size", DisplayName: "Company Size", Categories: append([]string(nil), engine.CompanySizes...)},
		},
		Measures: []MeasureMeta{
			{Key: "call_revenue", DisplayName: "Call Revenue", Unit: "currency", IsCurrency: true},
			{Key: "call_duration", DisplayName: "Call Duration", Unit: "seconds"},
			{Key: "units_sold", DisplayName: "Units Sold", Unit: "units"},
		},
	}
}

// Crypto is the coin price history behind the line plot.
func Crypto() *Config {
	return &Config{
		Name:    "crypto",
		Version: "1.0",
		Dimensions: []DimensionMeta{
			TemporalDimension("date", "Date"),
			DefaultDimension("coin", "Coin", []string{"bitcoin", "ethereum", "litecoin"}),
		},
		Measures: []MeasureMeta{
			{Key: "price_usd", DisplayName: "Price", Unit: "currency", IsCurrency: true},
			{Key: "market_cap", DisplayName: "Market Cap", Unit: "currency", IsCurrency: true},
			{Key: "24h_vol", DisplayName: "Daily Volume", Unit: "currency", IsCurrency: true},
		},
	}
}

// Fruit is the regional fruit count behind the standalone donut and bar
// charts.
func Fruit() *Config {
	return &Config{
		Name:    "fruit",
		Version: "1.0",
		Dimensions: []DimensionMeta{
			DefaultDimension("fruit", "Fruit", []string{"apples", "oranges"}),
			{Key: "region", DisplayName: "Region", Categories: []string{"North", "South", "East", "West", "Central"}},
		},
		Measures: []MeasureMeta{
			{Key: "count", DisplayName: "Count", Unit: "units"},
		},
	}
}
