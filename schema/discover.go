package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/spektr-org/vizkit"
	"github.com/spektr-org/vizkit/engine"
)

// ============================================================================
// AUTO-DISCOVERY — Schema inference from sample rows
// ============================================================================
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, string)
//   2. Type + cardinality → classify role (dimension, measure, skip)
//   3. Dates → temporal dimension with the layout most values parse with
//   4. Append the synthetic record_count measure
// ============================================================================

// ErrNoData is returned when there is nothing to infer a schema from.
var ErrNoData = errors.New("schema: no data to discover from")

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Dataset name override
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{SampleSize: 1000}
}

// DiscoverFromCSV infers a Config from CSV bytes with a header row.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("schema: read CSV header: %w", err)
	}
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	cfg, err := Discover(header, rows, opts...)
	if err != nil {
		return nil, err
	}
	cfg.DiscoveredFrom = "CSV"
	return cfg, nil
}

// DiscoverFromRecords infers a Config from decoded JSON objects. Columns are
// the union of object keys, sorted.
func DiscoverFromRecords(raw []map[string]any, opts ...DiscoverOptions) (*Config, error) {
	seen := make(map[string]bool)
	var header []string
	for _, r := range raw {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	sort.Strings(header)

	rows := make([][]string, len(raw))
	for i, r := range raw {
		row := make([]string, len(header))
		for j, k := range header {
			if v, ok := r[k]; ok && v != nil {
				row[j] = stringValue(v)
			}
		}
		rows[i] = row
	}
	cfg, err := Discover(header, rows, opts...)
	if err != nil {
		return nil, err
	}
	cfg.DiscoveredFrom = "JSON"
	return cfg, nil
}

// Discover classifies every column of a header + rows table.
func Discover(header []string, rows [][]string, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrNoData)
	}
	if opt.SampleSize > 0 && len(rows) > opt.SampleSize {
		rows = rows[:opt.SampleSize]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrNoData)
	}

	recovered := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recovered[toSnakeCase(col)] = true
	}

	cfg := &Config{
		Name:         opt.Name,
		Version:      "1.0",
		DiscoveredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if cfg.Name == "" {
		cfg.Name = "discovered"
	}

	for i, h := range header {
		col := analyzeColumn(h, i, rows)
		switch {
		case col.role == roleDimension, col.role == roleSkipped && recovered[col.key]:
			cfg.Dimensions = append(cfg.Dimensions, col.toDimension())
		case col.role == roleMeasure:
			cfg.Measures = append(cfg.Measures, col.toMeasure())
		default:
			cfg.SkippedColumns = append(cfg.SkippedColumns, SkippedColumn{
				Column:      col.header,
				Reason:      col.skipReason,
				Recoverable: col.recoverable,
			})
		}
	}

	cfg.Measures = append(cfg.Measures, MeasureMeta{
		Key:         "record_count",
		DisplayName: "Record Count",
		Description: "Number of records",
		IsSynthetic: true,
	})

	vizkit.Logger().Debug("schema: discovered",
		"name", cfg.Name,
		"dimensions", len(cfg.Dimensions),
		"measures", len(cfg.Measures),
		"skipped", len(cfg.SkippedColumns))
	return cfg, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

type columnType int

const (
	typeString columnType = iota
	typeNumeric
	typeDate
	typeBool
)

type columnAnalysis struct {
	header      string
	key         string
	colType     columnType
	role        columnRole
	skipReason  string
	recoverable bool

	rows        int
	unique      int
	samples     []string
	layout      string
	hasDecimals bool
}

func analyzeColumn(header string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		header: header,
		key:    toSnakeCase(header),
		rows:   len(rows),
	}

	values := make([]string, 0, len(rows))
	unique := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) || isNull(row[index]) {
			continue
		}
		v := strings.TrimSpace(row[index])
		values = append(values, v)
		unique[v] = true
	}
	col.unique = len(unique)

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		return col
	}
	col.samples = collectSamples(unique, 10)
	col.colType, col.layout = detectType(values)
	if col.colType == typeNumeric {
		for _, v := range values {
			if strings.Contains(v, ".") {
				col.hasDecimals = true
				break
			}
		}
	}
	col.classifyRole()
	return col
}

// classifyRole determines dimension vs measure vs skip.
func (col *columnAnalysis) classifyRole() {
	switch col.colType {
	case typeNumeric:
		if col.unique == col.rows && col.rows > 10 && !col.hasDecimals {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an ID column"
			return
		}
		ratio := float64(col.unique) / float64(col.rows)
		if !col.hasDecimals && col.unique < 20 && ratio < 0.3 {
			// coded values such as a 1-5 priority
			col.role = roleDimension
			return
		}
		col.role = roleMeasure

	case typeDate, typeBool:
		col.role = roleDimension

	case typeString:
		if col.unique == col.rows && col.rows > 10 {
			col.role = roleSkipped
			col.skipReason = "Unique per row — likely an identifier"
			return
		}
		if col.unique > col.rows/2 && col.unique > 50 {
			col.role = roleSkipped
			col.skipReason = fmt.Sprintf("High cardinality (%d unique values) — not useful for grouping", col.unique)
			col.recoverable = true
			return
		}
		col.role = roleDimension
	}
}

func (col *columnAnalysis) toDimension() DimensionMeta {
	d := DimensionMeta{
		Key:          col.key,
		DisplayName:  toDisplayName(col.header),
		SampleValues: col.samples,
	}
	if col.colType == typeDate {
		d.IsTemporal = true
		d.TemporalFormat = col.layout
	}
	switch {
	case col.unique <= 10:
		d.CardinalityHint = "low"
	case col.unique <= 100:
		d.CardinalityHint = "medium"
	default:
		d.CardinalityHint = "high"
	}
	return d
}

func (col *columnAnalysis) toMeasure() MeasureMeta {
	return MeasureMeta{
		Key:         col.key,
		DisplayName: toDisplayName(col.header),
		Unit:        detectUnit(col.key),
		IsCurrency:  detectUnit(col.key) == "currency",
	}
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// dateLayouts are tried in order; DD/MM/YYYY wins ties with MM/DD/YYYY.
var dateLayouts = []string{
	engine.DateLayout,
	"2006-01-02",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// detectType requires 80% of non-null values to match numeric, date or
// bool. A date column reports the first layout that reaches the threshold.
func detectType(values []string) (columnType, string) {
	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}

	boolCount, numCount := 0, 0
	for _, v := range values {
		if isBool(v) {
			boolCount++
		}
		if _, ok := numberValue(v); ok {
			numCount++
		}
	}
	if boolCount >= threshold {
		return typeBool, ""
	}
	for _, layout := range dateLayouts {
		n := 0
		for _, v := range values {
			if _, err := time.Parse(layout, v); err == nil {
				n++
			}
		}
		if n >= threshold {
			return typeDate, layout
		}
	}
	if numCount >= threshold {
		return typeNumeric, ""
	}
	return typeString, ""
}

func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

var unitHints = []struct {
	unit  string
	words []string
}{
	{"currency", []string{"revenue", "price", "cost", "income", "amount", "cap", "vol", "usd", "salary"}},
	{"seconds", []string{"duration", "seconds"}},
	{"people", []string{"population"}},
	{"units", []string{"units", "count", "quantity"}},
}

func detectUnit(key string) string {
	for _, h := range unitHints {
		for _, w := range h.words {
			if strings.Contains(key, w) {
				return h.unit
			}
		}
	}
	return ""
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var b strings.Builder
	prev := rune(0)
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteRune('_')
		}
		b.WriteRune(r)
		prev = r
	}
	s = strings.ToLower(b.String())
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName cleans a header for human display.
// "units_sold" → "Units Sold", "team" → "Team"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to limit values, sorted for deterministic output.
func collectSamples(unique map[string]bool, limit int) []string {
	samples := make([]string, 0, len(unique))
	for v := range unique {
		samples = append(samples, v)
	}
	sort.Strings(samples)
	if len(samples) > limit {
		samples = samples[:limit]
	}
	return samples
}
