package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/vizkit/engine"
)

// ============================================================================
// VALIDATION — Config checks and row coercion at the loading boundary
// ============================================================================

var (
	// ErrInvalidSchema is returned by Validate for unusable configs.
	ErrInvalidSchema = errors.New("schema: invalid config")

	// ErrField is returned when a strict schema rejects a row value.
	ErrField = errors.New("schema: invalid field")
)

// SchemaError describes what is wrong with a Config.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrInvalidSchema }

// FieldError reports a row value a strict schema rejected.
type FieldError struct {
	Row    int
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schema: row %d: field %q = %v: %s", e.Row, e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrField }

// Validate checks that keys are present and unique across dimensions and
// measures, and that temporal layouts parse their own reference date.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &SchemaError{Field: "name", Reason: "is empty"}
	}
	if len(c.Dimensions)+len(c.Measures) == 0 {
		return &SchemaError{Field: c.Name, Reason: "has no fields"}
	}
	seen := make(map[string]string)
	claim := func(key, kind string) error {
		if key == "" {
			return &SchemaError{Field: kind, Reason: "has an empty key"}
		}
		if prev, ok := seen[key]; ok {
			return &SchemaError{Field: key, Reason: fmt.Sprintf("declared as %s and %s", prev, kind)}
		}
		seen[key] = kind
		return nil
	}
	for _, d := range c.Dimensions {
		if err := claim(d.Key, "dimension"); err != nil {
			return err
		}
		if d.IsTemporal {
			if layout := d.Layout(); !distinguishesDays(layout) {
				return &SchemaError{Field: d.Key, Reason: fmt.Sprintf("bad temporal format %q", layout)}
			}
		}
	}
	for _, m := range c.Measures {
		if err := claim(m.Key, "measure"); err != nil {
			return err
		}
	}
	return nil
}

// distinguishesDays reports whether layout tells the day, month and year
// apart and parses its own output.
func distinguishesDays(layout string) bool {
	a := time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, b := range []time.Time{a.AddDate(1, 0, 0), a.AddDate(0, 1, 0), a.AddDate(0, 0, 1)} {
		if a.Format(layout) == b.Format(layout) {
			return false
		}
	}
	_, err := time.Parse(layout, a.Format(layout))
	return err == nil
}

// ============================================================================
// COERCION
// ============================================================================

// Record converts one decoded row into an engine.Record. row is the
// position reported in errors. Unknown fields are ignored, missing fields
// are left out. Temporal values are normalized to DD/MM/YYYY; a value that
// does not parse is kept verbatim so the engine drops it later, unless the
// schema is strict.
func (c Config) Record(row int, raw map[string]any) (engine.Record, error) {
	rec := engine.Record{
		Dimensions: make(map[string]string, len(c.Dimensions)),
		Measures:   make(map[string]float64, len(c.Measures)),
	}

	for _, d := range c.Dimensions {
		v, ok := raw[d.Key]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(stringValue(v))
		if d.IsTemporal {
			t, err := time.Parse(d.Layout(), s)
			if err != nil {
				if c.Strict {
					return engine.Record{}, &FieldError{Row: row, Field: d.Key, Value: v, Reason: "not a " + d.Layout() + " date"}
				}
			} else {
				s = engine.FormatDate(t)
			}
		}
		if c.Strict && len(d.Categories) > 0 && !containsFold(d.Categories, s) {
			return engine.Record{}, &FieldError{Row: row, Field: d.Key, Value: v, Reason: "not one of " + strings.Join(d.Categories, ", ")}
		}
		rec.Dimensions[d.Key] = s
	}

	for _, m := range c.Measures {
		if m.IsSynthetic {
			rec.Measures[m.Key] = 1
			continue
		}
		v, ok := raw[m.Key]
		if !ok || v == nil {
			continue
		}
		f, ok := numberValue(v)
		if !ok {
			if c.Strict {
				return engine.Record{}, &FieldError{Row: row, Field: m.Key, Value: v, Reason: "not a number"}
			}
			f = math.NaN()
		}
		rec.Measures[m.Key] = f
	}
	return rec, nil
}

// Records converts every row. A strict schema stops at the first rejected
// row.
func (c Config) Records(rows []map[string]any) ([]engine.Record, error) {
	out := make([]engine.Record, 0, len(rows))
	for i, raw := range rows {
		rec, err := c.Record(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Table converts header + string rows, as read from CSV or a spreadsheet.
// Headers are matched to field keys after snake-casing.
func (c Config) Table(header []string, rows [][]string) ([]engine.Record, error) {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = toSnakeCase(strings.TrimSpace(h))
	}
	out := make([]engine.Record, 0, len(rows))
	for i, row := range rows {
		raw := make(map[string]any, len(keys))
		for j, k := range keys {
			if j < len(row) && !isNull(row[j]) {
				raw[k] = row[j]
			}
		}
		rec, err := c.Record(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func numberValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "$")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func isNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}
