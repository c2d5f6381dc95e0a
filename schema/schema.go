package schema

import (
	"github.com/spektr-org/vizkit/engine"
)

// ============================================================================
// SCHEMA — Describes the typed fields of a widget dataset
// ============================================================================
// Every record that reaches the engine is produced through a Config: raw
// rows from JSON, CSV or XLSX are coerced field by field at the loading
// boundary (see validate.go). Configs are either built in (builtin.go),
// loaded from YAML/JSON, or inferred from sample rows (discover.go).
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Dimensions []DimensionMeta `yaml:"dimensions" json:"dimensions"`
	Measures   []MeasureMeta   `yaml:"measures" json:"measures"`

	// Strict rejects rows with unparseable dates, non-numeric measures or
	// dimension values outside an enumerated category set. Otherwise such
	// measures coerce to NaN and the row is kept.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`

	// Auto-discovery metadata
	DiscoveredFrom string          `yaml:"discoveredFrom,omitempty" json:"discoveredFrom,omitempty"`
	DiscoveredAt   string          `yaml:"discoveredAt,omitempty" json:"discoveredAt,omitempty"`
	SkippedColumns []SkippedColumn `yaml:"skippedColumns,omitempty" json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a string field used for grouping and filtering.
type DimensionMeta struct {
	Key          string   `yaml:"key" json:"key"`
	DisplayName  string   `yaml:"displayName" json:"displayName"`
	Description  string   `yaml:"description,omitempty" json:"description,omitempty"`
	SampleValues []string `yaml:"sampleValues,omitempty" json:"sampleValues,omitempty"`

	// Categories enumerates the allowed values, in canonical order.
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`

	IsTemporal     bool   `yaml:"isTemporal,omitempty" json:"isTemporal,omitempty"`
	TemporalFormat string `yaml:"temporalFormat,omitempty" json:"temporalFormat,omitempty"` // Go layout, engine.DateLayout when empty

	CardinalityHint string `yaml:"cardinalityHint,omitempty" json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// Layout returns the date layout of a temporal dimension.
func (d DimensionMeta) Layout() string {
	if d.TemporalFormat == "" {
		return engine.DateLayout
	}
	return d.TemporalFormat
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key         string `yaml:"key" json:"key"`
	DisplayName string `yaml:"displayName" json:"displayName"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Unit        string `yaml:"unit,omitempty" json:"unit,omitempty"` // "currency", "units", "seconds", "people"
	IsCurrency  bool   `yaml:"isCurrency,omitempty" json:"isCurrency,omitempty"`
	IsSynthetic bool   `yaml:"isSynthetic,omitempty" json:"isSynthetic,omitempty"` // record_count
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `yaml:"column" json:"column"`
	Reason      string `yaml:"reason" json:"reason"`
	Recoverable bool   `yaml:"recoverable" json:"recoverable"` // Can be restored with RecoverColumns
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string, samples []string) DimensionMeta {
	return DimensionMeta{
		Key:          key,
		DisplayName:  displayName,
		SampleValues: samples,
	}
}

// TemporalDimension creates a DD/MM/YYYY date dimension.
func TemporalDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:            key,
		DisplayName:    displayName,
		IsTemporal:     true,
		TemporalFormat: engine.DateLayout,
	}
}

// DefaultMeasure creates a MeasureMeta with sensible defaults.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{Key: key, DisplayName: displayName}
}

// GetDefaultMeasure returns the first non-synthetic measure's key.
func (c Config) GetDefaultMeasure() string {
	for _, m := range c.Measures {
		if !m.IsSynthetic {
			return m.Key
		}
	}
	if len(c.Measures) > 0 {
		return c.Measures[0].Key
	}
	return ""
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// DateDimension returns the first temporal dimension's key, "" when none.
func (c Config) DateDimension() string {
	for _, d := range c.Dimensions {
		if d.IsTemporal {
			return d.Key
		}
	}
	return ""
}

// EngineOptions returns the engine options implied by the schema.
func (c Config) EngineOptions() []engine.Option {
	var opts []engine.Option
	if d := c.DateDimension(); d != "" {
		opts = append(opts, engine.WithDateDimension(d))
	}
	return opts
}
