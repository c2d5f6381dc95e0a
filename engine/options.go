package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for the aggregation pipeline
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	DateDimension string // dimension holding DD/MM/YYYY dates
	Capitalize    bool   // capitalize category labels in averages
}

// WithDateDimension sets which dimension holds the record date.
func WithDateDimension(dimension string) Option {
	return func(c *config) {
		c.DateDimension = dimension
	}
}

// WithRawLabels keeps category labels exactly as enumerated.
func WithRawLabels() Option {
	return func(c *config) {
		c.Capitalize = false
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		DateDimension: "date",
		Capitalize:    true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
