// Package chart holds the dashboard widgets: bar, donut, line plot, stacked
// area, brushable timeline, scatter plot and map.
//
// A widget is built once with its Config and Options, which allocates the
// static parts of its scene (axis groups, legend, path shells). Update may
// then be called any number of times; it is the only mutator of marks and
// scale domains. Pointer and drag input enters through explicit methods
// (OnPointerMove, OnDragEnd, OnClick, ...) so the host owns event wiring.
//
// Widgets are not safe for concurrent use.
package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/spektr-org/vizkit"
	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/scene"
)

// ============================================================================
// CONFIG
// ============================================================================

var (
	// ErrConfig is returned for unusable widget dimensions.
	ErrConfig = errors.New("chart: invalid config")

	// ErrUnknownCountry is returned when an interaction names a country that
	// is not currently plotted.
	ErrUnknownCountry = errors.New("chart: unknown country")
)

// ConfigError describes which dimension of a Config is unusable.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("chart: invalid config: %s %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// Margins surround the plot area inside the canvas.
type Margins struct {
	Left   float64 `yaml:"left" json:"left"`
	Right  float64 `yaml:"right" json:"right"`
	Top    float64 `yaml:"top" json:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
}

// Config is the canvas size shared by every widget.
type Config struct {
	Width   float64 `yaml:"width" json:"width"`
	Height  float64 `yaml:"height" json:"height"`
	Margins Margins `yaml:"margins" json:"margins"`
}

// PlotWidth is the canvas width minus horizontal margins.
func (c Config) PlotWidth() float64 { return c.Width - c.Margins.Left - c.Margins.Right }

// PlotHeight is the canvas height minus vertical margins.
func (c Config) PlotHeight() float64 { return c.Height - c.Margins.Top - c.Margins.Bottom }

// Validate checks that the plot area is not empty.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return &ConfigError{Field: "width", Reason: "must be positive"}
	case c.Height <= 0:
		return &ConfigError{Field: "height", Reason: "must be positive"}
	case c.PlotWidth() <= 0:
		return &ConfigError{Field: "margins", Reason: "leave no plot width"}
	case c.PlotHeight() <= 0:
		return &ConfigError{Field: "margins", Reason: "leave no plot height"}
	}
	return nil
}

// ============================================================================
// COLOR MAP
// ============================================================================

// ColorEntry binds one category to a color.
type ColorEntry struct {
	Key   string `yaml:"key" json:"key"`
	Color string `yaml:"color" json:"color"`
}

// ColorMap is an ordered category to color mapping. Its order is the
// canonical category order of donut slices, stacked layers and legends.
type ColorMap []ColorEntry

// Keys returns the categories in order.
func (m ColorMap) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the color of key.
func (m ColorMap) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Color, true
		}
	}
	return "", false
}

// ============================================================================
// OPTIONS
// ============================================================================

// Callbacks are host hooks invoked on user interaction.
type Callbacks struct {
	// OnBrush receives the brushed date range, or nil when cleared.
	OnBrush func(r *engine.DateRange)
	// SelectCountry receives a clicked scatter point.
	SelectCountry func(name string, node *scene.Node, color string)
}

// Option configures a widget.
type Option func(*options)

type options struct {
	transition    time.Duration
	hasTransition bool
	colors        ColorMap
	inner, outer  float64
	brushMin      float64
	brushMax      float64
	callbacks     Callbacks
	logger        *slog.Logger
	metricLabels  map[string]string
	projector     Projector
	dateField     string
}

// WithTransition overrides the widget's update animation length.
// Zero disables animation.
func WithTransition(d time.Duration) Option {
	return func(o *options) {
		o.transition = d
		o.hasTransition = true
	}
}

// WithColorMap sets the category colors and canonical order.
func WithColorMap(m ColorMap) Option {
	return func(o *options) { o.colors = m }
}

// WithRadii sets the donut's inner and outer radius.
func WithRadii(inner, outer float64) Option {
	return func(o *options) {
		o.inner = inner
		o.outer = outer
	}
}

// WithBrushBounds clamps timeline selections to [minWidth, maxWidth] pixels.
// A zero bound is not enforced.
func WithBrushBounds(minWidth, maxWidth float64) Option {
	return func(o *options) {
		o.brushMin = minWidth
		o.brushMax = maxWidth
	}
}

// WithCallbacks installs host hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(o *options) { o.callbacks = cb }
}

// WithLogger routes widget logs to l instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetricLabels adds or replaces metric display names.
func WithMetricLabels(labels map[string]string) Option {
	return func(o *options) { o.metricLabels = labels }
}

// WithProjector places map coordinates with p instead of fitting the
// regions' bounding box.
func WithProjector(p Projector) Option {
	return func(o *options) { o.projector = p }
}

// WithDateField names the DD/MM/YYYY dimension the line plot and timeline
// read dates from. The default is "date".
func WithDateField(field string) Option {
	return func(o *options) {
		if field != "" {
			o.dateField = field
		}
	}
}

func applyOptions(defaultTransition time.Duration, opts []Option) *options {
	o := &options{transition: defaultTransition, dateField: "date"}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = vizkit.Logger()
	}
	return o
}

// ============================================================================
// WIDGET
// ============================================================================

// Widget is the part every chart shares: a scene root of a fixed size that
// can be advanced through its current transition.
type Widget interface {
	Root() *scene.Node
	Size() (width, height float64)
	// Frame applies the transition state elapsed time after the last
	// Update and reports whether every transition has finished.
	Frame(elapsed time.Duration) bool
}

// Settle jumps a widget to the end of its current transition.
func Settle(w Widget) {
	w.Frame(time.Duration(math.MaxInt64))
}

// base holds what every widget allocates at construction.
type base struct {
	cfg  Config
	opts *options
	root *scene.Node
	plot *scene.Node
	anim animation
}

func newBase(class string, cfg Config, opts *options) (base, error) {
	if err := cfg.Validate(); err != nil {
		return base{}, err
	}
	root := scene.NewGroup(class)
	plot := root.Group("plot")
	plot.Transform = scene.Transform{TX: cfg.Margins.Left, TY: cfg.Margins.Top}
	return base{cfg: cfg, opts: opts, root: root, plot: plot}, nil
}

func (b *base) Root() *scene.Node { return b.root }

func (b *base) Size() (float64, float64) { return b.cfg.Width, b.cfg.Height }

func (b *base) Frame(elapsed time.Duration) bool { return b.anim.frame(elapsed) }

// ============================================================================
// ANIMATION
// ============================================================================

// tween is one running transition: apply receives progress in [0, 1].
type tween struct {
	duration time.Duration
	apply    func(t float64)
	done     func()
}

// animation is the set of tweens started by the last Update.
type animation struct {
	tweens []tween
}

// reset finishes every pending tween, so interrupted exits are removed and
// interrupted updates land on their targets, then forgets them.
func (a *animation) reset() {
	a.frame(time.Duration(math.MaxInt64))
	a.tweens = a.tweens[:0]
}

// add registers a tween and applies its initial state.
func (a *animation) add(d time.Duration, apply func(t float64), done func()) {
	tw := tween{duration: d, apply: apply, done: done}
	if d <= 0 {
		apply(1)
		if done != nil {
			done()
		}
		return
	}
	apply(0)
	a.tweens = append(a.tweens, tw)
}

func (a *animation) frame(elapsed time.Duration) bool {
	live := a.tweens[:0]
	for _, tw := range a.tweens {
		t := float64(elapsed) / float64(tw.duration)
		if t >= 1 {
			tw.apply(1)
			if tw.done != nil {
				tw.done()
			}
			continue
		}
		if t < 0 {
			t = 0
		}
		tw.apply(t)
		live = append(live, tw)
	}
	a.tweens = live
	return len(live) == 0
}
