package scale

// Ordinal maps categorical keys onto a palette in first-assigned order.
// The palette is reused cyclically when there are more keys than colors.
type Ordinal struct {
	palette  []string
	index    map[string]int
	order    []string
	fallback string
	hasFall  bool
}

// OrdinalOption configures an Ordinal scale.
type OrdinalOption func(*Ordinal)

// WithDefault makes Map return color for keys outside the domain instead of
// failing.
func WithDefault(color string) OrdinalOption {
	return func(o *Ordinal) {
		o.fallback, o.hasFall = color, true
	}
}

// WithDomain assigns keys up front, in order.
func WithDomain(keys ...string) OrdinalOption {
	return func(o *Ordinal) {
		for _, k := range keys {
			o.Assign(k)
		}
	}
}

// NewOrdinal returns an ordinal scale over palette.
func NewOrdinal(palette []string, opts ...OrdinalOption) *Ordinal {
	o := &Ordinal{
		palette: append([]string(nil), palette...),
		index:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Assign adds key to the domain if it is new and returns its color.
func (o *Ordinal) Assign(key string) string {
	i, ok := o.index[key]
	if !ok {
		i = len(o.order)
		o.index[key] = i
		o.order = append(o.order, key)
	}
	return o.at(i)
}

// Map returns the color for a key already in the domain. Unknown keys fail
// with a *KeyError unless a default was configured.
func (o *Ordinal) Map(key string) (string, error) {
	if i, ok := o.index[key]; ok {
		return o.at(i), nil
	}
	if o.hasFall {
		return o.fallback, nil
	}
	return "", &KeyError{Key: key}
}

// Domain returns the assigned keys in assignment order.
func (o *Ordinal) Domain() []string {
	return append([]string(nil), o.order...)
}

func (o *Ordinal) at(i int) string {
	if len(o.palette) == 0 {
		return o.fallback
	}
	return o.palette[i%len(o.palette)]
}
