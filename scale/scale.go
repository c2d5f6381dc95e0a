// Package scale maps data domains onto pixel ranges.
//
// Continuous scales (Linear, Log, Time) map a two-point domain onto a
// two-point range and can be inverted for hit-testing. Discrete scales (Band,
// Ordinal) map categorical keys onto evenly subdivided slots or onto a color
// palette.
//
// Scales are plain values owned by a single widget and are not safe for
// concurrent use.
package scale

import (
	"errors"
	"fmt"
)

// ErrDomain is returned when a domain is mathematically invalid for a scale.
var ErrDomain = errors.New("invalid scale domain")

// ErrUnknownKey is returned by discrete scales for keys outside their domain.
var ErrUnknownKey = errors.New("unknown scale key")

// DomainError describes an invalid domain.
type DomainError struct {
	Scale  string // "log", "linear", ...
	Min    float64
	Max    float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s scale: domain [%g, %g]: %s", e.Scale, e.Min, e.Max, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// KeyError reports a key that a discrete scale cannot map.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("scale: no mapping for key %q", e.Key)
}

func (e *KeyError) Unwrap() error {
	return ErrUnknownKey
}

// Continuous is implemented by Linear and Log.
type Continuous interface {
	Map(v float64) float64
	Invert(px float64) float64
	Ticks(n int) []float64
	Domain() (float64, float64)
	Range() (float64, float64)
}

// interpolate maps a normalized position t in [0, 1] onto [r0, r1].
func interpolate(r0, r1, t float64) float64 {
	return r0 + t*(r1-r0)
}
