package scale

import (
	"math"

	mscale "github.com/aclements/go-moremath/scale"
)

// Linear maps [d0, d1] onto [r0, r1] with f(v) = r0 + (v-d0)/(d1-d0)*(r1-r0).
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a linear scale over the given domain and range.
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// SetDomain replaces the domain. Call it with the current dataset before
// mapping any mark position.
func (s *Linear) SetDomain(d0, d1 float64) *Linear {
	s.d0, s.d1 = d0, d1
	return s
}

// SetRange replaces the output range.
func (s *Linear) SetRange(r0, r1 float64) *Linear {
	s.r0, s.r1 = r0, r1
	return s
}

func (s *Linear) Domain() (float64, float64) { return s.d0, s.d1 }
func (s *Linear) Range() (float64, float64)  { return s.r0, s.r1 }

// Map returns the range value for v. A degenerate domain maps every value
// to the middle of the range. NaN propagates.
func (s *Linear) Map(v float64) float64 {
	span := s.d1 - s.d0
	if span == 0 {
		return interpolate(s.r0, s.r1, 0.5)
	}
	return interpolate(s.r0, s.r1, (v-s.d0)/span)
}

// Invert returns the domain value for a range value.
func (s *Linear) Invert(px float64) float64 {
	span := s.r1 - s.r0
	if span == 0 {
		return interpolate(s.d0, s.d1, 0.5)
	}
	return interpolate(s.d0, s.d1, (px-s.r0)/span)
}

// Ticks returns at most n evenly spaced, human friendly values inside the
// domain.
func (s *Linear) Ticks(n int) []float64 {
	return linearTicks(s.d0, s.d1, n)
}

func linearTicks(d0, d1 float64, n int) []float64 {
	if n < 1 || math.IsNaN(d0) || math.IsNaN(d1) {
		return nil
	}
	lo, hi := math.Min(d0, d1), math.Max(d0, d1)
	if lo == hi {
		return []float64{lo}
	}
	major, _ := mscale.Linear{Min: lo, Max: hi}.Ticks(mscale.TickOptions{Max: n})
	return major
}
