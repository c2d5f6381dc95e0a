package scale

import (
	"math"

	mscale "github.com/aclements/go-moremath/scale"
)

// Log maps a strictly positive domain using natural-log interpolation.
type Log struct {
	d0, d1 float64
	r0, r1 float64
	ticker mscale.Log
}

// NewLog returns a log scale. The domain must be strictly positive; a
// domain that includes or straddles zero fails with a *DomainError.
func NewLog(d0, d1, r0, r1 float64) (*Log, error) {
	s := &Log{r0: r0, r1: r1}
	if err := s.SetDomain(d0, d1); err != nil {
		return nil, err
	}
	return s, nil
}

// SetDomain validates and replaces the domain. On error the previous
// domain is kept.
func (s *Log) SetDomain(d0, d1 float64) error {
	if !(d0 > 0) || !(d1 > 0) {
		return &DomainError{Scale: "log", Min: d0, Max: d1, Reason: "domain must be strictly positive"}
	}
	ticker, err := mscale.NewLog(math.Min(d0, d1), math.Max(d0, d1), 10)
	if err != nil {
		return &DomainError{Scale: "log", Min: d0, Max: d1, Reason: err.Error()}
	}
	s.d0, s.d1, s.ticker = d0, d1, ticker
	return nil
}

// SetRange replaces the output range.
func (s *Log) SetRange(r0, r1 float64) *Log {
	s.r0, s.r1 = r0, r1
	return s
}

func (s *Log) Domain() (float64, float64) { return s.d0, s.d1 }
func (s *Log) Range() (float64, float64)  { return s.r0, s.r1 }

// Map returns the range value for v. Non-positive v yields NaN.
func (s *Log) Map(v float64) float64 {
	l0, l1 := math.Log(s.d0), math.Log(s.d1)
	if l1 == l0 {
		return interpolate(s.r0, s.r1, 0.5)
	}
	return interpolate(s.r0, s.r1, (math.Log(v)-l0)/(l1-l0))
}

// Invert returns the domain value for a range value.
func (s *Log) Invert(px float64) float64 {
	span := s.r1 - s.r0
	l0, l1 := math.Log(s.d0), math.Log(s.d1)
	if span == 0 {
		return math.Exp(interpolate(l0, l1, 0.5))
	}
	return math.Exp(interpolate(l0, l1, (px-s.r0)/span))
}

// Ticks returns at most n powers-of-ten based ticks inside the domain.
func (s *Log) Ticks(n int) []float64 {
	if n < 1 {
		return nil
	}
	major, _ := s.ticker.Ticks(mscale.TickOptions{Max: n})
	return major
}
