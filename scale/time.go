package scale

import (
	"math"
	"time"
)

// Time is a linear scale over epoch milliseconds.
type Time struct {
	lin Linear
}

// NewTime returns a time scale over [t0, t1] mapped onto [r0, r1].
func NewTime(t0, t1 time.Time, r0, r1 float64) *Time {
	s := &Time{}
	s.SetDomain(t0, t1)
	s.lin.SetRange(r0, r1)
	return s
}

// SetDomain replaces the domain.
func (s *Time) SetDomain(t0, t1 time.Time) *Time {
	s.lin.SetDomain(millis(t0), millis(t1))
	return s
}

// SetRange replaces the output range.
func (s *Time) SetRange(r0, r1 float64) *Time {
	s.lin.SetRange(r0, r1)
	return s
}

// Domain returns the current domain bounds.
func (s *Time) Domain() (time.Time, time.Time) {
	d0, d1 := s.lin.Domain()
	return fromMillis(d0), fromMillis(d1)
}

func (s *Time) Range() (float64, float64) { return s.lin.Range() }

// Map returns the range value for t.
func (s *Time) Map(t time.Time) float64 {
	return s.lin.Map(millis(t))
}

// Invert returns the date at a range value.
func (s *Time) Invert(px float64) time.Time {
	return fromMillis(s.lin.Invert(px))
}

// Ticks returns at most n dates spread over the domain.
func (s *Time) Ticks(n int) []time.Time {
	d0, d1 := s.lin.Domain()
	ms := linearTicks(d0, d1, n)
	ticks := make([]time.Time, len(ms))
	for i, v := range ms {
		ticks[i] = fromMillis(v)
	}
	return ticks
}

func millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func fromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}
