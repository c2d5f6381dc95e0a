package scale

import "math"

// Band divides a continuous range into equal slots, one per categorical key.
//
// With k keys, step s, inner padding pi and outer padding po:
//
//	k*Bandwidth() + (k-1)*pi*s + 2*po*s == |r1 - r0|
type Band struct {
	keys         []string
	index        map[string]int
	r0, r1       float64
	paddingInner float64
	paddingOuter float64

	step      float64
	bandwidth float64
	start     float64
}

// NewBand returns a band scale over [r0, r1] with an empty domain.
func NewBand(r0, r1 float64) *Band {
	b := &Band{r0: r0, r1: r1, index: map[string]int{}}
	b.rescale()
	return b
}

// SetDomain replaces the ordered key set. Duplicate keys keep their first
// position.
func (b *Band) SetDomain(keys ...string) *Band {
	b.keys = b.keys[:0]
	b.index = make(map[string]int, len(keys))
	for _, k := range keys {
		if _, dup := b.index[k]; dup {
			continue
		}
		b.index[k] = len(b.keys)
		b.keys = append(b.keys, k)
	}
	b.rescale()
	return b
}

// SetRange replaces the output range.
func (b *Band) SetRange(r0, r1 float64) *Band {
	b.r0, b.r1 = r0, r1
	b.rescale()
	return b
}

// SetPaddingInner sets the fraction of a step left empty between bands.
// Values are clamped to [0, 1].
func (b *Band) SetPaddingInner(p float64) *Band {
	b.paddingInner = math.Min(1, math.Max(0, p))
	b.rescale()
	return b
}

// SetPaddingOuter sets the fraction of a step left empty at each end.
func (b *Band) SetPaddingOuter(p float64) *Band {
	b.paddingOuter = math.Max(0, p)
	b.rescale()
	return b
}

// SetPadding sets inner and outer padding to the same value.
func (b *Band) SetPadding(p float64) *Band {
	b.paddingInner = math.Min(1, math.Max(0, p))
	b.paddingOuter = math.Max(0, p)
	b.rescale()
	return b
}

func (b *Band) Domain() []string         { return append([]string(nil), b.keys...) }
func (b *Band) Range() (float64, float64) { return b.r0, b.r1 }
func (b *Band) PaddingInner() float64     { return b.paddingInner }
func (b *Band) PaddingOuter() float64     { return b.paddingOuter }

// Bandwidth returns the width of each band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// Map returns the start of the band for key.
func (b *Band) Map(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return math.NaN(), false
	}
	if b.r1 < b.r0 {
		i = len(b.keys) - 1 - i
	}
	return b.start + b.step*float64(i), true
}

// Center returns the middle of the band for key.
func (b *Band) Center(key string) (float64, bool) {
	x, ok := b.Map(key)
	return x + b.bandwidth/2, ok
}

func (b *Band) rescale() {
	n := float64(len(b.keys))
	lo, hi := math.Min(b.r0, b.r1), math.Max(b.r0, b.r1)
	b.step = (hi - lo) / math.Max(1, n-b.paddingInner+2*b.paddingOuter)
	b.start = lo + (hi-lo-b.step*(n-b.paddingInner))*0.5
	b.bandwidth = b.step * (1 - b.paddingInner)
}
