package scale

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearInvertRoundTrip(t *testing.T) {
	s := NewLinear(0, 250, 400, 0)
	for _, v := range []float64{0, 1, 17.5, 99.9, 125, 249.999, 250} {
		assert.InDelta(t, v, s.Invert(s.Map(v)), 1e-9, "v=%v", v)
	}
	assert.Equal(t, 400.0, s.Map(0))
	assert.Equal(t, 0.0, s.Map(250))
}

func TestLinearDegenerateDomain(t *testing.T) {
	s := NewLinear(5, 5, 0, 100)
	assert.Equal(t, 50.0, s.Map(5))
	assert.Equal(t, 50.0, s.Map(42))
}

func TestLinearNaNPropagates(t *testing.T) {
	s := NewLinear(0, math.NaN(), 0, 100)
	assert.True(t, math.IsNaN(s.Map(3)))
}

func TestLinearTicks(t *testing.T) {
	ticks := NewLinear(0, 100, 0, 1).Ticks(6)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, len(ticks), 6)
	for _, v := range ticks {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.Nil(t, NewLinear(0, 1, 0, 1).Ticks(0))
}

func TestLogScale(t *testing.T) {
	s, err := NewLog(100, 150000, 0, 690)
	require.NoError(t, err)
	assert.InDelta(t, 0, s.Map(100), 1e-9)
	assert.InDelta(t, 690, s.Map(150000), 1e-9)
	for _, v := range []float64{100, 400, 4000, 40000, 150000} {
		assert.InDelta(t, v, s.Invert(s.Map(v)), 1e-6)
	}
	// Equal ratios map to equal distances.
	assert.InDelta(t, s.Map(4000)-s.Map(400), s.Map(40000)-s.Map(4000), 1e-9)
}

func TestLogDomainValidation(t *testing.T) {
	tests := []struct {
		name   string
		d0, d1 float64
	}{
		{"zero", 0, 10},
		{"straddles", -5, 10},
		{"negative", -10, -1},
		{"nan", math.NaN(), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLog(tt.d0, tt.d1, 0, 100)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDomain))
			var de *DomainError
			assert.True(t, errors.As(err, &de))
			assert.Equal(t, "log", de.Scale)
		})
	}
}

func TestLogSetDomainKeepsPreviousOnError(t *testing.T) {
	s, err := NewLog(1, 1000, 0, 300)
	require.NoError(t, err)
	require.Error(t, s.SetDomain(0, 5))
	d0, d1 := s.Domain()
	assert.Equal(t, 1.0, d0)
	assert.Equal(t, 1000.0, d1)
}

func TestTimeScale(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	s := NewTime(t0, t1, 0, 600)
	assert.Equal(t, 0.0, s.Map(t0))
	assert.Equal(t, 600.0, s.Map(t1))

	mid := time.Date(2020, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.True(t, mid.Equal(s.Invert(s.Map(mid))))

	for _, tick := range s.Ticks(4) {
		assert.False(t, tick.Before(t0))
		assert.False(t, tick.After(t1))
	}
}

func TestBandAccountingIdentity(t *testing.T) {
	tests := []struct {
		keys       []string
		inner, out float64
		width      float64
	}{
		{[]string{"a"}, 0.3, 0.3, 400},
		{[]string{"a", "b", "c"}, 0.3, 0.3, 400},
		{[]string{"a", "b", "c", "d", "e"}, 0.1, 0.5, 730},
		{[]string{"a", "b"}, 0, 0, 100},
	}
	for _, tt := range tests {
		b := NewBand(0, tt.width).SetDomain(tt.keys...).SetPaddingInner(tt.inner).SetPaddingOuter(tt.out)
		k := float64(len(tt.keys))
		got := b.Bandwidth()*k + (k-1)*tt.inner*b.Step() + 2*tt.out*b.Step()
		assert.InDelta(t, tt.width, got, 1e-9, "keys=%v", tt.keys)
	}
}

func TestBandPositions(t *testing.T) {
	b := NewBand(0, 100).SetDomain("a", "b", "c", "d")
	assert.InDelta(t, 25, b.Bandwidth(), 1e-9)
	for i, k := range []string{"a", "b", "c", "d"} {
		x, ok := b.Map(k)
		require.True(t, ok)
		assert.InDelta(t, 25*float64(i), x, 1e-9)
	}
	_, ok := b.Map("zzz")
	assert.False(t, ok)

	c, _ := b.Center("b")
	assert.InDelta(t, 37.5, c, 1e-9)
}

func TestBandReversedRange(t *testing.T) {
	b := NewBand(100, 0).SetDomain("a", "b")
	xa, _ := b.Map("a")
	xb, _ := b.Map("b")
	assert.Greater(t, xa, xb)
}

func TestBandDuplicateKeys(t *testing.T) {
	b := NewBand(0, 90).SetDomain("a", "b", "a", "c")
	assert.Equal(t, []string{"a", "b", "c"}, b.Domain())
}

func TestOrdinal(t *testing.T) {
	o := NewOrdinal([]string{"red", "green"}, WithDomain("x", "y"))
	c, err := o.Map("x")
	require.NoError(t, err)
	assert.Equal(t, "red", c)

	_, err = o.Map("z")
	assert.True(t, errors.Is(err, ErrUnknownKey))

	// First-seen assignment, cycling through the palette.
	assert.Equal(t, "red", o.Assign("z"))
	assert.Equal(t, []string{"x", "y", "z"}, o.Domain())
}

func TestOrdinalDefault(t *testing.T) {
	o := NewOrdinal([]string{"red"}, WithDefault("gray"))
	c, err := o.Map("missing")
	require.NoError(t, err)
	assert.Equal(t, "gray", c)
}

func TestPalettes(t *testing.T) {
	set1 := Set1()
	assert.Len(t, set1, 9)
	for _, c := range set1 {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c)
	}
	assert.Equal(t, Viridis(-1), Viridis(0))
	assert.Equal(t, Viridis(2), Viridis(1))
	assert.NotEqual(t, Viridis(0), Viridis(1))
}
