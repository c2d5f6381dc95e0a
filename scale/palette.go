package scale

import (
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"
)

// Set1 returns the nine color qualitative ColorBrewer palette as hex strings.
func Set1() []string {
	out := make([]string, 0, len(brewer.Set1_9))
	for _, c := range brewer.Set1_9 {
		out = append(out, Hex(c))
	}
	return out
}

// Viridis returns the viridis color at position t in [0, 1]. t is clamped;
// NaN maps to the low end.
func Viridis(t float64) string {
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Hex(palette.Viridis.Map(t))
}

// Hex formats c as #rrggbb, dropping alpha.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
