package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/spektr-org/vizkit"
	"github.com/spektr-org/vizkit/scene"
)

// PNGOption configures raster output.
type PNGOption func(*pngConfig)

type pngConfig struct {
	scale      float64
	background string
	fontPath   string
	fontSize   float64
}

// WithScale multiplies the output resolution.
func WithScale(s float64) PNGOption {
	return func(c *pngConfig) {
		if s > 0 {
			c.scale = s
		}
	}
}

// WithBackground sets the canvas color. Empty keeps it transparent.
func WithBackground(color string) PNGOption {
	return func(c *pngConfig) { c.background = color }
}

// WithFont loads a TrueType/OpenType face for text nodes. Without a font,
// text nodes are not painted.
func WithFont(path string, size float64) PNGOption {
	return func(c *pngConfig) {
		c.fontPath = path
		c.fontSize = size
	}
}

var namedColors = map[string]string{
	"white": "#ffffff",
	"black": "#000000",
	"grey":  "#808080",
	"gray":  "#808080",
	"gold":  "#ffd700",
}

// parseColor resolves a hex or named color. "none" and "" paint nothing.
func parseColor(s string) (gg.RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return gg.RGBA{}, false
	}
	return gg.Hex(s), true
}

// PNG rasterizes root into a width x height image.
func PNG(w io.Writer, root *scene.Node, width, height int, opts ...PNGOption) error {
	cfg := &pngConfig{scale: 1, background: "#ffffff", fontSize: 12}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx := gg.NewContext(int(math.Ceil(float64(width)*cfg.scale)), int(math.Ceil(float64(height)*cfg.scale)))
	defer ctx.Close()

	if bg, ok := parseColor(cfg.background); ok {
		ctx.ClearWithColor(bg)
	}
	if cfg.fontPath != "" {
		if err := ctx.LoadFontFace(cfg.fontPath, cfg.fontSize*cfg.scale); err != nil {
			return fmt.Errorf("render: load font %s: %w", cfg.fontPath, err)
		}
	} else {
		vizkit.Logger().Debug("render: no font configured, text nodes skipped")
	}
	ctx.Scale(cfg.scale, cfg.scale)

	p := &painter{ctx: ctx, hasFont: cfg.fontPath != ""}
	if err := p.paint(root, 1); err != nil {
		return err
	}
	if err := ctx.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

type painter struct {
	ctx     *gg.Context
	hasFont bool
}

func (p *painter) paint(n *scene.Node, opacity float64) error {
	if n == nil || n.Hidden {
		return nil
	}
	ctx := p.ctx
	ctx.Push()
	defer ctx.Pop()

	if !n.Transform.IsIdentity() {
		ctx.Translate(n.Transform.TX, n.Transform.TY)
		if n.Transform.Rotate != 0 {
			ctx.Rotate(n.Transform.Rotate * math.Pi / 180)
		}
	}
	alpha := opacity * n.Style.Opacity

	switch n.Kind {
	case scene.KindGroup:
		for _, c := range n.Children {
			if err := p.paint(c, alpha); err != nil {
				return err
			}
		}
		return nil
	case scene.KindRect:
		ctx.DrawRectangle(n.X, n.Y, math.Max(n.Width, 0), math.Max(n.Height, 0))
	case scene.KindCircle:
		ctx.DrawCircle(n.X, n.Y, math.Max(n.R, 0))
	case scene.KindLine:
		ctx.MoveTo(n.X, n.Y)
		ctx.LineTo(n.X2, n.Y2)
	case scene.KindPath:
		for _, poly := range n.Path.Flatten(0) {
			for i, pt := range poly {
				if i == 0 {
					ctx.MoveTo(pt[0], pt[1])
				} else {
					ctx.LineTo(pt[0], pt[1])
				}
			}
		}
	case scene.KindText:
		p.text(n, alpha)
		return nil
	}
	return p.fillStroke(n, alpha)
}

func (p *painter) fillStroke(n *scene.Node, alpha float64) error {
	ctx := p.ctx
	defer ctx.ClearPath()

	if n.Kind != scene.KindLine {
		if c, ok := parseColor(n.Style.Fill); ok {
			ctx.SetRGBA(c.R, c.G, c.B, c.A*alpha)
			if err := ctx.FillPreserve(); err != nil {
				return fmt.Errorf("render: fill %s: %w", n.Kind, err)
			}
		}
	}
	if c, ok := parseColor(n.Style.Stroke); ok {
		width := n.Style.StrokeWidth
		if width <= 0 {
			width = 1
		}
		ctx.SetRGBA(c.R, c.G, c.B, c.A*alpha)
		ctx.SetLineWidth(width)
		if err := ctx.StrokePreserve(); err != nil {
			return fmt.Errorf("render: stroke %s: %w", n.Kind, err)
		}
	}
	return nil
}

func (p *painter) text(n *scene.Node, alpha float64) {
	if !p.hasFont || n.Text == "" {
		return
	}
	fill := n.Style.Fill
	if fill == "" {
		fill = "#000000"
	}
	c, ok := parseColor(fill)
	if !ok {
		return
	}
	p.ctx.SetRGBA(c.R, c.G, c.B, c.A*alpha)

	ax := 0.0
	switch n.Style.Anchor {
	case "middle":
		ax = 0.5
	case "end":
		ax = 1
	}
	p.ctx.DrawStringAnchored(n.Text, n.X, n.Y, ax, 0)
}
