// Package render paints scene trees. SVG output goes through svgo; raster
// PNG output goes through gogpu/gg's software renderer.
package render

import (
	"fmt"
	"html"
	"io"
	"math"

	svg "github.com/ajstarks/svgo/float"

	"github.com/spektr-org/vizkit/scene"
)

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes root as a standalone SVG document of the given size.
// Hidden nodes and their subtrees are skipped.
func SVG(w io.Writer, root *scene.Node, width, height int) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(float64(width), float64(height), `font-family="sans-serif"`)
	writeNode(canvas, root)
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("render: write svg: %w", ew.err)
	}
	return nil
}

// px keeps coordinates finite; svgo prints them with two decimals.
func px(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}

func attrs(n *scene.Node) []string {
	var out []string
	if n.ID != "" {
		out = append(out, attr("id", n.ID))
	}
	if n.Class != "" {
		out = append(out, attr("class", n.Class))
	}
	if t := n.Transform.String(); t != "" {
		out = append(out, attr("transform", t))
	}
	st := n.Style
	switch {
	case st.Fill != "":
		out = append(out, attr("fill", st.Fill))
	case n.Kind == scene.KindPath || n.Kind == scene.KindLine:
		out = append(out, attr("fill", "none"))
	}
	if st.Stroke != "" {
		out = append(out, attr("stroke", st.Stroke))
	}
	if st.StrokeWidth > 0 {
		out = append(out, attr("stroke-width", scene.Num(st.StrokeWidth)))
	}
	if st.Opacity != 1 {
		out = append(out, attr("opacity", scene.Num(st.Opacity)))
	}
	if st.FontSize > 0 {
		out = append(out, attr("font-size", scene.Num(st.FontSize)+"px"))
	}
	if st.Anchor != "" {
		out = append(out, attr("text-anchor", st.Anchor))
	}
	if st.Cursor != "" {
		out = append(out, attr("cursor", st.Cursor))
	}
	return out
}

func writeNode(canvas *svg.SVG, n *scene.Node) {
	if n == nil || n.Hidden {
		return
	}
	a := attrs(n)
	switch n.Kind {
	case scene.KindGroup:
		canvas.Group(a...)
		for _, c := range n.Children {
			writeNode(canvas, c)
		}
		canvas.Gend()
	case scene.KindRect:
		canvas.Rect(px(n.X), px(n.Y), px(math.Max(n.Width, 0)), px(math.Max(n.Height, 0)), a...)
	case scene.KindCircle:
		canvas.Circle(px(n.X), px(n.Y), px(math.Max(n.R, 0)), a...)
	case scene.KindLine:
		canvas.Line(px(n.X), px(n.Y), px(n.X2), px(n.Y2), a...)
	case scene.KindPath:
		canvas.Path(n.Path.String(), a...)
	case scene.KindText:
		canvas.Text(px(n.X), px(n.Y), n.Text, a...)
	}
}
