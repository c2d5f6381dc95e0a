// Package vizkit provides interactive data-visualization widgets built on a
// retained scene graph.
//
// Usage:
//
//	import "github.com/spektr-org/vizkit/chart"
//
//	bar, err := chart.NewBar(chart.Config{Width: 400, Height: 300, Margins: m})
//	if err := bar.Update(view, "region", "count"); err != nil { ... }
//	chart.Settle(bar)
//	render.SVG(os.Stdout, bar.Root(), 400, 300)
//
// Every widget binds records to keyed marks, recomputes its scales from the
// current dataset and reconciles marks incrementally (package join). Painting
// is left to a renderer (package render) or to the embedding host.
package vizkit

// Version is the current library version.
const Version = "0.3.0"
