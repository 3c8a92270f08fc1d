// Package render holds the drawing back ends for graphs and their colorings.
//
// The [dot] subpackage writes Graphviz DOT with vertices filled by color
// class, draws disjoint unions as two clusters with an optional matching
// between them, and renders DOT to SVG with the embedded Graphviz:
//
//	src := dot.ToDOT(g, dot.Options{Colored: true})
//	svg, err := dot.RenderSVG(ctx, src)
package render
