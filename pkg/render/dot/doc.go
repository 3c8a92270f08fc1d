// Package dot renders colored graphs as Graphviz diagrams.
//
// # Overview
//
// [ToDOT] turns a [graph.Graph] into undirected DOT source. Vertices are
// filled by their current partition color, so a refined graph shows its
// color classes at a glance. Disjoint unions are drawn as two clusters, one
// per operand, and an optional matching (for example a bijection found by
// the search) is drawn as dashed edges between them.
//
// # Usage
//
//	u := g.DisjointUnion(h)
//	refine.Fast{}.Refine(u)
//	src := dot.ToDOT(u, dot.Options{Colored: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz binary is needed.
package dot
