package graph

import (
	"cmp"
	"slices"
)

// Coloring sets the starting colors of a graph before the first refinement.
type Coloring func(g *Graph)

// DegreeColoring colors every vertex by its degree.
func DegreeColoring(g *Graph) {
	g.part.SetColors(g.Degrees())
}

// UniformColoring gives every vertex color 0.
func UniformColoring(g *Graph) {
	g.part.SetColors(make([]int, g.Order()))
}

// TwinColoring colors vertices by (degree, twin multiplicity, twin kind),
// numbering the distinct triples densely in sorted order. After twin
// removal this keeps representatives of different twin classes apart.
func TwinColoring(g *Graph) {
	type key struct{ degree, twins, kind int }
	keys := make([]key, g.Order())
	for v := range keys {
		meta := g.vertices[v]
		keys[v] = key{len(g.adj[v]), meta.Twins, int(meta.TwinKind)}
	}

	distinct := slices.Clone(keys)
	slices.SortFunc(distinct, func(a, b key) int {
		return cmp.Or(cmp.Compare(a.degree, b.degree), cmp.Compare(a.twins, b.twins), cmp.Compare(a.kind, b.kind))
	})
	distinct = slices.Compact(distinct)

	ids := make(map[key]int, len(distinct))
	for i, k := range distinct {
		ids[k] = i
	}
	colors := make([]int, len(keys))
	for v, k := range keys {
		colors[v] = ids[k]
	}
	g.part.SetColors(colors)
}
