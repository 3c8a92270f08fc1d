// Package graph provides the undirected graph and color partition used by
// the isomorphism engine.
//
// # Overview
//
// A [Graph] stores vertices as dense indices 0..n-1 with adjacency lists and
// carries a [Partition] that maps every vertex to a color class. Color
// refinement and the branching search mutate the partition in place and use
// [Partition.Snapshot] and [Partition.Restore] to backtrack.
//
// # Basic Usage
//
//	g := graph.New(3)
//	g.AddEdge(0, 1)
//	g.AddEdge(1, 2)
//	u := g.DisjointUnionWithSelf()
//	graph.DegreeColoring(u)
//
// # Disjoint Unions
//
// [Graph.DisjointUnion] and [Graph.DisjointUnionWithSelf] build the graph the
// search works on. Vertices of the first operand get [OriginLeft], vertices
// of the second get [OriginRight], and every vertex remembers its index in
// its own operand as the coupling id. [Graph.Mirror] finds the vertex with
// the same coupling id in the other half in O(1).
//
// # Simple Graphs
//
// Graphs created with [New] reject self-loops and parallel edges. Use
// [NewWithMode] with [Loose] to skip those checks; out-of-range endpoints
// are always rejected.
package graph
