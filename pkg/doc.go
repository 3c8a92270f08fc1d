// Package pkg provides the libraries behind isotower, a graph isomorphism
// and automorphism counter based on individualization and color refinement.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Core algorithms: [graph], [refine], [decide], [search], [perm]
//  2. Reductions and queries: [preprocess], [iso]
//  3. Edges: [io] for graph files, [render] for drawings
//  4. Infrastructure: [cache], [pipeline], [observability], [errors], [buildinfo]
//
// # Architecture
//
// A query flows through the packages like this:
//
//	.gr / graph6 / JSON
//	         ↓
//	    [io] (decode into a graph.Graph)
//	         ↓
//	    [preprocess] (quick reject, tree shortcut, twins, complement)
//	         ↓
//	    [search] (individualize, refine with [refine], judge with [decide])
//	         ↓
//	    [perm] (group order from the generators found)
//	         ↓
//	    *big.Int count or yes/no
//
// [pipeline] runs many queries over a list of graphs and caches each answer
// in [cache], keyed by the graph6 encodings and the query configuration.
//
// # Quick Start
//
//	g, _ := io.Decode("IheA@GUAo") // Petersen graph
//	n, err := iso.CountAutomorphisms(ctx, g, iso.DefaultConfig())
//	// n = 120
package pkg
