// Package io reads and writes graphs in the formats isotower understands.
//
// # Formats
//
// The .gr and .grl text format holds one or more graphs. Lines starting
// with '#' are comments, a line starting with "---" separates graphs, the
// first data line of each graph is its vertex count, and every further line
// is an edge "u,v" with an optional ":weight" suffix that is ignored:
//
//	# Number of vertices:
//	4
//	# Edge list:
//	0,1
//	1,2
//	2,3
//	--- Next graph:
//	3
//	0,1:5
//
// graph6 is the compact ASCII encoding of simple undirected graphs used by
// nauty and many graph databases, one graph per line.
//
// The JSON format mirrors the edge list:
//
//	{"vertices": 4, "edges": [[0, 1], [1, 2], [2, 3]]}
//
// # Import
//
// Use [Import] to read a file chosen by extension (.gr, .grl, .g6, .json),
// or the Read* functions to read from any io.Reader:
//
//	gs, err := io.Import("cubes.grl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Vertex counts are bounded by errors.MaxVertices. Malformed input returns
// an error coded INVALID_FORMAT; invalid edges return INVALID_EDGE.
//
// # Export
//
// [WriteGRL], [Encode] and [WriteJSON] produce output that the matching
// readers accept again.
package io
