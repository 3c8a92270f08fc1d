package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
)

// jsonGraph is the JSON wire form of a graph.
type jsonGraph struct {
	Vertices int      `json:"vertices"`
	Edges    [][2]int `json:"edges"`
}

// FromEdges builds a simple graph from a vertex count and an edge list.
func FromEdges(n int, edges [][2]int) (*graph.Graph, error) {
	if err := errs.ValidateVertexCount(n); err != nil {
		return nil, err
	}
	g := graph.New(n)
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ReadJSON decodes a JSON graph from r:
//
//	{"vertices": 3, "edges": [[0, 1], [1, 2]]}
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data jsonGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return FromEdges(data.Vertices, data.Edges)
}

// WriteJSON encodes g as JSON and writes it to w. The output can be read
// back with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := jsonGraph{Vertices: g.Order(), Edges: g.Edges()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportJSON reads a JSON graph file at path.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// Import reads every graph of the file at path, choosing the format by
// extension: .gr and .grl, .g6, or .json.
func Import(path string) ([]*graph.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gr", ".grl":
		return ImportGRL(path)
	case ".g6", ".graph6":
		f, err := open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		gs, err := ReadGraph6(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return gs, nil
	case ".json":
		g, err := ImportJSON(path)
		if err != nil {
			return nil, err
		}
		return []*graph.Graph{g}, nil
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported graph file extension %q", filepath.Ext(path))
}

// Export writes graphs to path in the format chosen by its extension.
// JSON holds a single graph.
func Export(path string, gs []*graph.Graph) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gr", ".grl":
		return ExportGRL(path, gs)
	case ".g6", ".graph6":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		return WriteGraph6(f, gs)
	case ".json":
		if len(gs) != 1 {
			return errs.New(errs.ErrCodeUnsupported, "JSON holds one graph, got %d", len(gs))
		}
		return ExportJSON(gs[0], path)
	}
	return errs.New(errs.ErrCodeUnsupported, "unsupported graph file extension %q", filepath.Ext(path))
}
