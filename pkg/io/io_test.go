package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
)

const sample = `# Number of vertices:
4
# Edge list:
0,1
1,2
2,3
--- Next graph:
# Number of vertices:
3
# Edge list:
0,1:7
 1 , 2

---
`

func TestReadGRL(t *testing.T) {
	gs, err := ReadGRL(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, gs, 2)

	assert.Equal(t, 4, gs[0].Order())
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, gs[0].Edges())
	assert.Equal(t, 3, gs[1].Order())
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, gs[1].Edges())
}

func TestReadGRLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errs.Code
	}{
		{"bad count", "four\n", errs.ErrCodeInvalidFormat},
		{"negative count", "-2\n", errs.ErrCodeInvalidInput},
		{"bad edge", "3\n0;1\n", errs.ErrCodeInvalidFormat},
		{"edge out of range", "3\n0,5\n", errs.ErrCodeInvalidEdge},
		{"self loop", "3\n1,1\n", errs.ErrCodeInvalidEdge},
		{"duplicate", "3\n0,1\n1,0\n", errs.ErrCodeInvalidEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGRL(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestReadGR(t *testing.T) {
	g, err := ReadGR(strings.NewReader("2\n0,1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, g.Size())

	_, err = ReadGR(strings.NewReader(sample))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

func TestWriteGRLReadsBack(t *testing.T) {
	gs, err := ReadGRL(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGRL(&buf, gs))
	back, err := ReadGRL(&buf)
	require.NoError(t, err)
	require.Len(t, back, 2)
	for i := range gs {
		assert.Equal(t, gs[i].Edges(), back[i].Edges())
	}
}

func TestGraph6KnownStrings(t *testing.T) {
	k3, err := FromEdges(3, [][2]int{{0, 1}, {0, 2}, {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "Bw", Encode(k3))

	p3, err := FromEdges(3, [][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "Bg", Encode(p3))

	assert.Equal(t, "?", Encode(graph.New(0)))

	g, err := Decode(">>graph6<<Bw")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Size())
}

func TestGraph6LargeHeader(t *testing.T) {
	n := 100
	edges := make([][2]int, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, [2]int{i, (i + 1) % n})
	}
	g, err := FromEdges(n, edges)
	require.NoError(t, err)

	s := Encode(g)
	assert.Equal(t, byte(126), s[0])
	back, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, n, back.Order())
	assert.Equal(t, n, back.Size())
	for _, e := range edges {
		assert.True(t, back.HasEdge(e[0], e[1]))
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, s := range []string{"", "B", "Bww", "~", "B\x01"} {
		_, err := Decode(s)
		require.Error(t, err, "%q", s)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat), "%q: %v", s, err)
	}
}

func TestJSON(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(`{"vertices": 3, "edges": [[0, 1], [2, 1]]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, g.Size())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(g, &buf))
	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Edges(), back.Edges())

	_, err = ReadJSON(strings.NewReader(`{"vertices": 2, "edges": [[0, 0]]}`))
	assert.ErrorIs(t, err, graph.ErrSelfLoop)
	_, err = ReadJSON(strings.NewReader(`{`))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

func TestImportExportByExtension(t *testing.T) {
	dir := t.TempDir()
	gs, err := ReadGRL(strings.NewReader(sample))
	require.NoError(t, err)

	for _, name := range []string{"graphs.grl", "graphs.g6"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Export(path, gs))
		back, err := Import(path)
		require.NoError(t, err, name)
		require.Len(t, back, 2, name)
		assert.Equal(t, gs[1].Edges(), back[1].Edges(), name)
	}

	path := filepath.Join(dir, "one.json")
	require.NoError(t, Export(path, gs[:1]))
	back, err := Import(path)
	require.NoError(t, err)
	assert.Equal(t, gs[0].Edges(), back[0].Edges())

	assert.True(t, errs.Is(Export(path, gs), errs.ErrCodeUnsupported))
	_, err = Import(filepath.Join(dir, "x.dot"))
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))

	_, err = Import(filepath.Join(dir, "missing.grl"))
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound))
}
