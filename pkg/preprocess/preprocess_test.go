package preprocess

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
)

func build(t *testing.T, n int, edges [][2]int) *graph.Graph {
	t.Helper()
	g := graph.New(n)
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func labels(g *graph.Graph) []int {
	out := make([]int, g.Order())
	for v := range out {
		out[v] = g.Vertex(v).Label
	}
	return out
}

var twinEdges = [][2]int{{0, 3}, {0, 4}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 5}, {5, 6}, {5, 7}}

func TestRemoveFalseTwins(t *testing.T) {
	g := build(t, 8, twinEdges)
	factor, classes := RemoveTwinClasses(g)

	assert.Equal(t, int64(12), factor.Int64())
	assert.Equal(t, 5, g.Order())
	assert.Equal(t, []int{0, 3, 4, 5, 6}, labels(g))
	require.Len(t, classes, 2)
	assert.Equal(t, []int{0, 1, 2}, classes[0].Members)
	assert.Equal(t, graph.TwinFalse, classes[0].Kind)
	assert.Equal(t, []int{6, 7}, classes[1].Members)

	assert.Equal(t, 3, g.Vertex(0).Twins)
	assert.Equal(t, graph.TwinFalse, g.Vertex(0).TwinKind)
	assert.Equal(t, 2, g.Vertex(4).Twins)
	assert.Equal(t, 1, g.Vertex(1).Twins)
	assert.Equal(t, 4, g.Size())
}

func TestRemoveTrueTwins(t *testing.T) {
	edges := append([][2]int{{0, 1}, {0, 2}, {1, 2}, {6, 7}}, twinEdges...)
	g := build(t, 8, edges)
	factor := RemoveTwins(g)

	assert.Equal(t, int64(12), factor.Int64())
	assert.Equal(t, []int{0, 3, 4, 5, 6}, labels(g))
	assert.Equal(t, graph.TwinTrue, g.Vertex(0).TwinKind)
	assert.Equal(t, graph.TwinTrue, g.Vertex(4).TwinKind)
}

func TestRemoveTwinsWithoutTwins(t *testing.T) {
	g := build(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	assert.Equal(t, int64(1), RemoveTwins(g).Int64())
	assert.Equal(t, 4, g.Order())
}

func TestRemoveTwinsIsolatedAndComplete(t *testing.T) {
	g := graph.New(4)
	assert.Equal(t, int64(24), RemoveTwins(g).Int64())
	assert.Equal(t, 1, g.Order())

	k4 := build(t, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})
	assert.Equal(t, int64(24), RemoveTwins(k4).Int64())
	assert.Equal(t, graph.TwinTrue, k4.Vertex(0).TwinKind)
}

func TestCouldBeIsomorphic(t *testing.T) {
	p4 := build(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	star := build(t, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}})
	p4b := build(t, 4, [][2]int{{3, 1}, {1, 0}, {0, 2}})

	assert.True(t, CouldBeIsomorphic(p4, p4b))
	assert.False(t, CouldBeIsomorphic(p4, star), "same order and size, different degrees")
	assert.False(t, CouldBeIsomorphic(p4, graph.New(5)))
	assert.False(t, CouldBeIsomorphic(p4, build(t, 4, [][2]int{{0, 1}})))
}

func TestComplementSelection(t *testing.T) {
	k4minus := build(t, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}})
	assert.True(t, ShouldComplement(k4minus))

	p4 := build(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}})
	assert.False(t, ShouldComplement(p4))

	g, h, used := SelectComplement(k4minus, k4minus.Copy())
	assert.True(t, used)
	assert.Equal(t, 1, g.Size())
	assert.Equal(t, 1, h.Size())

	g, _, used = SelectComplement(p4, p4)
	assert.False(t, used)
	assert.Same(t, p4, g)
}

func TestIsTree(t *testing.T) {
	assert.True(t, IsTree(graph.New(1)))
	assert.False(t, IsTree(graph.New(0)))
	assert.False(t, IsTree(graph.New(2)))
	assert.True(t, IsTree(build(t, 3, [][2]int{{0, 1}, {1, 2}})))
	// right edge count, but a triangle plus an isolated vertex
	assert.False(t, IsTree(build(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 0}})))
}

func TestCenters(t *testing.T) {
	assert.Equal(t, []int{2}, Centers(build(t, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}})))
	assert.Equal(t, []int{1, 2}, Centers(build(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}})))
	assert.Equal(t, []int{0}, Centers(build(t, 4, [][2]int{{0, 1}, {0, 2}, {0, 3}})))
	assert.Equal(t, []int{0, 1}, Centers(build(t, 2, [][2]int{{0, 1}})))
}

func TestTreeAutomorphisms(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  int64
	}{
		{"single vertex", 1, nil, 1},
		{"edge", 2, [][2]int{{0, 1}}, 2},
		{"path 4", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, 2},
		{"path 5", 5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}}, 2},
		{"star 5", 6, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}}, 120},
		{"three leg star", 10, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 4}, {1, 5}, {2, 6}, {2, 7}, {3, 8}, {3, 9}}, 48},
		{"asymmetric", 7, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {2, 6}}, 1},
		{"double broom", 6, [][2]int{{0, 1}, {0, 2}, {0, 3}, {3, 4}, {3, 5}}, 8},
		{"unequal halves", 5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {3, 4}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TreeAutomorphisms(build(t, tt.n, tt.edges))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestTreeAutomorphismsRejectsNonTrees(t *testing.T) {
	_, err := TreeAutomorphisms(build(t, 3, [][2]int{{0, 1}, {1, 2}, {2, 0}}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotTree))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestTreesIsomorphic(t *testing.T) {
	a := build(t, 6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {1, 5}})
	b := build(t, 6, [][2]int{{5, 4}, {4, 3}, {3, 2}, {2, 1}, {4, 0}})
	c := build(t, 6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {2, 5}})

	ok, err := TreesIsomorphic(a, b)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = TreesIsomorphic(a, c)
	require.NoError(t, err)
	assert.False(t, ok, "same degree sequence, different shape")

	ok, err = TreesIsomorphic(a, build(t, 3, [][2]int{{0, 1}, {1, 2}}))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = TreesIsomorphic(a, graph.New(2))
	assert.ErrorIs(t, err, ErrNotTree)
}
