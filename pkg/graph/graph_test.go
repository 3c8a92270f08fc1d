package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/isotower/pkg/errors"
)

func path(n int) *Graph {
	g := New(n)
	for i := 0; i+1 < n; i++ {
		_ = g.AddEdge(i, i+1)
	}
	return g
}

func TestAddEdge(t *testing.T) {
	g := New(3)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(2, 1))

	assert.Equal(t, 2, g.Size())
	assert.True(t, g.HasEdge(1, 0))
	assert.False(t, g.HasEdge(0, 2))
	assert.Equal(t, []int{0, 2}, g.Neighbours(1))
	assert.Equal(t, 2, g.Degree(1))
}

func TestAddEdgeErrors(t *testing.T) {
	tests := []struct {
		name     string
		u, v     int
		sentinel error
	}{
		{"self loop", 1, 1, ErrSelfLoop},
		{"duplicate", 1, 0, ErrDuplicateEdge},
		{"out of range", 0, 7, ErrVertexRange},
		{"negative", -1, 0, ErrVertexRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(3)
			require.NoError(t, g.AddEdge(0, 1))
			err := g.AddEdge(tt.u, tt.v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidEdge))
			assert.Equal(t, 1, g.Size(), "failed insert must not change the graph")
		})
	}
}

func TestLooseModeAllowsLoopsAndParallelEdges(t *testing.T) {
	g := NewWithMode(2, Loose)
	require.NoError(t, g.AddEdge(0, 0))
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(0, 1))
	assert.Equal(t, 3, g.Size())
	assert.Error(t, g.AddEdge(0, 2))
}

func TestAddVertex(t *testing.T) {
	g := New(1)
	v := g.AddVertex()
	assert.Equal(t, 1, v)
	require.NoError(t, g.AddEdge(0, v))
	assert.Equal(t, 0, g.Color(v))
	assert.Equal(t, []int{0, 1}, g.Partition().Class(0))
}

func TestRemoveVertex(t *testing.T) {
	g := path(4)
	require.NoError(t, g.RemoveVertex(1))

	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 1, g.Size())
	assert.Equal(t, []int{0, 2, 3}, []int{g.Vertex(0).Label, g.Vertex(1).Label, g.Vertex(2).Label})
	assert.True(t, g.HasEdge(1, 2))
	assert.Equal(t, 0, g.Degree(0))

	err := g.RemoveVertex(9)
	assert.True(t, errors.Is(err, ErrVertexRange))
}

func TestRemoveVerticesKeepsColors(t *testing.T) {
	g := path(5)
	DegreeColoring(g)
	remap := g.RemoveVertices([]int{0, 4})

	assert.Equal(t, []int{-1, 0, 1, 2, -1}, remap)
	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 2, g.Size())
	// colors were degrees of the original path: 2, 2, 2
	assert.Equal(t, []int{2, 2, 2}, g.Partition().Colors())
	assert.Equal(t, []int{0, 1, 2}, g.Partition().Class(2))
}

func TestDisjointUnion(t *testing.T) {
	g := path(3)
	h := New(2)
	require.NoError(t, h.AddEdge(0, 1))

	u := g.DisjointUnion(h)
	assert.Equal(t, 5, u.Order())
	assert.Equal(t, 3, u.Size())
	assert.True(t, u.IsUnion())
	assert.Equal(t, []int{0, 1, 2}, u.Half(OriginLeft))
	assert.Equal(t, []int{3, 4}, u.Half(OriginRight))
	assert.True(t, u.HasEdge(3, 4))
	assert.False(t, u.HasEdge(2, 3))
	assert.Equal(t, 1, u.Vertex(4).Coupling)
	assert.Equal(t, OriginRight, u.Vertex(4).Origin)
}

func TestMirror(t *testing.T) {
	g := path(4)
	u := g.DisjointUnionWithSelf()
	for v := 0; v < 4; v++ {
		assert.Equal(t, v+4, u.Mirror(v))
		assert.Equal(t, v, u.Mirror(v+4))
	}
	assert.Equal(t, -1, g.Mirror(0), "plain graph has no mirror")

	h := path(2)
	mixed := g.DisjointUnion(h)
	assert.Equal(t, 4, mixed.Mirror(0))
	assert.Equal(t, -1, mixed.Mirror(3), "no right vertex with coupling 3")
}

func TestSnapshotRestore(t *testing.T) {
	u := path(4).DisjointUnionWithSelf()
	DegreeColoring(u)
	before := u.Partition().Colors()
	beforeShape := u.Partition().Shape()
	next := u.Partition().Next()

	snap := u.Snapshot()
	c := u.Partition().Split([]int{1, 5})
	assert.Equal(t, next, c)
	assert.NotEqual(t, before, u.Partition().Colors())

	u.Restore(snap)
	assert.Equal(t, before, u.Partition().Colors())
	assert.Equal(t, beforeShape, u.Partition().Shape())
	assert.Equal(t, next, u.Partition().Next())
	assert.Equal(t, []int{1, 2, 5, 6}, u.Partition().Class(2), "class order restored")

	// A snapshot can be restored more than once.
	u.Partition().Move(0, 2)
	u.Restore(snap)
	assert.Equal(t, before, u.Partition().Colors())
}

func TestCopyIsolation(t *testing.T) {
	g := path(3)
	DegreeColoring(g)
	c := g.Copy()
	require.NoError(t, c.AddEdge(0, 2))
	c.Partition().Move(0, 9)

	assert.Equal(t, 2, g.Size())
	assert.Equal(t, 1, g.Color(0))
	assert.Equal(t, 3, c.Size())
	assert.Equal(t, 9, c.Color(0))
}

func TestComplement(t *testing.T) {
	g := path(4)
	c := g.Complement()
	assert.Equal(t, 6-3, c.Size())
	assert.True(t, c.HasEdge(0, 2))
	assert.True(t, c.HasEdge(0, 3))
	assert.True(t, c.HasEdge(1, 3))
	assert.False(t, c.HasEdge(0, 1))
	assert.Equal(t, g.Size(), c.Complement().Size())
}

func TestComponents(t *testing.T) {
	g := New(5)
	require.NoError(t, g.AddEdge(0, 3))
	require.NoError(t, g.AddEdge(4, 1))
	assert.Equal(t, [][]int{{0, 3}, {1, 4}, {2}}, g.Components())
	assert.False(t, g.IsConnected())
	assert.True(t, path(3).IsConnected())
	assert.True(t, New(0).IsConnected())
}

func TestTwinColoring(t *testing.T) {
	g := path(3)
	g.SetTwins(0, 3, TwinFalse)
	TwinColoring(g)
	// keys: v0 (1,3,false) v1 (2,1,none) v2 (1,1,none)
	assert.Equal(t, []int{1, 2, 0}, g.Partition().Colors())
}

func TestPartitionMoveDropsEmptyClass(t *testing.T) {
	p := newPartition(2)
	p.Move(0, 5)
	p.Move(1, 5)
	assert.Equal(t, []int{5}, p.ClassIDs())
	assert.Equal(t, 6, p.Next())
	assert.Equal(t, []int{0, 1}, p.Class(5))
	assert.False(t, p.IsDiscrete())
}

func TestShapeIgnoresColorIDs(t *testing.T) {
	a := newPartition(4)
	a.SetColors([]int{0, 1, 0, 1})
	b := newPartition(4)
	b.SetColors([]int{7, 3, 7, 3})
	assert.Equal(t, a.Shape(), b.Shape())
	assert.Equal(t, [][]int{{0, 2}, {1, 3}}, a.Shape())
}
