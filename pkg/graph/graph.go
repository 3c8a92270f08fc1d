package graph

import (
	"errors"
	"slices"

	errs "github.com/matzehuels/isotower/pkg/errors"
)

var (
	// ErrVertexRange is returned by [Graph.AddEdge] and [Graph.RemoveVertex]
	// when a vertex index does not belong to the graph.
	ErrVertexRange = errors.New("vertex not in graph")

	// ErrSelfLoop is returned by [Graph.AddEdge] in [Simple] mode when both
	// endpoints are the same vertex.
	ErrSelfLoop = errors.New("self-loops are not allowed")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] in [Simple] mode when
	// the edge already exists.
	ErrDuplicateEdge = errors.New("parallel edges are not allowed")
)

// Mode selects which structural checks [Graph.AddEdge] performs.
type Mode int

const (
	// Simple rejects self-loops and parallel edges.
	Simple Mode = iota
	// Loose only rejects endpoints outside the graph.
	Loose
)

// Origin tags which operand of a disjoint union a vertex came from.
type Origin uint8

const (
	// OriginNone marks vertices of a graph that is not a disjoint union.
	OriginNone Origin = 0
	// OriginLeft marks vertices of the first operand.
	OriginLeft Origin = 1
	// OriginRight marks vertices of the second operand.
	OriginRight Origin = 2
)

// TwinKind records how a twin class collapsed onto its representative.
type TwinKind uint8

const (
	// TwinNone marks a vertex that represents only itself.
	TwinNone TwinKind = iota
	// TwinFalse marks a representative of pairwise non-adjacent twins.
	TwinFalse
	// TwinTrue marks a representative of pairwise adjacent twins.
	TwinTrue
)

// Vertex is the per-vertex metadata. The vertex identity is its index in
// the graph; Label survives vertex removal and disjoint unions.
type Vertex struct {
	Label    int      // Stable identifier, initially the index at creation
	Origin   Origin   // Operand of a disjoint union, OriginNone otherwise
	Coupling int      // Index within its own operand
	Twins    int      // Number of original vertices this vertex stands for (>= 1)
	TwinKind TwinKind // How the twins were related, TwinNone if Twins == 1
}

// Graph is an undirected graph over vertices 0..n-1 together with the
// current color partition of those vertices.
//
// The zero value is not usable; use [New] or [NewWithMode].
// Graph is not safe for concurrent use.
type Graph struct {
	mode     Mode
	vertices []Vertex
	adj      [][]int
	edges    int
	split    int // number of OriginLeft vertices in a disjoint union, 0 otherwise
	part     *Partition
}

// New creates a simple graph with n isolated vertices, all colored 0.
func New(n int) *Graph {
	return NewWithMode(n, Simple)
}

// NewWithMode creates a graph with n isolated vertices using the given mode.
func NewWithMode(n int, mode Mode) *Graph {
	g := &Graph{
		mode:     mode,
		vertices: make([]Vertex, n),
		adj:      make([][]int, n),
	}
	for i := range g.vertices {
		g.vertices[i] = Vertex{Label: i, Coupling: i, Twins: 1}
	}
	g.part = newPartition(n)
	return g
}

// Mode returns the structural-check mode of g.
func (g *Graph) Mode() Mode { return g.mode }

// Order returns the number of vertices.
func (g *Graph) Order() int { return len(g.vertices) }

// Size returns the number of edges.
func (g *Graph) Size() int { return g.edges }

// AddVertex appends an isolated vertex with color 0 and returns its index.
func (g *Graph) AddVertex() int {
	v := len(g.vertices)
	g.vertices = append(g.vertices, Vertex{Label: v, Coupling: v, Twins: 1})
	g.adj = append(g.adj, nil)
	g.part.grow(v)
	return v
}

// AddEdge adds the undirected edge u-v.
//
// It returns an error coded INVALID_EDGE wrapping [ErrVertexRange] if either
// endpoint is not a vertex of g, and in [Simple] mode wrapping [ErrSelfLoop]
// or [ErrDuplicateEdge] for loops and parallel edges.
func (g *Graph) AddEdge(u, v int) error {
	if !g.has(u) || !g.has(v) {
		return errs.Wrap(errs.ErrCodeInvalidEdge, ErrVertexRange, "edge %d-%d", u, v)
	}
	if g.mode == Simple {
		if u == v {
			return errs.Wrap(errs.ErrCodeInvalidEdge, ErrSelfLoop, "edge %d-%d", u, v)
		}
		if g.HasEdge(u, v) {
			return errs.Wrap(errs.ErrCodeInvalidEdge, ErrDuplicateEdge, "edge %d-%d", u, v)
		}
	}
	g.adj[u] = append(g.adj[u], v)
	if u != v {
		g.adj[v] = append(g.adj[v], u)
	}
	g.edges++
	return nil
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if !g.has(u) || !g.has(v) {
		return false
	}
	a, b := u, v
	if len(g.adj[a]) > len(g.adj[b]) {
		a, b = b, a
	}
	return slices.Contains(g.adj[a], b)
}

// Neighbours returns the vertices adjacent to v. The slice is owned by the
// graph and must not be modified.
func (g *Graph) Neighbours(v int) []int { return g.adj[v] }

// Degree returns the number of neighbours of v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// Vertex returns the metadata of v.
func (g *Graph) Vertex(v int) Vertex { return g.vertices[v] }

// SetTwins records that v stands for n original vertices related by kind.
func (g *Graph) SetTwins(v, n int, kind TwinKind) {
	g.vertices[v].Twins = n
	g.vertices[v].TwinKind = kind
}

// Edges returns every edge once as a pair (u, v) with u <= v, ordered by u
// then by insertion.
func (g *Graph) Edges() [][2]int {
	out := make([][2]int, 0, g.edges)
	for u, ns := range g.adj {
		for _, v := range ns {
			if u <= v {
				out = append(out, [2]int{u, v})
			}
		}
	}
	return out
}

// Degrees returns the degree of every vertex, indexed by vertex.
func (g *Graph) Degrees() []int {
	out := make([]int, len(g.adj))
	for v, ns := range g.adj {
		out[v] = len(ns)
	}
	return out
}

// RemoveVertex removes v and all incident edges. Vertices after v shift down
// by one index; labels are preserved.
func (g *Graph) RemoveVertex(v int) error {
	if !g.has(v) {
		return errs.Wrap(errs.ErrCodeInvalidInput, ErrVertexRange, "remove vertex %d", v)
	}
	g.RemoveVertices([]int{v})
	return nil
}

// RemoveVertices removes every listed vertex and its incident edges in one
// pass and returns the mapping from old to new indices (-1 for removed
// vertices). Indices outside the graph are ignored.
//
// The partition is rebuilt from the surviving vertices' colors.
func (g *Graph) RemoveVertices(vs []int) []int {
	gone := make([]bool, len(g.vertices))
	for _, v := range vs {
		if g.has(v) {
			gone[v] = true
		}
	}

	remap := make([]int, len(g.vertices))
	next := 0
	for v := range g.vertices {
		if gone[v] {
			remap[v] = -1
			continue
		}
		remap[v] = next
		next++
	}

	vertices := make([]Vertex, 0, next)
	adj := make([][]int, 0, next)
	colors := make([]int, 0, next)
	edges := 0
	for v, meta := range g.vertices {
		if gone[v] {
			continue
		}
		ns := make([]int, 0, len(g.adj[v]))
		for _, w := range g.adj[v] {
			if !gone[w] {
				ns = append(ns, remap[w])
				if v <= w {
					edges++
				}
			}
		}
		vertices = append(vertices, meta)
		adj = append(adj, ns)
		colors = append(colors, g.part.color[v])
	}

	g.vertices = vertices
	g.adj = adj
	g.edges = edges
	g.split = 0
	g.part.SetColors(colors)
	return remap
}

// Copy returns a deep copy of g including its partition.
func (g *Graph) Copy() *Graph {
	c := &Graph{
		mode:     g.mode,
		vertices: slices.Clone(g.vertices),
		adj:      make([][]int, len(g.adj)),
		edges:    g.edges,
		split:    g.split,
		part:     g.part.clone(),
	}
	for v, ns := range g.adj {
		c.adj[v] = slices.Clone(ns)
	}
	return c
}

// Complement returns the simple complement of g: same vertices (with their
// metadata and colors), an edge wherever g has none. Self-loops of g are
// dropped.
func (g *Graph) Complement() *Graph {
	n := len(g.vertices)
	c := &Graph{
		mode:     Simple,
		vertices: slices.Clone(g.vertices),
		adj:      make([][]int, n),
		split:    g.split,
		part:     g.part.clone(),
	}
	mark := make([]bool, n)
	for u := 0; u < n; u++ {
		for _, w := range g.adj[u] {
			mark[w] = true
		}
		for v := u + 1; v < n; v++ {
			if !mark[v] {
				c.adj[u] = append(c.adj[u], v)
				c.adj[v] = append(c.adj[v], u)
				c.edges++
			}
		}
		for _, w := range g.adj[u] {
			mark[w] = false
		}
	}
	return c
}

// DisjointUnion returns a new graph holding a copy of g (origin left) and a
// copy of h (origin right). Each vertex keeps its index within its operand
// as coupling id. All vertices start with color 0.
func (g *Graph) DisjointUnion(h *Graph) *Graph {
	n, m := len(g.vertices), len(h.vertices)
	u := NewWithMode(n+m, g.mode)
	u.split = n
	for v := 0; v < n; v++ {
		meta := g.vertices[v]
		meta.Origin, meta.Coupling = OriginLeft, v
		u.vertices[v] = meta
		u.adj[v] = slices.Clone(g.adj[v])
	}
	for v := 0; v < m; v++ {
		meta := h.vertices[v]
		meta.Origin, meta.Coupling = OriginRight, v
		u.vertices[n+v] = meta
		ns := make([]int, len(h.adj[v]))
		for i, w := range h.adj[v] {
			ns[i] = n + w
		}
		u.adj[n+v] = ns
	}
	u.edges = g.edges + h.edges
	return u
}

// DisjointUnionWithSelf returns the disjoint union of g with a copy of itself.
func (g *Graph) DisjointUnionWithSelf() *Graph {
	return g.DisjointUnion(g)
}

// IsUnion reports whether g was built by [Graph.DisjointUnion].
func (g *Graph) IsUnion() bool {
	return g.split > 0 || (len(g.vertices) > 0 && g.vertices[0].Origin != OriginNone)
}

// Half returns the vertices of the given origin in index order.
func (g *Graph) Half(o Origin) []int {
	var out []int
	for v, meta := range g.vertices {
		if meta.Origin == o {
			out = append(out, v)
		}
	}
	return out
}

// Mirror returns the vertex in the other half of a disjoint union that has
// the same coupling id as v, or -1 if there is none.
func (g *Graph) Mirror(v int) int {
	if !g.has(v) || g.split == 0 {
		return -1
	}
	meta := g.vertices[v]
	var w int
	switch meta.Origin {
	case OriginLeft:
		w = g.split + meta.Coupling
	case OriginRight:
		w = meta.Coupling
	default:
		return -1
	}
	if !g.has(w) || g.vertices[w].Coupling != meta.Coupling || g.vertices[w].Origin == meta.Origin {
		return -1
	}
	return w
}

// Components returns the connected components of g, each in ascending
// vertex order, ordered by their smallest vertex.
func (g *Graph) Components() [][]int {
	seen := make([]bool, len(g.vertices))
	var out [][]int
	for s := range g.vertices {
		if seen[s] {
			continue
		}
		comp := []int{s}
		seen[s] = true
		for i := 0; i < len(comp); i++ {
			for _, w := range g.adj[comp[i]] {
				if !seen[w] {
					seen[w] = true
					comp = append(comp, w)
				}
			}
		}
		slices.Sort(comp)
		out = append(out, comp)
	}
	return out
}

// IsConnected reports whether g has at most one connected component.
func (g *Graph) IsConnected() bool {
	return len(g.Components()) <= 1
}

// Partition returns the color partition of g.
func (g *Graph) Partition() *Partition { return g.part }

// Color returns the current color of v.
func (g *Graph) Color(v int) int { return g.part.color[v] }

// Snapshot captures the current partition. See [Partition.Snapshot].
func (g *Graph) Snapshot() Snapshot { return g.part.Snapshot() }

// Restore resets the partition to s. See [Partition.Restore].
func (g *Graph) Restore(s Snapshot) { g.part.Restore(s) }

func (g *Graph) has(v int) bool { return v >= 0 && v < len(g.vertices) }
