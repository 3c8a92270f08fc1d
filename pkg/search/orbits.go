package search

// unionFind tracks the orbits of the coupling ids under the automorphisms
// found so far in a subtree.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
}

func (uf *unionFind) same(a, b int) bool { return uf.find(a) == uf.find(b) }

// absorb merges every point with its image under b.
func (uf *unionFind) absorb(b Bijection) {
	for k, d := range b.D {
		uf.union(d, b.I[k])
	}
}
