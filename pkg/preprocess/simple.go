package preprocess

import (
	"github.com/matzehuels/isotower/pkg/decide"
	"github.com/matzehuels/isotower/pkg/graph"
)

// CouldBeIsomorphic is a cheap necessary condition for isomorphism: equal
// vertex counts, equal edge counts, and equal degree multisets. The degree
// check colors a throwaway union; g and h are not modified.
func CouldBeIsomorphic(g, h *graph.Graph) bool {
	if g.Order() != h.Order() || g.Size() != h.Size() {
		return false
	}
	u := g.DisjointUnion(h)
	graph.DegreeColoring(u)
	balanced, _ := decide.IsBalancedOrBijected(u)
	return balanced
}

// ShouldComplement reports whether g has more than half of the possible
// edges, in which case its complement is the sparser graph with the same
// automorphism group.
func ShouldComplement(g *graph.Graph) bool {
	n := g.Order()
	return 4*g.Size() > n*(n-1)
}

// SelectComplement returns the complements of g and h when g is dense and
// the inputs otherwise. Complementing both preserves the isomorphisms
// between them. The boolean reports whether complements were taken.
func SelectComplement(g, h *graph.Graph) (*graph.Graph, *graph.Graph, bool) {
	if !ShouldComplement(g) {
		return g, h, false
	}
	return g.Complement(), h.Complement(), true
}
