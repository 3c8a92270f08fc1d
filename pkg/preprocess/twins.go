package preprocess

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/isotower/pkg/graph"
	"github.com/matzehuels/isotower/pkg/perm"
)

// TwinClass is a set of mutually twin vertices collapsed onto Rep.
type TwinClass struct {
	Rep     int   // Representative, as an index of the reduced graph
	Members []int // Original indices, representative first
	Kind    graph.TwinKind
}

// RemoveTwins collapses every class of twins to one representative and
// returns the factor by which automorphism and isomorphism counts of the
// reduced graph must be multiplied: the product of k! over all classes of
// size k.
//
// False twins are non-adjacent with equal neighbourhoods, true twins are
// adjacent with equal closed neighbourhoods. A vertex has twins of at most
// one kind in a simple graph. Representatives record their multiplicity and
// kind via [graph.Graph.SetTwins]; color the reduced graph with
// [graph.TwinColoring] so only equal classes can be matched.
func RemoveTwins(g *graph.Graph) *big.Int {
	factor, _ := RemoveTwinClasses(g)
	return factor
}

// RemoveTwinClasses is RemoveTwins that also reports the collapsed classes.
func RemoveTwinClasses(g *graph.Graph) (*big.Int, []TwinClass) {
	classes := findTwins(g)
	factor := big.NewInt(1)
	if len(classes) == 0 {
		return factor, nil
	}

	var drop []int
	for _, c := range classes {
		factor.Mul(factor, perm.Factorial(len(c.Members)))
		drop = append(drop, c.Members[1:]...)
	}
	remap := g.RemoveVertices(drop)
	for i := range classes {
		c := &classes[i]
		c.Rep = remap[c.Members[0]]
		g.SetTwins(c.Rep, len(c.Members), c.Kind)
	}
	return factor, classes
}

func findTwins(g *graph.Graph) []TwinClass {
	n := g.Order()
	open := make([]*bitset.BitSet, n)
	for v := range n {
		b := bitset.New(uint(n))
		for _, w := range g.Neighbours(v) {
			b.Set(uint(w))
		}
		open[v] = b
	}

	byDegree := map[int][]int{}
	for v := range n {
		byDegree[g.Degree(v)] = append(byDegree[g.Degree(v)], v)
	}

	assigned := make([]bool, n)
	var out []TwinClass
	for v := range n {
		if assigned[v] {
			continue
		}
		class := TwinClass{Members: []int{v}}
		for _, w := range byDegree[g.Degree(v)] {
			if w <= v || assigned[w] {
				continue
			}
			kind := twinKind(open, v, w)
			if kind == graph.TwinNone || (class.Kind != graph.TwinNone && kind != class.Kind) {
				continue
			}
			class.Kind = kind
			class.Members = append(class.Members, w)
			assigned[w] = true
		}
		if len(class.Members) > 1 {
			assigned[v] = true
			out = append(out, class)
		}
	}
	return out
}

// twinKind classifies the pair v, w of equal degree.
func twinKind(open []*bitset.BitSet, v, w int) graph.TwinKind {
	if !open[v].Test(uint(w)) {
		if open[v].Equal(open[w]) {
			return graph.TwinFalse
		}
		return graph.TwinNone
	}
	// Adjacent: compare closed neighbourhoods.
	cv := open[v].Clone().Set(uint(v))
	cw := open[w].Clone().Set(uint(w))
	if cv.Equal(cw) {
		return graph.TwinTrue
	}
	return graph.TwinNone
}
