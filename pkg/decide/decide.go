// Package decide classifies the stable coloring of a disjoint union.
//
// After refinement, the union of two graphs is in one of three states:
// its halves disagree on the color multiset (no isomorphism extends the
// current coloring), they agree but some color still covers several
// vertices per half (branching must continue), or every color covers
// exactly one vertex per half and the coloring spells out a bijection.
package decide

import (
	"slices"

	"github.com/matzehuels/isotower/pkg/graph"
)

// Status is the outcome of [Classify].
type Status int

const (
	// Unbalanced means the halves carry different color multisets. This is
	// the dead end of a search branch, not an error.
	Unbalanced Status = iota
	// Balanced means the multisets agree but the coloring is not discrete.
	Balanced
	// Bijected means every color holds exactly one vertex of each half.
	Bijected
)

func (s Status) String() string {
	switch s {
	case Unbalanced:
		return "unbalanced"
	case Balanced:
		return "balanced"
	case Bijected:
		return "bijected"
	}
	return "unknown"
}

// Classify inspects the colors of the origin-left and origin-right
// vertices of u. Vertices without an origin are ignored.
func Classify(u *graph.Graph) Status {
	counts := map[int]*[2]int{}
	for v := 0; v < u.Order(); v++ {
		var side int
		switch u.Vertex(v).Origin {
		case graph.OriginLeft:
			side = 0
		case graph.OriginRight:
			side = 1
		default:
			continue
		}
		c := u.Color(v)
		k, ok := counts[c]
		if !ok {
			k = new([2]int)
			counts[c] = k
		}
		k[side]++
	}

	discrete := true
	for _, k := range counts {
		if k[0] != k[1] {
			return Unbalanced
		}
		if k[0] != 1 {
			discrete = false
		}
	}
	if discrete {
		return Bijected
	}
	return Balanced
}

// IsBalancedOrBijected returns the pair (balanced, bijected). bijected is
// only meaningful when balanced is true.
func IsBalancedOrBijected(u *graph.Graph) (balanced, bijected bool) {
	s := Classify(u)
	return s != Unbalanced, s == Bijected
}

// Pairs reads the bijection off a [Bijected] coloring: left[k] and right[k]
// share a color. Pairs are ordered by color. The result is undefined for
// other states.
func Pairs(u *graph.Graph) (left, right []int) {
	type pair struct{ l, r int }
	byColor := map[int]*pair{}
	for v := 0; v < u.Order(); v++ {
		o := u.Vertex(v).Origin
		if o == graph.OriginNone {
			continue
		}
		c := u.Color(v)
		p, ok := byColor[c]
		if !ok {
			p = &pair{-1, -1}
			byColor[c] = p
		}
		if o == graph.OriginLeft {
			p.l = v
		} else {
			p.r = v
		}
	}

	colors := make([]int, 0, len(byColor))
	for c := range byColor {
		colors = append(colors, c)
	}
	slices.Sort(colors)
	left = make([]int, 0, len(colors))
	right = make([]int, 0, len(colors))
	for _, c := range colors {
		p := byColor[c]
		left = append(left, p.l)
		right = append(right, p.r)
	}
	return left, right
}
