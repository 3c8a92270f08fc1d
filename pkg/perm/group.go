package perm

import (
	"math/big"

	errs "github.com/matzehuels/isotower/pkg/errors"
)

// nonTrivialPoint returns the smallest point moved by some generator, or -1
// if every generator is the identity.
func nonTrivialPoint(gens []Permutation) int {
	best := -1
	for _, g := range gens {
		if m := g.firstMoved(); m >= 0 && (best < 0 || m < best) {
			best = m
		}
	}
	return best
}

// Orbit returns the orbit of a under the group generated by gens, in
// breadth-first discovery order starting with a.
func Orbit(gens []Permutation, a int) []int {
	orbit, _ := OrbitTransversal(gens, a)
	return orbit
}

// OrbitTransversal returns the orbit of a together with, for every orbit
// point b, a group element mapping a to b. The element for a is the
// identity.
func OrbitTransversal(gens []Permutation, a int) ([]int, map[int]Permutation) {
	n := a + 1
	if len(gens) > 0 {
		n = gens[0].Len()
	}
	orbit := []int{a}
	trans := map[int]Permutation{a: Identity(n)}
	for i := 0; i < len(orbit); i++ {
		b := orbit[i]
		for _, s := range gens {
			c := s.Apply(b)
			if _, ok := trans[c]; ok {
				continue
			}
			trans[c] = trans[b].Compose(s)
			orbit = append(orbit, c)
		}
	}
	return orbit, trans
}

// Stabilizer returns generators of the subgroup fixing a, built with
// Schreier's lemma from the orbit transversal. Identities and duplicates
// are dropped.
func Stabilizer(gens []Permutation, a int) []Permutation {
	orbit, trans := OrbitTransversal(gens, a)
	var out []Permutation
	seen := map[string]bool{}
	for _, b := range orbit {
		for _, s := range gens {
			h := trans[b].Compose(s).Compose(trans[s.Apply(b)].Inverse())
			if h.IsIdentity() {
				continue
			}
			key := h.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, h)
		}
	}
	return out
}

// Order returns the order of the group generated by gens. An empty list, or
// a list of identities, generates the trivial group of order 1. All
// generators must act on the same number of points.
func Order(gens []Permutation) (*big.Int, error) {
	if len(gens) == 0 {
		return big.NewInt(1), nil
	}
	c, err := NewChain(gens[0].Len(), gens)
	if err != nil {
		return nil, err
	}
	return c.Order(), nil
}

// OrderByStabilizers computes the group order with the plain
// orbit-stabilizer recursion |G| = |a^G| * |G_a|, taking a as the smallest
// moved point at each level. The Schreier generator lists grow quickly, so
// this is only practical for small groups; it serves as a reference for
// [Order].
func OrderByStabilizers(gens []Permutation) *big.Int {
	a := nonTrivialPoint(gens)
	if a < 0 {
		return big.NewInt(1)
	}
	n := big.NewInt(int64(len(Orbit(gens, a))))
	return n.Mul(n, OrderByStabilizers(Stabilizer(gens, a)))
}

func checkLengths(n int, gens []Permutation) error {
	for i, g := range gens {
		if g.Len() != n {
			return errs.Wrap(errs.ErrCodeInvalidPermutation, ErrNotBijection,
				"generator %d acts on %d points, want %d", i, g.Len(), n)
		}
	}
	return nil
}
