package perm

import (
	"math/big"
	"slices"
)

// Chain is a base and strong generating set of a permutation group, built
// with the Schreier-Sims algorithm. Level i fixes the base points of all
// earlier levels; the group order is the product of the level orbit sizes.
type Chain struct {
	n      int
	levels []*level
}

type level struct {
	base  int
	gens  []Permutation
	orbit []int
	trans map[int]Permutation
}

func (l *level) rebuild() {
	l.orbit, l.trans = OrbitTransversal(l.gens, l.base)
}

// NewChain builds the stabilizer chain of the group generated by gens on
// n points.
func NewChain(n int, gens []Permutation) (*Chain, error) {
	if err := checkLengths(n, gens); err != nil {
		return nil, err
	}
	c := &Chain{n: n}

	var strong []Permutation
	for _, g := range gens {
		if g.IsIdentity() {
			continue
		}
		strong = append(strong, g)
		if c.fixesBase(g) {
			c.levels = append(c.levels, &level{base: g.firstMoved()})
		}
	}
	for i, l := range c.levels {
		for _, g := range strong {
			if c.fixesPrefix(g, i) {
				l.gens = append(l.gens, g)
			}
		}
		l.rebuild()
	}

	c.complete()
	return c, nil
}

// fixesBase reports whether g fixes every base point.
func (c *Chain) fixesBase(g Permutation) bool {
	return c.fixesPrefix(g, len(c.levels))
}

// fixesPrefix reports whether g fixes the base points of levels 0..k-1.
func (c *Chain) fixesPrefix(g Permutation, k int) bool {
	for _, l := range c.levels[:k] {
		if g.Apply(l.base) != l.base {
			return false
		}
	}
	return true
}

// complete runs Schreier-Sims from the deepest level upward. Every Schreier
// generator of level i must sift through levels below i; a residue is a
// new strong generator for the levels it reached, and processing restarts
// at the deepest level it touched.
func (c *Chain) complete() {
	i := len(c.levels) - 1
	for i >= 0 {
		if j, ok := c.checkLevel(i); !ok {
			i = j
			continue
		}
		i--
	}
}

// checkLevel sifts the Schreier generators of level i. On the first
// residue it extends the chain and returns the level to resume from.
func (c *Chain) checkLevel(i int) (int, bool) {
	l := c.levels[i]
	for _, b := range l.orbit {
		for _, s := range l.gens {
			h := l.trans[b].Compose(s).Compose(l.trans[s.Apply(b)].Inverse())
			r, j := c.sift(h, i+1)
			if j == len(c.levels) && r.IsIdentity() {
				continue
			}
			if j == len(c.levels) {
				c.levels = append(c.levels, &level{base: r.firstMoved()})
			}
			for k := i + 1; k <= j; k++ {
				c.levels[k].gens = append(c.levels[k].gens, r)
				c.levels[k].rebuild()
			}
			return j, false
		}
	}
	return i, true
}

// sift strips g through levels from..end. It returns the residue and the
// index of the level where sifting stopped, len(levels) if it passed all.
func (c *Chain) sift(g Permutation, from int) (Permutation, int) {
	for k := from; k < len(c.levels); k++ {
		l := c.levels[k]
		t, ok := l.trans[g.Apply(l.base)]
		if !ok {
			return g, k
		}
		g = g.Compose(t.Inverse())
	}
	return g, len(c.levels)
}

// Order returns the group order.
func (c *Chain) Order() *big.Int {
	order := big.NewInt(1)
	for _, l := range c.levels {
		order.Mul(order, big.NewInt(int64(len(l.orbit))))
	}
	return order
}

// Contains reports whether g is an element of the group.
func (c *Chain) Contains(g Permutation) bool {
	if g.Len() != c.n {
		return false
	}
	r, j := c.sift(g, 0)
	return j == len(c.levels) && r.IsIdentity()
}

// Base returns the base points in level order.
func (c *Chain) Base() []int {
	out := make([]int, len(c.levels))
	for i, l := range c.levels {
		out[i] = l.base
	}
	return out
}

// OrbitSizes returns the basic orbit length of every level.
func (c *Chain) OrbitSizes() []int {
	out := make([]int, len(c.levels))
	for i, l := range c.levels {
		out[i] = len(l.orbit)
	}
	return out
}

// StrongGenerators returns the generators of the first level, which
// generate the whole group.
func (c *Chain) StrongGenerators() []Permutation {
	if len(c.levels) == 0 {
		return nil
	}
	return slices.Clone(c.levels[0].gens)
}
