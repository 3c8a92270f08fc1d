package perm

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/isotower/pkg/errors"
)

// ErrNotBijection is wrapped by every constructor error: the input does not
// describe a bijection on 0..n-1.
var ErrNotBijection = errors.New("not a bijection")

// Permutation is a bijection on 0..Len()-1 stored as its image array.
// The zero value is the identity on the empty set.
type Permutation struct {
	img []int
}

// New returns the permutation i -> img[i]. img is copied.
func New(img []int) (Permutation, error) {
	seen := make([]bool, len(img))
	for i, x := range img {
		if x < 0 || x >= len(img) {
			return Permutation{}, errs.Wrap(errs.ErrCodeInvalidPermutation, ErrNotBijection,
				"image of %d is %d, outside [0,%d)", i, x, len(img))
		}
		if seen[x] {
			return Permutation{}, errs.Wrap(errs.ErrCodeInvalidPermutation, ErrNotBijection,
				"%d is the image of two points", x)
		}
		seen[x] = true
	}
	return Permutation{img: slices.Clone(img)}, nil
}

// Identity returns the identity on n points.
func Identity(n int) Permutation {
	return Permutation{img: Seq(n)}
}

// FromCycles builds a permutation on n points from disjoint cycles.
// Points not named in any cycle are fixed.
func FromCycles(n int, cycles [][]int) (Permutation, error) {
	img := Seq(n)
	used := make([]bool, n)
	for _, cyc := range cycles {
		for k, x := range cyc {
			if x < 0 || x >= n {
				return Permutation{}, errs.Wrap(errs.ErrCodeInvalidPermutation, ErrNotBijection,
					"cycle point %d outside [0,%d)", x, n)
			}
			if used[x] {
				return Permutation{}, errs.Wrap(errs.ErrCodeInvalidPermutation, ErrNotBijection,
					"point %d appears in more than one cycle position", x)
			}
			used[x] = true
			img[x] = cyc[(k+1)%len(cyc)]
		}
	}
	return Permutation{img: img}, nil
}

// FromBijection returns the permutation on n points mapping d[k] to i[k].
// Points not in d map to themselves, which must leave the result a
// bijection.
func FromBijection(n int, d, i []int) (Permutation, error) {
	if len(d) != len(i) {
		return Permutation{}, errs.Wrap(errs.ErrCodeInvalidPermutation, ErrNotBijection,
			"domain has %d points, image has %d", len(d), len(i))
	}
	img := Seq(n)
	for k, x := range d {
		if x < 0 || x >= n {
			return Permutation{}, errs.Wrap(errs.ErrCodeInvalidPermutation, ErrNotBijection,
				"domain point %d outside [0,%d)", x, n)
		}
		img[x] = i[k]
	}
	return New(img)
}

// Len returns the number of points.
func (p Permutation) Len() int { return len(p.img) }

// Apply returns the image of i.
func (p Permutation) Apply(i int) int { return p.img[i] }

// Image returns a copy of the image array.
func (p Permutation) Image() []int { return slices.Clone(p.img) }

// Compose returns the permutation that applies p and then q. Both must act
// on the same number of points.
func (p Permutation) Compose(q Permutation) Permutation {
	if len(p.img) != len(q.img) {
		panic(fmt.Sprintf("perm: compose %d-point with %d-point permutation", len(p.img), len(q.img)))
	}
	img := make([]int, len(p.img))
	for i, x := range p.img {
		img[i] = q.img[x]
	}
	return Permutation{img: img}
}

// Inverse returns the permutation undoing p.
func (p Permutation) Inverse() Permutation {
	img := make([]int, len(p.img))
	for i, x := range p.img {
		img[x] = i
	}
	return Permutation{img: img}
}

// IsIdentity reports whether p fixes every point.
func (p Permutation) IsIdentity() bool {
	for i, x := range p.img {
		if i != x {
			return false
		}
	}
	return true
}

// Equal reports whether p and q are the same permutation.
func (p Permutation) Equal(q Permutation) bool { return slices.Equal(p.img, q.img) }

// Support returns the moved points in ascending order.
func (p Permutation) Support() []int {
	var out []int
	for i, x := range p.img {
		if i != x {
			out = append(out, i)
		}
	}
	return out
}

// firstMoved returns the smallest moved point, or -1.
func (p Permutation) firstMoved() int {
	for i, x := range p.img {
		if i != x {
			return i
		}
	}
	return -1
}

// Cycles returns the cycles of length two or more, each starting at its
// smallest point, ordered by that point.
func (p Permutation) Cycles() [][]int {
	seen := make([]bool, len(p.img))
	var out [][]int
	for s := range p.img {
		if seen[s] || p.img[s] == s {
			continue
		}
		var cyc []int
		for x := s; !seen[x]; x = p.img[x] {
			seen[x] = true
			cyc = append(cyc, x)
		}
		out = append(out, cyc)
	}
	return out
}

// String formats p in cycle notation, "()" for the identity.
func (p Permutation) String() string {
	cycles := p.Cycles()
	if len(cycles) == 0 {
		return "()"
	}
	var b strings.Builder
	for _, cyc := range cycles {
		b.WriteByte('(')
		for k, x := range cyc {
			if k > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, x)
		}
		b.WriteByte(')')
	}
	return b.String()
}
