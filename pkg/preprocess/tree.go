package preprocess

import (
	"errors"
	"math/big"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	"github.com/matzehuels/isotower/pkg/perm"
)

// ErrNotTree is returned by the tree functions for graphs that are not
// trees.
var ErrNotTree = errors.New("graph is not a tree")

// IsTree reports whether g is connected with exactly one edge fewer than
// vertices. The empty graph is not a tree.
func IsTree(g *graph.Graph) bool {
	n := g.Order()
	return n > 0 && g.Size() == n-1 && g.IsConnected()
}

// Centers returns the one or two centers of tree g, found by repeatedly
// stripping all leaves.
func Centers(g *graph.Graph) []int {
	n := g.Order()
	if n <= 2 {
		return perm.Seq(n)
	}
	deg := g.Degrees()
	var layer []int
	for v, d := range deg {
		if d <= 1 {
			layer = append(layer, v)
		}
	}
	left := n
	for left > 2 {
		left -= len(layer)
		var next []int
		for _, v := range layer {
			for _, w := range g.Neighbours(v) {
				deg[w]--
				if deg[w] == 1 {
					next = append(next, w)
				}
			}
		}
		layer = next
	}
	slices.Sort(layer)
	return layer
}

// TreeAutomorphisms counts the automorphisms of tree g exactly.
//
// With one center c the count is the number of automorphisms of g rooted
// at c. With two adjacent centers the edge between them is cut, the two
// halves are counted as rooted trees, and the product doubles when the
// halves are isomorphic.
func TreeAutomorphisms(g *graph.Graph) (*big.Int, error) {
	if !IsTree(g) {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, ErrNotTree, "%d vertices, %d edges", g.Order(), g.Size())
	}
	_, aut := newNamer().canonical(g)
	return aut, nil
}

// TreesIsomorphic decides isomorphism of two trees by comparing their
// center-rooted canonical names.
func TreesIsomorphic(g, h *graph.Graph) (bool, error) {
	for _, t := range []*graph.Graph{g, h} {
		if !IsTree(t) {
			return false, errs.Wrap(errs.ErrCodeInvalidInput, ErrNotTree, "%d vertices, %d edges", t.Order(), t.Size())
		}
	}
	if g.Order() != h.Order() {
		return false, nil
	}
	nm := newNamer()
	a, _ := nm.canonical(g)
	b, _ := nm.canonical(h)
	return a == b, nil
}

// namer assigns the same integer to isomorphic rooted subtrees. One namer
// must be shared by all trees being compared.
type namer struct {
	ids map[string]int
}

func newNamer() *namer { return &namer{ids: map[string]int{}} }

func (nm *namer) id(children []int) int {
	var b strings.Builder
	for i, c := range children {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(c))
	}
	key := b.String()
	if id, ok := nm.ids[key]; ok {
		return id
	}
	id := len(nm.ids)
	nm.ids[key] = id
	return id
}

// canonical returns a name identifying the unrooted tree and its
// automorphism count.
func (nm *namer) canonical(g *graph.Graph) (string, *big.Int) {
	centers := Centers(g)
	if len(centers) == 1 {
		name, aut := nm.rooted(g, centers[0], -1)
		return "c" + strconv.Itoa(name), aut
	}

	a, autA := nm.rooted(g, centers[0], centers[1])
	b, autB := nm.rooted(g, centers[1], centers[0])
	aut := new(big.Int).Mul(autA, autB)
	if a == b {
		aut.Lsh(aut, 1)
	}
	lo, hi := min(a, b), max(a, b)
	return "e" + strconv.Itoa(lo) + "," + strconv.Itoa(hi), aut
}

// rooted names the subtree of g rooted at root, ignoring the vertex
// blocked, and counts the automorphisms fixing root.
func (nm *namer) rooted(g *graph.Graph, root, blocked int) (int, *big.Int) {
	n := g.Order()
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -2
	}
	parent[root] = -1
	if blocked >= 0 {
		parent[blocked] = blocked
	}
	order := []int{root}
	for i := 0; i < len(order); i++ {
		v := order[i]
		for _, w := range g.Neighbours(v) {
			if parent[w] == -2 {
				parent[w] = v
				order = append(order, w)
			}
		}
	}

	name := make([]int, n)
	aut := make([]*big.Int, n)
	children := make([][]int, n)
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		kids := children[v]
		a := big.NewInt(1)
		for _, c := range kids {
			a.Mul(a, aut[c])
		}
		names := make([]int, len(kids))
		for k, c := range kids {
			names[k] = name[c]
		}
		slices.Sort(names)
		for lo := 0; lo < len(names); {
			hi := lo + 1
			for hi < len(names) && names[hi] == names[lo] {
				hi++
			}
			a.Mul(a, perm.Factorial(hi-lo))
			lo = hi
		}
		name[v] = nm.id(names)
		aut[v] = a
		if p := parent[v]; p >= 0 {
			children[p] = append(children[p], v)
		}
	}
	return name[root], aut[root]
}
