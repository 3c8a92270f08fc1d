package search

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/matzehuels/isotower/pkg/decide"
	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	"github.com/matzehuels/isotower/pkg/observability"
	"github.com/matzehuels/isotower/pkg/perm"
)

var (
	// ErrNoRefinableClass is returned when a balanced, non-discrete coloring
	// has no color class with at least four members.
	ErrNoRefinableClass = errors.New("no refinable color class")

	// ErrAborted is returned when the context is done or the node budget is
	// exhausted. The error also matches the context error or an
	// *errors.BudgetError.
	ErrAborted = errors.New("search aborted")
)

// ctxCheckEvery is the node interval between context checks.
const ctxCheckEvery = 256

// Bijection maps the left coupling id D[k] to the right coupling id I[k].
// D is sorted ascending.
type Bijection struct {
	D []int
	I []int
}

// Result holds the leaves found by a search.
type Result struct {
	Mode       Mode
	Points     int // Number of vertices per half
	Bijections []Bijection
	Stats      Stats
}

// Found reports whether at least one isomorphism was found.
func (r *Result) Found() bool { return len(r.Bijections) > 0 }

// Permutations converts every bijection into a permutation of the coupling
// ids.
func (r *Result) Permutations() ([]perm.Permutation, error) {
	out := make([]perm.Permutation, 0, len(r.Bijections))
	for _, b := range r.Bijections {
		p, err := perm.FromBijection(r.Points, b.D, b.I)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Count returns the number of isomorphisms the result stands for: the group
// order of the generators in Generators mode, the number of leaves in
// Exhaustive mode, and 0 or 1 in Decide mode.
func (r *Result) Count() (*big.Int, error) {
	switch r.Mode {
	case Generators:
		if !r.Found() {
			return big.NewInt(0), nil
		}
		perms, err := r.Permutations()
		if err != nil {
			return nil, err
		}
		return perm.Order(perms)
	case Exhaustive:
		return big.NewInt(int64(len(r.Bijections))), nil
	default:
		if r.Found() {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	}
}

// Run searches the disjoint union u, starting from its current coloring.
// The coloring must not have been refined yet; Run refines it first and
// restores it before returning.
//
// u must come from [graph.Graph.DisjointUnion]. In Generators mode it must
// be the union of a graph with itself.
func Run(ctx context.Context, u *graph.Graph, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if u.Order() > 0 && !u.IsUnion() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "search needs a disjoint union of two graphs")
	}
	if opts.Mode == Generators {
		if err := checkSelfUnion(u); err != nil {
			return nil, err
		}
	}

	s := &searcher{
		ctx:   ctx,
		u:     u,
		opts:  opts,
		start: time.Now(),
		res: &Result{
			Mode:   opts.Mode,
			Points: len(u.Half(graph.OriginLeft)),
		},
	}

	hooks := observability.Search()
	hooks.OnSearchStart(ctx, opts.Mode.String(), u.Order())

	root := u.Snapshot()
	_, err := s.node(0, true)
	u.Restore(root)

	s.res.Stats.Elapsed = time.Since(s.start)
	hooks.OnSearchComplete(ctx, opts.Mode.String(), observability.SearchStats{
		Nodes:    s.res.Stats.Nodes,
		Leaves:   s.res.Stats.Leaves,
		Pruned:   s.res.Stats.Pruned,
		MaxDepth: s.res.Stats.MaxDepth,
		Duration: s.res.Stats.Elapsed,
	}, err)
	if err != nil {
		return nil, err
	}
	return s.res, nil
}

type searcher struct {
	ctx   context.Context
	u     *graph.Graph
	opts  Options
	start time.Time
	res   *Result
}

// node explores one search node. It reports whether a leaf was found in the
// subtree.
func (s *searcher) node(depth int, trivial bool) (bool, error) {
	if err := s.tick(depth); err != nil {
		return false, err
	}

	s.opts.Refiner.Refine(s.u)
	switch decide.Classify(s.u) {
	case decide.Unbalanced:
		return false, nil
	case decide.Bijected:
		s.leaf(depth)
		return true, nil
	}

	c, ok := s.pickClass()
	if !ok {
		return false, errs.Wrap(errs.ErrCodeNoRefinableClass, ErrNoRefinableClass,
			"balanced coloring with %d classes at depth %d", s.u.Partition().NumClasses(), depth)
	}
	x, cands := s.candidates(c, trivial)
	mirror := s.u.Mirror(x)

	pruning := s.opts.Mode == Generators && trivial
	var orbits *unionFind
	mark := len(s.res.Bijections)
	if pruning {
		orbits = newUnionFind(s.res.Points)
	}

	found := false
	for _, y := range cands {
		childTrivial := trivial && y == mirror
		if pruning && !childTrivial {
			for _, b := range s.res.Bijections[mark:] {
				orbits.absorb(b)
			}
			mark = len(s.res.Bijections)
			if orbits.same(s.u.Vertex(x).Coupling, s.u.Vertex(y).Coupling) {
				s.res.Stats.Pruned++
				continue
			}
		}

		snap := s.u.Snapshot()
		s.u.Partition().Split([]int{x, y})
		ok, err := s.node(depth+1, childTrivial)
		s.u.Restore(snap)
		if err != nil {
			return found, err
		}
		if !ok {
			continue
		}
		found = true
		if s.opts.Mode == Decide || (s.opts.Mode == Generators && !trivial) {
			return true, nil
		}
	}
	return found, nil
}

// tick counts a node and enforces the budget and the context.
func (s *searcher) tick(depth int) error {
	st := &s.res.Stats
	st.Nodes++
	st.MaxDepth = max(st.MaxDepth, depth)

	if s.opts.MaxNodes > 0 && st.Nodes > s.opts.MaxNodes {
		budget := &errs.BudgetError{Nodes: st.Nodes - 1, Limit: "max_nodes"}
		return errs.Wrap(errs.ErrCodeSearchAborted, fmt.Errorf("%w: %w", ErrAborted, budget),
			"node budget of %d exceeded", s.opts.MaxNodes)
	}
	if st.Nodes%ctxCheckEvery == 1 {
		if err := s.ctx.Err(); err != nil {
			return errs.Wrap(errs.ErrCodeSearchAborted, fmt.Errorf("%w: %w", ErrAborted, err),
				"stopped after %d nodes", st.Nodes-1)
		}
	}
	if s.opts.Progress != nil && st.Nodes%s.opts.ProgressEvery == 0 {
		st.Elapsed = time.Since(s.start)
		s.opts.Progress(*st)
	}
	return nil
}

func (s *searcher) leaf(depth int) {
	left, right := decide.Pairs(s.u)
	b := Bijection{D: make([]int, len(left)), I: make([]int, len(right))}
	order := make([]int, len(left))
	for k := range order {
		order[k] = k
	}
	slices.SortFunc(order, func(a, c int) int {
		return s.u.Vertex(left[a]).Coupling - s.u.Vertex(left[c]).Coupling
	})
	for k, idx := range order {
		b.D[k] = s.u.Vertex(left[idx]).Coupling
		b.I[k] = s.u.Vertex(right[idx]).Coupling
	}
	s.res.Bijections = append(s.res.Bijections, b)
	s.res.Stats.Leaves++
	observability.Search().OnLeaf(s.ctx, s.opts.Mode.String(), depth)
}

// pickClass returns the smallest class with at least four members.
func (s *searcher) pickClass() (int, bool) {
	p := s.u.Partition()
	best, size := -1, 0
	for _, c := range p.ClassIDs() {
		n := len(p.Class(c))
		if n < 4 {
			continue
		}
		if best < 0 || n < size || (n == size && s.opts.Policy == PolicyLast) {
			best, size = c, n
		}
	}
	return best, best >= 0
}

// candidates returns the representative x of class c and the right
// vertices to pair it with. At trivial nodes the mirror of x comes first.
func (s *searcher) candidates(c int, trivial bool) (int, []int) {
	cls := s.u.Partition().Class(c)
	var lefts, rights []int
	for _, v := range cls {
		switch s.u.Vertex(v).Origin {
		case graph.OriginLeft:
			lefts = append(lefts, v)
		case graph.OriginRight:
			rights = append(rights, v)
		}
	}
	x := lefts[0]
	if s.opts.Policy == PolicyLast {
		x = lefts[len(lefts)-1]
		slices.Reverse(rights)
	}
	if trivial {
		if i := slices.Index(rights, s.u.Mirror(x)); i > 0 {
			m := rights[i]
			copy(rights[1:i+1], rights[:i])
			rights[0] = m
		}
	}
	return x, rights
}

// checkSelfUnion verifies that u pairs every left vertex with a mirror and
// that mirroring preserves adjacency.
func checkSelfUnion(u *graph.Graph) error {
	left := u.Half(graph.OriginLeft)
	right := u.Half(graph.OriginRight)
	if len(left) != len(right) || len(left)+len(right) != u.Order() {
		return errs.New(errs.ErrCodeInvalidInput, "generator search needs a union of a graph with itself")
	}
	for _, v := range left {
		m := u.Mirror(v)
		if m < 0 || u.Degree(v) != u.Degree(m) {
			return errs.New(errs.ErrCodeInvalidInput, "vertex %d has no mirror in the right half", v)
		}
		for _, w := range u.Neighbours(v) {
			if !u.HasEdge(m, u.Mirror(w)) {
				return errs.New(errs.ErrCodeInvalidInput, "halves differ at edge %d-%d", v, w)
			}
		}
	}
	return nil
}
