// Package iso answers isomorphism and automorphism queries on graphs.
//
// Each query runs the same pipeline, controlled by a [Config]:
//
//  1. quick reject on order, size and degrees (pairs only)
//  2. tree shortcut when the input is a tree
//  3. twin removal, remembering the n! factors
//  4. complement selection for dense graphs
//  5. individualization-refinement search on the disjoint union
//
// The inputs are never modified.
//
//	n, err := iso.CountAutomorphisms(ctx, g, iso.DefaultConfig())
package iso

import (
	"context"
	"math/big"
	"time"

	"github.com/matzehuels/isotower/pkg/graph"
	"github.com/matzehuels/isotower/pkg/observability"
	"github.com/matzehuels/isotower/pkg/preprocess"
	"github.com/matzehuels/isotower/pkg/refine"
	"github.com/matzehuels/isotower/pkg/search"
)

// Query names used in reports and hooks.
const (
	QueryIsomorphic   = "isomorphic"
	QueryIsomorphisms = "isomorphisms"
	QueryAutomorphism = "automorphisms"
)

// How a query was answered.
const (
	ViaSearch = "search"
	ViaTree   = "tree"
	ViaReject = "reject"
)

// Report describes the answer to a query and how it was reached.
type Report struct {
	Query        string
	Isomorphic   bool     // For automorphism queries always true
	Count        *big.Int // Nil for pure decision queries
	Via          string
	TwinFactor   *big.Int // Product of k! over removed twin classes, 1 if none
	Complemented bool
	Searches     []search.Stats
	Duration     time.Duration
}

// AreIsomorphic reports whether g and h are isomorphic.
func AreIsomorphic(ctx context.Context, g, h *graph.Graph, cfg Config) (bool, error) {
	r, err := Isomorphic(ctx, g, h, cfg)
	if err != nil {
		return false, err
	}
	return r.Isomorphic, nil
}

// CountIsomorphisms returns the number of isomorphisms from g to h: zero if
// they are not isomorphic and |Aut(g)| otherwise.
func CountIsomorphisms(ctx context.Context, g, h *graph.Graph, cfg Config) (*big.Int, error) {
	r, err := Isomorphisms(ctx, g, h, cfg)
	if err != nil {
		return nil, err
	}
	return r.Count, nil
}

// CountAutomorphisms returns |Aut(g)|.
func CountAutomorphisms(ctx context.Context, g *graph.Graph, cfg Config) (*big.Int, error) {
	r, err := Automorphisms(ctx, g, cfg)
	if err != nil {
		return nil, err
	}
	return r.Count, nil
}

// Isomorphic decides isomorphism and reports how.
func Isomorphic(ctx context.Context, g, h *graph.Graph, cfg Config) (*Report, error) {
	return run(ctx, QueryIsomorphic, g.Order(), cfg, func(q *query) error {
		_, err := q.pair(g, h, false)
		return err
	})
}

// Isomorphisms counts isomorphisms from g to h and reports how.
func Isomorphisms(ctx context.Context, g, h *graph.Graph, cfg Config) (*Report, error) {
	return run(ctx, QueryIsomorphisms, g.Order(), cfg, func(q *query) error {
		_, err := q.pair(g, h, true)
		return err
	})
}

// Automorphisms counts the automorphisms of g and reports how.
func Automorphisms(ctx context.Context, g *graph.Graph, cfg Config) (*Report, error) {
	return run(ctx, QueryAutomorphism, g.Order(), cfg, func(q *query) error {
		q.rep.Isomorphic = true
		return q.single(g)
	})
}

// Mappings enumerates every isomorphism from g to h as vertex bijections,
// without any reduction. Only feasible for small automorphism groups.
func Mappings(ctx context.Context, g, h *graph.Graph, cfg Config) ([]search.Bijection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g.Order() != h.Order() {
		return nil, nil
	}
	q, cancel, err := newQuery(ctx, QueryIsomorphisms, cfg)
	if err != nil {
		return nil, err
	}
	defer cancel()

	u := g.DisjointUnion(h)
	graph.DegreeColoring(u)
	res, err := q.search(u, search.Exhaustive)
	if err != nil {
		return nil, err
	}
	return res.Bijections, nil
}

type query struct {
	ctx context.Context
	cfg Config
	ref refine.Strategy
	rep *Report
}

func newQuery(ctx context.Context, name string, cfg Config) (*query, context.CancelFunc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	ref, err := refine.New(cfg.Refinement)
	if err != nil {
		return nil, nil, err
	}
	cancel := context.CancelFunc(func() {})
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	}
	q := &query{
		ctx: ctx,
		cfg: cfg,
		ref: ref,
		rep: &Report{Query: name, Via: ViaSearch, TwinFactor: big.NewInt(1)},
	}
	return q, cancel, nil
}

func run(ctx context.Context, name string, vertices int, cfg Config, body func(*query) error) (*Report, error) {
	start := time.Now()
	hooks := observability.Query()
	hooks.OnQueryStart(ctx, name, vertices)

	q, cancel, err := newQuery(ctx, name, cfg)
	if err != nil {
		hooks.OnQueryComplete(ctx, name, "", time.Since(start), err)
		return nil, err
	}
	defer cancel()

	err = body(q)
	q.rep.Duration = time.Since(start)
	hooks.OnQueryComplete(ctx, name, q.rep.Via, q.rep.Duration, err)
	if err != nil {
		return nil, err
	}
	return q.rep, nil
}

func (q *query) search(u *graph.Graph, mode search.Mode) (*search.Result, error) {
	res, err := search.Run(q.ctx, u, search.Options{
		Refiner:  q.ref,
		Mode:     mode,
		MaxNodes: q.cfg.MaxNodes,
	})
	if err != nil {
		return nil, err
	}
	q.rep.Searches = append(q.rep.Searches, res.Stats)
	return res, nil
}

// single fills the report with |Aut(g)|.
func (q *query) single(g *graph.Graph) error {
	if q.cfg.UseTreeShortcut && preprocess.IsTree(g) {
		n, err := preprocess.TreeAutomorphisms(g)
		if err != nil {
			return err
		}
		q.rep.Via, q.rep.Count = ViaTree, n
		return nil
	}

	work := g.Copy()
	coloring := q.reduce(work)
	if q.cfg.UseComplement && preprocess.ShouldComplement(work) {
		work = work.Complement()
		q.rep.Complemented = true
	}
	n, err := q.automorphisms(work, coloring)
	if err != nil {
		return err
	}
	q.rep.Count = n.Mul(n, q.rep.TwinFactor)
	return nil
}

// reduce removes twins from work if configured and returns the matching
// initial coloring.
func (q *query) reduce(work *graph.Graph) graph.Coloring {
	if !q.cfg.UseTwinRemoval {
		return graph.DegreeColoring
	}
	q.rep.TwinFactor = preprocess.RemoveTwins(work)
	return graph.TwinColoring
}

// automorphisms counts the automorphisms of the reduced graph work,
// respecting its twin metadata.
func (q *query) automorphisms(work *graph.Graph, coloring graph.Coloring) (*big.Int, error) {
	u := work.DisjointUnionWithSelf()
	coloring(u)
	res, err := q.search(u, search.Generators)
	if err != nil {
		return nil, err
	}
	return res.Count()
}

// pair decides isomorphism of g and h and, if count is set, counts the
// isomorphisms. It reports whether they are isomorphic.
func (q *query) pair(g, h *graph.Graph, count bool) (bool, error) {
	reject := func() (bool, error) {
		q.rep.Isomorphic = false
		if count {
			q.rep.Count = big.NewInt(0)
		}
		return false, nil
	}

	if g.Order() != h.Order() || (q.cfg.UseQuickReject && !preprocess.CouldBeIsomorphic(g, h)) {
		q.rep.Via = ViaReject
		return reject()
	}

	if q.cfg.UseTreeShortcut && preprocess.IsTree(g) && preprocess.IsTree(h) {
		q.rep.Via = ViaTree
		ok, err := preprocess.TreesIsomorphic(g, h)
		if err != nil {
			return false, err
		}
		if !ok {
			return reject()
		}
		q.rep.Isomorphic = true
		if count {
			n, err := preprocess.TreeAutomorphisms(g)
			if err != nil {
				return false, err
			}
			q.rep.Count = n
		}
		return true, nil
	}

	wg, wh := g.Copy(), h.Copy()
	coloring := q.reduce(wg)
	if q.cfg.UseTwinRemoval {
		fh := preprocess.RemoveTwins(wh)
		if fh.Cmp(q.rep.TwinFactor) != 0 || wg.Order() != wh.Order() {
			q.rep.Via = ViaReject
			return reject()
		}
	}
	if q.cfg.UseComplement {
		wg, wh, q.rep.Complemented = preprocess.SelectComplement(wg, wh)
	}

	u := wg.DisjointUnion(wh)
	coloring(u)
	res, err := q.search(u, search.Decide)
	if err != nil {
		return false, err
	}
	if !res.Found() {
		return reject()
	}

	q.rep.Isomorphic = true
	if count {
		n, err := q.automorphisms(wg, coloring)
		if err != nil {
			return false, err
		}
		q.rep.Count = n.Mul(n, q.rep.TwinFactor)
	}
	return true, nil
}
