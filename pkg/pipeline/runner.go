package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/isotower/pkg/cache"
	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	graphio "github.com/matzehuels/isotower/pkg/io"
	"github.com/matzehuels/isotower/pkg/iso"
)

// DefaultKeyer namespaces the keys isotower writes.
var DefaultKeyer = cache.NewKeyer("isotower:")

// Runner executes queries and tournaments with caching.
//
// The Runner is stateless except for the cache and logger; several
// goroutines may share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// logger logs through log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Query is a single cached isomorphism or automorphism query.
type Query struct {
	Name    string         // iso.QueryIsomorphic, iso.QueryIsomorphisms or iso.QueryAutomorphism
	Graphs  []*graph.Graph // Two graphs for pair queries, one for automorphisms
	Codes   []string       // Optional graph6 encodings of Graphs
	Config  iso.Config
	Refresh bool          // Skip the cache lookup
	TTL     time.Duration // Lifetime of a stored answer, zero for no expiry
}

// Answer is the cacheable outcome of a [Query].
type Answer struct {
	Isomorphic bool   `json:"isomorphic"`
	Count      string `json:"count,omitempty"` // Decimal, empty for decision queries
	Via        string `json:"via"`
	Cached     bool   `json:"-"`
}

// BigCount parses Count. It returns nil for decision answers.
func (a Answer) BigCount() (*big.Int, error) {
	if a.Count == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(a.Count, 10)
	if !ok {
		return nil, errs.New(errs.ErrCodeInternal, "malformed cached count %q", a.Count)
	}
	return n, nil
}

// keyConfig is the part of iso.Config that an answer depends on. Budgets
// only decide whether an answer is produced, not what it is.
func keyConfig(cfg iso.Config) iso.Config {
	cfg.MaxNodes, cfg.Timeout = 0, 0
	return cfg
}

// Answer returns the answer to q from the cache, or computes and stores it.
// Failed queries, including aborted searches, are never cached.
func (r *Runner) Answer(ctx context.Context, q Query) (Answer, error) {
	want := 2
	if q.Name == iso.QueryAutomorphism {
		want = 1
	}
	if len(q.Graphs) != want {
		return Answer{}, errs.New(errs.ErrCodeInvalidInput, "%s query takes %d graphs, got %d", q.Name, want, len(q.Graphs))
	}
	codes := q.Codes
	if len(codes) != len(q.Graphs) {
		codes = make([]string, len(q.Graphs))
		for i, g := range q.Graphs {
			codes[i] = graphio.Encode(g)
		}
	}
	key := r.Keyer.ResultKey(q.Name, keyConfig(q.Config), codes...)

	if !q.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var ans Answer
			if err := json.Unmarshal(data, &ans); err == nil {
				ans.Cached = true
				return ans, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}

	rep, err := r.compute(ctx, q)
	if err != nil {
		return Answer{}, err
	}
	ans := Answer{Isomorphic: rep.Isomorphic, Via: rep.Via}
	if rep.Count != nil {
		ans.Count = rep.Count.String()
	}
	if data, err := json.Marshal(ans); err == nil {
		if err := r.Cache.Set(ctx, key, data, q.TTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return ans, nil
}

func (r *Runner) compute(ctx context.Context, q Query) (*iso.Report, error) {
	switch q.Name {
	case iso.QueryIsomorphic:
		return iso.Isomorphic(ctx, q.Graphs[0], q.Graphs[1], q.Config)
	case iso.QueryIsomorphisms:
		return iso.Isomorphisms(ctx, q.Graphs[0], q.Graphs[1], q.Config)
	case iso.QueryAutomorphism:
		return iso.Automorphisms(ctx, q.Graphs[0], q.Config)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unknown query %q", q.Name)
}

// Run plays a tournament over graphs.
func (r *Runner) Run(ctx context.Context, graphs []*graph.Graph, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()
	res := &Result{
		RunID:  uuid.NewString(),
		Source: opts.Source,
		Task:   opts.Task,
		Graphs: len(graphs),
	}
	logger := r.Logger.With("run", res.RunID[:8])
	logger.Info("tournament started", "source", opts.Source, "graphs", len(graphs), "task", opts.Task)

	codes := make([]string, len(graphs))
	for i, g := range graphs {
		codes[i] = graphio.Encode(g)
	}
	t := &tournament{runner: r, opts: opts, codes: codes, graphs: graphs, res: res, logger: logger}

	var err error
	if opts.Task == TaskAutomorphisms {
		err = t.automorphisms(ctx)
	} else {
		err = t.classes(ctx)
	}
	if err != nil {
		return nil, err
	}

	res.Stats.Duration = time.Since(start)
	logger.Info("tournament finished",
		"classes", len(res.Classes),
		"comparisons", res.Stats.Comparisons,
		"searches", res.Stats.Searches,
		"cache_hits", res.Stats.CacheHits,
		"duration", res.Stats.Duration)
	return res, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type tournament struct {
	runner *Runner
	opts   Options
	codes  []string
	graphs []*graph.Graph
	res    *Result
	logger *log.Logger
}

func (t *tournament) ask(ctx context.Context, name string, idx ...int) (Answer, error) {
	q := Query{Name: name, Config: t.opts.Config, Refresh: t.opts.Refresh, TTL: t.opts.TTL}
	for _, i := range idx {
		q.Graphs = append(q.Graphs, t.graphs[i])
		q.Codes = append(q.Codes, t.codes[i])
	}
	ans, err := t.runner.Answer(ctx, q)
	if err != nil {
		return Answer{}, err
	}
	if ans.Cached {
		t.res.Stats.CacheHits++
	} else {
		t.res.Stats.Searches++
	}
	return ans, nil
}

func (t *tournament) classes(ctx context.Context) error {
	classified := make([]bool, len(t.graphs))
	for i := range t.graphs {
		if classified[i] {
			continue
		}
		classified[i] = true
		cls := Class{Members: []int{i}}
		for j := i + 1; j < len(t.graphs); j++ {
			if classified[j] {
				continue
			}
			t.res.Stats.Comparisons++
			ans, err := t.ask(ctx, iso.QueryIsomorphic, i, j)
			if err != nil {
				return fmt.Errorf("compare graphs %d and %d: %w", i, j, err)
			}
			t.logger.Debug("compared", "left", i, "right", j, "isomorphic", ans.Isomorphic, "via", ans.Via)
			if ans.Isomorphic {
				classified[j] = true
				cls.Members = append(cls.Members, j)
			}
		}

		if t.opts.Task == TaskClassCounts {
			n, err := t.count(ctx, i)
			if err != nil {
				return err
			}
			cls.Count = n
		}
		t.logger.Info("classified", "graphs", cls.Members, "count", cls.Count)
		t.res.Classes = append(t.res.Classes, cls)
	}
	return nil
}

func (t *tournament) automorphisms(ctx context.Context) error {
	for i := range t.graphs {
		n, err := t.count(ctx, i)
		if err != nil {
			return err
		}
		t.logger.Info("counted automorphisms", "graph", i, "count", n)
		t.res.Counts = append(t.res.Counts, GraphCount{Graph: i, Count: n})
	}
	return nil
}

func (t *tournament) count(ctx context.Context, i int) (*big.Int, error) {
	ans, err := t.ask(ctx, iso.QueryAutomorphism, i)
	if err != nil {
		return nil, fmt.Errorf("count automorphisms of graph %d: %w", i, err)
	}
	n, err := ans.BigCount()
	if err != nil {
		return nil, fmt.Errorf("graph %d: %w", i, err)
	}
	return n, nil
}
