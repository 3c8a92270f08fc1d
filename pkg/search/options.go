package search

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/refine"
)

// Mode selects how much of the search tree is explored.
type Mode int

const (
	// Decide stops at the first bijected leaf.
	Decide Mode = iota
	// Generators collects a generating set of the automorphism group.
	Generators
	// Exhaustive collects every isomorphism.
	Exhaustive
)

func (m Mode) String() string {
	switch m {
	case Decide:
		return "decide"
	case Generators:
		return "generators"
	case Exhaustive:
		return "exhaustive"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decide":
		return Decide, nil
	case "generators", "":
		return Generators, nil
	case "exhaustive":
		return Exhaustive, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidConfig, "unknown search mode %q", s)
}

// Policy is the deterministic tie-break used when choosing the branching
// class, its representative, and the candidate order. Counts do not depend
// on the policy.
type Policy int

const (
	// PolicyFirst prefers the smallest color id, the first left vertex in
	// class order, and candidates in class order.
	PolicyFirst Policy = iota
	// PolicyLast prefers the largest color id, the last left vertex, and
	// candidates in reverse class order.
	PolicyLast
)

// DefaultProgressEvery is the node interval between progress callbacks.
const DefaultProgressEvery = 1024

// Options configures a search.
type Options struct {
	// Refiner stabilizes the coloring at every node. Nil selects refine.Fast.
	Refiner refine.Strategy

	// Mode selects the exploration strategy.
	Mode Mode

	// Policy selects the tie-break.
	Policy Policy

	// MaxNodes aborts the search after this many nodes. Zero means no limit.
	MaxNodes int

	// Progress, if set, is called every ProgressEvery nodes.
	Progress func(Stats)

	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
}

func (o Options) withDefaults() Options {
	if o.Refiner == nil {
		o.Refiner = refine.Fast{}
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	return o
}

// Stats describes the work done by a search.
type Stats struct {
	Nodes    int           // Nodes visited, each running one refinement
	Leaves   int           // Bijected leaves reached
	Pruned   int           // Candidates skipped because they were in the orbit of x
	MaxDepth int           // Deepest individualization level reached
	Elapsed  time.Duration // Wall time since the search started
}
