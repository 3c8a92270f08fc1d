// Package pipeline runs isomorphism tournaments over lists of graphs.
//
// A tournament partitions a graph list (typically one .grl file) into
// isomorphism classes, comparing every graph only against graphs not yet
// classified. Depending on the [Task] it also counts isomorphisms per class
// or automorphisms per graph. Every pairwise answer and every count goes
// through a [cache.Cache], so re-running a tournament over the same file
// with the same configuration does no search at all.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, cache.NewKeyer(""), logger)
//	res, err := runner.Run(ctx, graphs, pipeline.Options{
//	    Task:   pipeline.TaskClassCounts,
//	    Config: iso.DefaultConfig(),
//	})
//	for _, cls := range res.Classes {
//	    fmt.Println(cls.Members, cls.Count)
//	}
package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/iso"
)

// Task selects what a tournament computes.
type Task int

const (
	// TaskClasses groups graphs into isomorphism classes.
	TaskClasses Task = iota + 1
	// TaskClassCounts groups graphs and counts the isomorphisms within each
	// class, which equals the automorphism count of any member.
	TaskClassCounts
	// TaskAutomorphisms counts automorphisms of every graph, without
	// grouping.
	TaskAutomorphisms
)

// DefaultTask is used when Options.Task is zero.
const DefaultTask = TaskClassCounts

// DefaultTTL is how long tournament results stay cached.
const DefaultTTL = 30 * 24 * time.Hour

var taskNames = map[Task]string{
	TaskClasses:       "classes",
	TaskClassCounts:   "counts",
	TaskAutomorphisms: "automorphisms",
}

// String returns the task name.
func (t Task) String() string {
	if s, ok := taskNames[t]; ok {
		return s
	}
	return fmt.Sprintf("task(%d)", int(t))
}

// ParseTask parses a task name. The empty string selects [DefaultTask].
func ParseTask(s string) (Task, error) {
	if s == "" {
		return DefaultTask, nil
	}
	for t, name := range taskNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidConfig, "invalid task %q (must be one of: classes, counts, automorphisms)", s)
}

// Options configures a tournament.
type Options struct {
	Task    Task
	Config  iso.Config
	Refresh bool          // Ignore cached answers, still store new ones
	TTL     time.Duration // Cache lifetime of new answers, DefaultTTL if zero
	Source  string        // Name shown in logs and reports, e.g. the file name
}

func (o *Options) validate() error {
	if o.Task == 0 {
		o.Task = DefaultTask
	}
	if _, ok := taskNames[o.Task]; !ok {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid task %d", int(o.Task))
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	return o.Config.Validate()
}

// Class is one set of mutually isomorphic graphs.
type Class struct {
	Members []int    // Indices into the input list, ascending
	Count   *big.Int // Isomorphisms per pair of members; nil unless counted
}

// GraphCount is the automorphism count of a single graph.
type GraphCount struct {
	Graph int
	Count *big.Int
}

// Result is the outcome of a tournament.
type Result struct {
	RunID   string
	Source  string
	Task    Task
	Graphs  int
	Classes []Class      // TaskClasses and TaskClassCounts
	Counts  []GraphCount // TaskAutomorphisms
	Stats   Stats
}

// Stats records the work a tournament did.
type Stats struct {
	Comparisons int // Pairwise isomorphism queries
	Searches    int // Queries that were not answered from cache
	CacheHits   int
	Duration    time.Duration
}

// WriteCSV writes the result as CSV with a header row. Class members are
// joined by spaces in one column.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	var rows [][]string
	switch r.Task {
	case TaskAutomorphisms:
		rows = append(rows, []string{"graph", "automorphisms"})
		for _, c := range r.Counts {
			rows = append(rows, []string{strconv.Itoa(c.Graph), c.Count.String()})
		}
	default:
		header := []string{"isomorphic graphs"}
		if r.Task == TaskClassCounts {
			header = append(header, "isomorphisms")
		}
		rows = append(rows, header)
		for _, cls := range r.Classes {
			members := make([]string, len(cls.Members))
			for i, m := range cls.Members {
				members[i] = strconv.Itoa(m)
			}
			row := []string{strings.Join(members, " ")}
			if r.Task == TaskClassCounts {
				row = append(row, cls.Count.String())
			}
			rows = append(rows, row)
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
