package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	graphio "github.com/matzehuels/isotower/pkg/io"
	"github.com/matzehuels/isotower/pkg/iso"
	"github.com/matzehuels/isotower/pkg/pipeline"
)

// graphArg is a command-line graph reference of the form "path[#index]".
// The index selects a graph from a multi-graph file and defaults to 0.
type graphArg struct {
	Path  string
	Index int
}

func parseGraphArg(s string) (graphArg, error) {
	arg := graphArg{Path: s}
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		idx, err := strconv.Atoi(s[i+1:])
		if err != nil || idx < 0 {
			return arg, errs.New(errs.ErrCodeInvalidInput, "bad graph index in %q", s)
		}
		arg.Path, arg.Index = s[:i], idx
	}
	if err := errs.ValidatePath(arg.Path); err != nil {
		return arg, err
	}
	return arg, nil
}

func (a graphArg) String() string {
	if a.Index == 0 {
		return filepath.Base(a.Path)
	}
	return fmt.Sprintf("%s#%d", filepath.Base(a.Path), a.Index)
}

// loadGraph reads the graph named by s.
func loadGraph(s string) (*graph.Graph, graphArg, error) {
	arg, err := parseGraphArg(s)
	if err != nil {
		return nil, arg, err
	}
	gs, err := graphio.Import(arg.Path)
	if err != nil {
		return nil, arg, err
	}
	if arg.Index >= len(gs) {
		return nil, arg, errs.New(errs.ErrCodeNotFound, "%s holds %d graphs, no index %d", arg.Path, len(gs), arg.Index)
	}
	return gs[arg.Index], arg, nil
}

// queryFlags are shared by iso, count and autom.
type queryFlags struct {
	algorithmFlags
	refresh bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	f.algorithmFlags.register(cmd)
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if the answer is cached")
}

func (c *CLI) isoCommand() *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "iso <graph> <graph>",
		Short: "Decide whether two graphs are isomorphic",
		Long: `Decide whether two graphs are isomorphic.

A graph is a file path, optionally followed by #N to pick the N-th graph of a
multi-graph file (counting from 0):

  isotower iso petersen.g6 kneser.gr
  isotower iso batch.grl#0 batch.grl#3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, &flags, iso.QueryIsomorphic, args)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) countCommand() *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "count <graph> <graph>",
		Short: "Count the isomorphisms between two graphs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, &flags, iso.QueryIsomorphisms, args)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) automCommand() *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:     "autom <graph>",
		Aliases: []string{"aut"},
		Short:   "Count the automorphisms of a graph",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, &flags, iso.QueryAutomorphism, args)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runQuery(cmd *cobra.Command, flags *queryFlags, name string, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := flags.apply(cmd, c.settings.Algorithm)
	if err != nil {
		return err
	}

	q := pipeline.Query{Name: name, Config: cfg, Refresh: flags.refresh, TTL: c.ttl()}
	var vertices, edges int
	for _, a := range args {
		g, arg, err := loadGraph(a)
		if err != nil {
			return err
		}
		logger.Debug("loaded graph", "graph", arg, "vertices", g.Order(), "edges", g.Size())
		q.Graphs = append(q.Graphs, g)
		vertices += g.Order()
		edges += g.Size()
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ans, elapsed, err := answerWithSpinner(ctx, runner, q)
	if err != nil {
		if errs.Is(err, errs.ErrCodeSearchAborted) {
			printWarning("search aborted: %s", errs.UserMessage(err))
			printDetail("raise --max-nodes or --timeout to finish the search")
		}
		return err
	}

	count, err := ans.BigCount()
	if err != nil {
		return err
	}
	switch name {
	case iso.QueryIsomorphic:
		printVerdict(ans.Isomorphic)
	case iso.QueryIsomorphisms:
		printVerdict(ans.Isomorphic)
		printKeyValue("isomorphisms", StyleNumber.Render(formatCount(count)))
	case iso.QueryAutomorphism:
		printKeyValue("automorphisms", StyleNumber.Render(formatCount(count)))
	}
	printKeyValue("via", ans.Via)
	printKeyValue("time", elapsed.Round(time.Microsecond).String())
	printStats(vertices, edges, ans.Cached)
	return nil
}

// answerWithSpinner runs q while a spinner is shown.
func answerWithSpinner(ctx context.Context, runner *pipeline.Runner, q pipeline.Query) (pipeline.Answer, time.Duration, error) {
	spin := newSpinnerWithContext(ctx, "Searching...")
	spin.Start()
	start := time.Now()
	ans, err := runner.Answer(ctx, q)
	spin.Stop()
	return ans, time.Since(start), err
}
