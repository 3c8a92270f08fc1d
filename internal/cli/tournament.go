package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	graphio "github.com/matzehuels/isotower/pkg/io"
	"github.com/matzehuels/isotower/pkg/pipeline"
)

type tournamentFlags struct {
	algorithmFlags
	task    string
	csv     string
	pick    bool
	refresh bool
}

func (c *CLI) tournamentCommand() *cobra.Command {
	var flags tournamentFlags
	cmd := &cobra.Command{
		Use:     "tournament <file>...",
		Aliases: []string{"classify"},
		Short:   "Partition a collection of graphs into isomorphism classes",
		Long: `Partition every graph in the given files into isomorphism classes.

Tasks:
  classes        group mutually isomorphic graphs
  counts         also count the isomorphisms within each class (default)
  automorphisms  count the automorphisms of every graph

Graphs are numbered in input order across all files, starting at 0.`,
		Example: `  isotower tournament batch.grl
  isotower tournament graphs.g6 --task automorphisms --csv out.csv
  isotower tournament a.gr b.gr c.gr --pick`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTournament(cmd, &flags, args)
		},
	}
	flags.algorithmFlags.register(cmd)
	cmd.Flags().StringVarP(&flags.task, "task", "t", pipeline.DefaultTask.String(), "classes, counts or automorphisms")
	cmd.Flags().StringVar(&flags.csv, "csv", "", "also write the result as CSV to this file")
	cmd.Flags().BoolVar(&flags.pick, "pick", false, "choose the graphs interactively")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute answers even if cached")
	return cmd
}

// namedGraph is a graph together with where it was read from.
type namedGraph struct {
	Name  string
	Graph *graph.Graph
}

// loadGraphFiles reads every graph of every file in order.
func loadGraphFiles(paths []string) ([]namedGraph, error) {
	var out []namedGraph
	for _, p := range paths {
		if err := errs.ValidatePath(p); err != nil {
			return nil, err
		}
		gs, err := graphio.Import(p)
		if err != nil {
			return nil, err
		}
		for i, g := range gs {
			out = append(out, namedGraph{Name: graphArg{Path: p, Index: i}.String(), Graph: g})
		}
	}
	return out, nil
}

func (c *CLI) runTournament(cmd *cobra.Command, flags *tournamentFlags, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	task, err := pipeline.ParseTask(flags.task)
	if err != nil {
		return err
	}
	cfg, err := flags.apply(cmd, c.settings.Algorithm)
	if err != nil {
		return err
	}

	loaded, err := loadGraphFiles(args)
	if err != nil {
		return err
	}
	if flags.pick {
		entries := make([]pickerEntry, len(loaded))
		for i, ng := range loaded {
			entries[i] = pickerEntry{Name: ng.Name, Vertices: ng.Graph.Order(), Edges: ng.Graph.Size()}
		}
		chosen, err := runPicker(entries)
		if err != nil {
			return err
		}
		if len(chosen) == 0 {
			printInfo("No graphs selected")
			return nil
		}
		picked := make([]namedGraph, len(chosen))
		for i, idx := range chosen {
			picked[i] = loaded[idx]
		}
		loaded = picked
	}
	if len(loaded) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "no graphs in %s", strings.Join(args, ", "))
	}

	graphs := make([]*graph.Graph, len(loaded))
	for i, ng := range loaded {
		graphs[i] = ng.Graph
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Comparing %d graphs...", len(graphs)))
	spin.Start()
	res, err := runner.Run(ctx, graphs, pipeline.Options{
		Task:    task,
		Config:  cfg,
		Refresh: flags.refresh,
		TTL:     c.ttl(),
		Source:  strings.Join(args, ","),
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compared %d graphs", len(graphs)))

	names := make([]string, len(loaded))
	for i, ng := range loaded {
		names[i] = ng.Name
	}
	fmt.Println(renderResultTable(res, names))
	printSummary(res)

	if flags.csv != "" {
		if err := writeCSVFile(flags.csv, res); err != nil {
			return err
		}
		printFile(flags.csv)
	}
	return nil
}

func writeCSVFile(path string, res *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := res.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderResultTable formats a tournament result, one row per class or graph.
func renderResultTable(res *pipeline.Result, names []string) string {
	var headers []string
	var rows [][]string
	switch res.Task {
	case pipeline.TaskAutomorphisms:
		headers = []string{"#", "Graph", "Automorphisms"}
		for _, gc := range res.Counts {
			rows = append(rows, []string{strconv.Itoa(gc.Graph), names[gc.Graph], formatCount(gc.Count)})
		}
	default:
		headers = []string{"Class", "Size", "Graphs"}
		if res.Task == pipeline.TaskClassCounts {
			headers = append(headers, "Isomorphisms")
		}
		for i, cls := range res.Classes {
			members := make([]string, len(cls.Members))
			for j, m := range cls.Members {
				members[j] = names[m]
			}
			row := []string{strconv.Itoa(i), strconv.Itoa(len(cls.Members)), strings.Join(members, " ")}
			if res.Task == pipeline.TaskClassCounts {
				row = append(row, formatCount(cls.Count))
			}
			rows = append(rows, row)
		}
	}

	last := len(headers) - 1
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return style.Foreground(colorGray).Bold(true)
			case col == last && res.Task != pipeline.TaskClasses:
				return style.Foreground(colorCyan)
			case col == 0:
				return style.Foreground(colorDim)
			}
			return style
		}).
		Render()
}

func printSummary(res *pipeline.Result) {
	if res.Task != pipeline.TaskAutomorphisms {
		printKeyValue("classes", humanize.Comma(int64(len(res.Classes))))
	}
	printKeyValue("graphs", humanize.Comma(int64(res.Graphs)))
	printKeyValue("comparisons", humanize.Comma(int64(res.Stats.Comparisons)))
	printKeyValue("searches", humanize.Comma(int64(res.Stats.Searches)))
	printKeyValue("cache hits", humanize.Comma(int64(res.Stats.CacheHits)))
	printKeyValue("run", res.RunID)
}
