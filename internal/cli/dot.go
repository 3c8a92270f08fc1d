package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	"github.com/matzehuels/isotower/pkg/refine"
	"github.com/matzehuels/isotower/pkg/render/dot"
	"github.com/matzehuels/isotower/pkg/search"
)

type dotFlags struct {
	output   string
	with     string
	detailed bool
	noColor  bool
	maxNodes int
	strategy string
}

func (c *CLI) dotCommand() *cobra.Command {
	var flags dotFlags
	cmd := &cobra.Command{
		Use:   "dot <graph>",
		Short: "Draw a graph colored by its stable coloring",
		Long: `Draw a graph as Graphviz DOT or SVG, filling every vertex by its color after
degree coloring and refinement.

With --with, both graphs are drawn side by side as one disjoint union. If an
isomorphism is found it is drawn as dashed edges between the halves.`,
		Example: `  isotower dot petersen.g6 -o petersen.svg
  isotower dot g.gr --with h.gr -o match.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd, &flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (.dot or .svg, default DOT on stdout)")
	cmd.Flags().StringVar(&flags.with, "with", "", "second graph, drawn with a matching if isomorphic")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show color ids, coupling ids and twin counts")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "do not fill vertices by color")
	cmd.Flags().IntVar(&flags.maxNodes, "max-nodes", 0, "abort the matching search after this many nodes (0 = unlimited)")
	cmd.Flags().StringVar(&flags.strategy, "refinement", "", "color refinement: naive or fast")
	return cmd
}

func (c *CLI) runDot(cmd *cobra.Command, flags *dotFlags, arg string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	kind := c.settings.Algorithm.Refinement
	if cmd.Flags().Changed("refinement") {
		k, err := refine.ParseKind(flags.strategy)
		if err != nil {
			return err
		}
		kind = k
	}
	strategy, err := refine.New(kind)
	if err != nil {
		return err
	}

	g, _, err := loadGraph(arg)
	if err != nil {
		return err
	}
	opts := dot.Options{Colored: !flags.noColor, Detailed: flags.detailed}

	target := g
	if flags.with != "" {
		h, _, err := loadGraph(flags.with)
		if err != nil {
			return err
		}
		u, matching, err := matchUnion(ctx, g, h, strategy, flags.maxNodes)
		if err != nil {
			return err
		}
		target, opts.Matching = u, matching
		if matching != nil {
			printVerdict(true)
		} else {
			printVerdict(false)
		}
	} else {
		graph.DegreeColoring(g)
		strategy.Refine(g)
	}
	logger.Debug("stable coloring", "classes", target.Partition().NumClasses(), "vertices", target.Order())

	src := dot.ToDOT(target, opts)
	return writeDrawing(ctx, flags.output, src)
}

// matchUnion builds the disjoint union of g and h, searches it for one
// isomorphism and leaves the union refined for drawing. The matching pairs
// union vertices and is nil if the graphs are not isomorphic.
func matchUnion(ctx context.Context, g, h *graph.Graph, strategy refine.Strategy, maxNodes int) (*graph.Graph, [][2]int, error) {
	u := g.DisjointUnion(h)
	graph.DegreeColoring(u)

	var matching [][2]int
	if g.Order() == h.Order() && g.Size() == h.Size() {
		res, err := search.Run(ctx, u, search.Options{Refiner: strategy, Mode: search.Decide, MaxNodes: maxNodes})
		if err != nil {
			return nil, nil, err
		}
		if res.Found() {
			n := g.Order()
			b := res.Bijections[0]
			matching = make([][2]int, len(b.D))
			for k := range b.D {
				matching[k] = [2]int{b.D[k], n + b.I[k]}
			}
		}
	}
	strategy.Refine(u)
	return u, matching, nil
}

// writeDrawing writes DOT source to path, rendering it first if path ends in
// .svg. An empty path prints the source.
func writeDrawing(ctx context.Context, path, src string) error {
	if path == "" {
		fmt.Print(src)
		return nil
	}
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		data = []byte(src)
	case ".svg":
		spin := newSpinnerWithContext(ctx, "Rendering SVG...")
		spin.Start()
		svg, err := dot.RenderSVG(ctx, src)
		spin.Stop()
		if err != nil {
			return err
		}
		data = svg
	default:
		return errs.New(errs.ErrCodeUnsupported, "cannot draw to %q (want .dot, .gv or .svg)", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

