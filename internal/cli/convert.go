package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
	graphio "github.com/matzehuels/isotower/pkg/io"
)

func (c *CLI) convertCommand() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert graphs between file formats",
		Long: `Convert graphs between file formats. The format follows the file extension:

  .gr, .grl      edge lists, graphs separated by "--- N" lines
  .g6, .graph6   graph6, one graph per line
  .json          a single graph as {"vertices": n, "edges": [[u, v], ...]}

Writing JSON from a multi-graph file requires --index.`,
		Example: `  isotower convert batch.grl batch.g6
  isotower convert batch.g6 third.json --index 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				if err := errs.ValidatePath(p); err != nil {
					return err
				}
			}
			gs, err := graphio.Import(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("index") {
				if index < 0 || index >= len(gs) {
					return errs.New(errs.ErrCodeNotFound, "%s holds %d graphs, no index %d", args[0], len(gs), index)
				}
				gs = []*graph.Graph{gs[index]}
			}
			if err := graphio.Export(args[1], gs); err != nil {
				return err
			}
			printSuccess("Converted %d graph(s)", len(gs))
			printFile(args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "convert only the graph at this index")
	return cmd
}
