package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cleanCommand creates the clean command.
//
// Clean reads a fact file, rebuilds its graph, and writes the canonical
// serialization back out. Duplicate and reversed edge facts collapse,
// lines come out sorted, and malformed lines are dropped (unless --strict).
func (c *CLI) cleanCommand() *cobra.Command {
	var flags factFlags
	var target string

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Rewrite a fact file in canonical form",
		Long: `Clean reads a fact file, rebuilds the graph it encodes, and writes the
canonical serialization. The output is deterministic: running clean twice
produces byte-identical results.

Without --output the source file is rewritten in place.

Examples:
  grasp clean graph.lp                          # Normalize in place
  grasp clean graph.lp -o tidy.lp               # Write elsewhere
  grasp clean graph.lp -e rel                   # Custom edge predicate
  grasp clean graph.lp -e rel --target-edge-predicate edge  # Rename it`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(args[0], &flags)
			opts.Target = target

			prog := newProgress(logger)
			g, cached, err := runner.Clean(ctx, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Cleaned %d nodes and %d edges", g.NodeCount(), g.EdgeCount()))

			opts.SetWriteDefaults()
			printSuccess("Wrote canonical facts")
			printFile(opts.Target)
			printStats(g.NodeCount(), g.EdgeCount(), cached)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&target, "output", "o", "", "output file (default: rewrite source in place)")

	return cmd
}
