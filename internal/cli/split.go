package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// splitCommand creates the split command.
func (c *CLI) splitCommand() *cobra.Command {
	var flags factFlags
	var template string

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Write one fact file per connected component",
		Long: `Split partitions a fact file into its connected components and writes one
canonical fact file per component.

The output template must contain {} exactly once; it is replaced by the
0-based component index. Without --template the template is derived from
the source name, so graph.lp produces graph_0.lp, graph_1.lp, and so on.

The template is validated before anything is written, and a failure during
the write phase removes every output written so far.

Examples:
  grasp split graph.lp                     # graph_0.lp, graph_1.lp, ...
  grasp split graph.lp -t out/part_{}.lp   # Custom template`,
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
			opts.Template = template

			prog := newProgress(logger)
			paths, err := runner.Split(ctx, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Split into %d components", len(paths)))

			printSuccess("Wrote %d component files", len(paths))
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&template, "template", "t", "", "output template containing {} (default: <stem>_{}<ext>)")

	return cmd
}
