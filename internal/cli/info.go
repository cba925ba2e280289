package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var flags factFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print graph statistics for a fact file",
		Long: `Info reads a fact file and reports structural statistics: node and edge
counts, isolated nodes, connected components, the degree distribution, and
the mean local clustering coefficient.

Examples:
  grasp info graph.lp
  grasp info graph.lp --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(args[0], &flags)
			res, err := runner.Info(ctx, opts)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Println(StyleTitle.Render(args[0]))
			printKeyValue("nodes", fmt.Sprintf("%d", res.Nodes))
			printKeyValue("edges", fmt.Sprintf("%d", res.Edges))
			printKeyValue("isolated", fmt.Sprintf("%d", res.IsolatedNodes))
			printKeyValue("components", fmt.Sprintf("%d", res.Components))
			printKeyValue("degree", fmt.Sprintf("min %d · max %d · mean %.2f", res.DegreeMin, res.DegreeMax, res.DegreeMean))
			printKeyValue("clustering", fmt.Sprintf("%.3f", res.MeanClustering))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")

	return cmd
}
