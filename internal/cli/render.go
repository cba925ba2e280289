package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grasplabs/grasp/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags factFlags
	var (
		formats    string
		output     string
		detailed   bool
		components bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a fact file as DOT, SVG, or PNG",
		Long: `Render reads a fact file and draws its graph.

Formats: dot (Graphviz source), svg, png. Multiple formats can be requested
as a comma-separated list; each is written next to the output path with its
own extension.

Examples:
  grasp render graph.lp                       # graph.dot
  grasp render graph.lp -f svg                # graph.svg
  grasp render graph.lp -f svg,png -o out     # out.svg and out.png
  grasp render graph.lp -f svg --components   # Color components`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions(args[0], &flags)
			opts.Formats = parseFormats(formats)
			opts.Detailed = detailed
			opts.Components = components

			base := output
			if base == "" {
				base = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}

			spin := newSpinner(ctx, "Rendering graph")
			spin.Start()
			artifacts, err := runner.Render(ctx, opts)
			if err != nil {
				spin.StopWithError(fmt.Sprintf("Render failed: %v", err))
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Rendered %d format(s)", len(artifacts)))

			for _, format := range opts.Formats {
				path := base + "." + format
				if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formats, "formats", "f", pipeline.FormatDOT, "comma-separated output formats (dot, svg, png)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path without extension (default: source stem)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include degree and attributes in node labels")
	cmd.Flags().BoolVar(&components, "components", false, "color each connected component distinctly")

	return cmd
}
