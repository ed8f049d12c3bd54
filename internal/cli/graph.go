package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// graphCommand creates the graph command for dumping the topology graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags      bufferFlags
		formatsStr string
		output     string
		wkt        string
	)

	cmd := &cobra.Command{
		Use:   "graph [input]",
		Short: "Dump the topology graph built while buffering",
		Long: `Dump the topology graph of the final buffer attempt.

Nodes are the noded offset curve vertices; edges carry their left and right
depths and whether they are part of the result boundary. The graph is written
as Graphviz DOT (default) or rendered to SVG.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c.Config.Buffer)
			if formatsStr == "" {
				formatsStr = pipeline.FormatDOT
			}
			opts.Formats = pipeline.ParseFormats(formatsStr)
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runGraph(cmd.Context(), arg, wkt, opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), svg (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&wkt, "wkt", "", "inline WKT input")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, arg, wkt string, opts pipeline.Options, output string, noCache bool) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	in, err := readInput(ctx, arg, wkt, runner.Cache, opts.Refresh)
	if err != nil {
		return err
	}
	opts.Input = in.data
	opts.Logger = c.Logger

	artifacts, err := runner.Graph(ctx, opts)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	paths, err := artifactWriter{stdout: os.Stdout}.write(artifacts, opts.Formats, in.name, output)
	if err != nil {
		return err
	}
	if writesToStdout(opts.Formats, output) {
		return nil
	}
	printSuccess("Graph written")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
