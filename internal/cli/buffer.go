package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// bufferCommand creates the buffer command.
func (c *CLI) bufferCommand() *cobra.Command {
	var (
		flags      bufferFlags
		formatsStr string
		output     string
		wkt        string
		width      int
		height     int
		title      string
	)

	cmd := &cobra.Command{
		Use:   "buffer [input]",
		Short: "Buffer a geometry",
		Long: `Buffer a WKT or GeoJSON geometry by a distance.

The input is a file, an http(s) URL, "-" for stdin, or inline WKT via --wkt.
With a single output format and no --output the result is written to stdout;
otherwise each format is written to <output>.<format>, or to
<input>.buffered.<format> when --output is not given.

Results are cached locally for faster subsequent runs.`,
		Example: `  geobuffer buffer --wkt "POINT (0 0)" -d 10
  geobuffer buffer roads.wkt -d 2.5 --cap flat --join mitre -f wkt,svg
  curl -s https://example.com/park.geojson | geobuffer buffer - -d -5 -f geojson`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(c.Config.Buffer)
			opts.Formats = pipeline.ParseFormats(formatsStr)
			opts.Width, opts.Height, opts.Title = width, height, title
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runBuffer(cmd.Context(), arg, wkt, opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): wkt (default), geojson, svg, png, pdf, dot (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&wkt, "wkt", "", "inline WKT input")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels (svg, png, pdf)")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels (png)")
	cmd.Flags().StringVar(&title, "title", "", "image title")

	return cmd
}

// runBuffer reads the input, buffers it and writes the artifacts.
func (c *CLI) runBuffer(ctx context.Context, arg, wkt string, opts pipeline.Options, output string, noCache bool) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	in, err := readInput(ctx, arg, wkt, runner.Cache, opts.Refresh)
	if err != nil {
		return err
	}
	opts.Input = in.data
	opts.Logger = c.Logger

	quiet := writesToStdout(opts.Formats, output)
	var spinner *Spinner
	if !quiet {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Buffering by %g...", opts.Distance))
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Buffer failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return fmt.Errorf("buffer: %w", err)
	}

	paths, err := artifactWriter{stdout: os.Stdout}.write(result.Artifacts, opts.Formats, in.name, output)
	if err != nil {
		return err
	}
	if quiet {
		return nil
	}

	printSuccess("Buffer complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.Hit)
	return nil
}
