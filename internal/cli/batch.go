package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geobuffer/pkg/errors"
	gio "github.com/matzehuels/geobuffer/pkg/io"
	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// batchCommand creates the batch command for buffering feature collections.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		flags       bufferFlags
		output      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch <features.geojson>",
		Short: "Buffer every feature of a GeoJSON FeatureCollection",
		Long: `Buffer every feature of a GeoJSON FeatureCollection in parallel.

Output features keep their ids and properties. Features that fail to buffer
get an empty polygon and the error in their buffer_error and
buffer_error_code properties; the rest of the batch continues.

The result is written to <input>.buffered.geojson unless --output is given;
"-o -" writes it to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency == 0 {
				concurrency = c.Config.Batch.Concurrency
			}
			return c.runBatch(cmd.Context(), args[0], flags.options(c.Config.Buffer), output, concurrency, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.buffered.geojson, - for stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel buffer operations (default from config, else CPU count)")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, path string, opts pipeline.Options, output string, concurrency int, noCache bool) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	in, err := readInput(ctx, path, "", runner.Cache, opts.Refresh)
	if err != nil {
		return err
	}
	features, err := gio.ReadFeatures(in.data)
	if err != nil {
		return fmt.Errorf("read features: %w", err)
	}
	opts.Logger = c.Logger

	var (
		out   []gio.Feature
		stats pipeline.BatchStats
	)
	if output != stdinName && isatty.IsTerminal(os.Stderr.Fd()) {
		out, stats, err = c.batchWithProgress(ctx, runner, features, opts, concurrency)
	} else {
		p := newProgress(c.Logger)
		out, stats, err = runner.Batch(ctx, features, opts, concurrency, nil)
		if err == nil {
			p.done("buffered features", "total", stats.Total, "failed", stats.Failed)
		}
	}
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	data, err := gio.WriteFeatures(out)
	if err != nil {
		return err
	}
	if output == stdinName {
		_, err := os.Stdout.Write(data)
		return err
	}
	if output == "" {
		output = basePath("", in.name) + outputSuffix + ".geojson"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}

	printSuccess("Batch complete")
	printFile(output)
	printBatchStats(stats)
	if stats.Failed > 0 {
		printWarning("%d of %d features failed (see the %s property)", stats.Failed, stats.Total, pipeline.PropError)
	}
	return nil
}

// batchWithProgress runs the batch while a bubbletea program shows its
// progress. Quitting the program cancels the batch.
func (c *CLI) batchWithProgress(ctx context.Context, runner *pipeline.Runner, features []gio.Feature, opts pipeline.Options, concurrency int) ([]gio.Feature, pipeline.BatchStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Per-feature warnings would tear the progress display.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.ErrorLevel)
	defer c.Logger.SetLevel(level)

	model := NewBatchModel(fmt.Sprintf("Buffering %d features by %g", len(features), opts.Distance), len(features))
	prog := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil), tea.WithContext(ctx))

	type batchResult struct {
		out   []gio.Feature
		stats pipeline.BatchStats
		err   error
	}
	resc := make(chan batchResult, 1)
	go func() {
		out, stats, err := runner.Batch(ctx, features, opts, concurrency, func(done, total int) {
			prog.Send(batchProgressMsg{done: done, total: total})
		})
		prog.Send(batchDoneMsg{stats: stats, err: err})
		resc <- batchResult{out, stats, err}
	}()

	final, runErr := prog.Run()
	if m, ok := final.(BatchModel); runErr != nil || !ok || !m.Finished {
		cancel()
	}
	res := <-resc
	if res.err != nil {
		return nil, res.stats, res.err
	}
	if ctx.Err() != nil {
		return nil, res.stats, ctx.Err()
	}
	return res.out, res.stats, nil
}
