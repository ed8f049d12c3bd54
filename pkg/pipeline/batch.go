package pipeline

import (
	"context"
	"maps"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	gio "github.com/matzehuels/geobuffer/pkg/io"
)

// Property keys set on features that failed to buffer.
const (
	PropError     = "buffer_error"
	PropErrorCode = "buffer_error_code"
)

// BatchStats summarizes a batch run.
type BatchStats struct {
	Total    int
	Failed   int
	Cached   int
	Duration time.Duration
}

// Batch buffers every feature with the buffer options of opts, running up
// to concurrency buffers at once. Output features keep their ids and
// properties and appear in input order. A feature that fails to buffer gets
// an empty polygon and the error in its [PropError] and [PropErrorCode]
// properties; only cancellation of ctx fails the whole batch.
//
// progress, if non-nil, is called after each feature with the number of
// completed features. Calls are serialized.
func (r *Runner) Batch(ctx context.Context, features []gio.Feature, opts Options, concurrency int, progress func(done, total int)) ([]gio.Feature, BatchStats, error) {
	start := time.Now()
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	r.applyLogger(&opts)
	opts.Formats = []string{FormatWKT}
	opts.SetDefaults()
	if err := errors.ValidateDistance(opts.Distance); err != nil {
		return nil, BatchStats{}, err
	}
	if err := errors.ValidateScale(opts.PrecisionScale); err != nil {
		return nil, BatchStats{}, err
	}
	params, err := opts.Parameters()
	if err != nil {
		return nil, BatchStats{}, err
	}
	opts.Cap, opts.Join = params.Cap.String(), params.Join.String()

	out := make([]gio.Feature, len(features))
	var (
		failed, cached atomic.Int64
		done           int
		progressMu     sync.Mutex
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, f := range features {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buffered, hit, err := r.bufferFeature(gctx, f.Geometry, opts)
			props := make(map[string]any, len(f.Properties)+2)
			maps.Copy(props, f.Properties)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				r.Logger.Warn("feature failed", "index", i, "id", f.ID, "err", err)
				props[PropError] = errors.UserMessage(err)
				props[PropErrorCode] = string(errors.GetCode(err))
				buffered = geom.Polygon{}
			}
			if hit {
				cached.Add(1)
			}
			out[i] = gio.Feature{ID: f.ID, Geometry: buffered, Properties: props}

			if progress != nil {
				progressMu.Lock()
				done++
				progress(done, len(features))
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, BatchStats{}, err
	}

	stats := BatchStats{
		Total:    len(features),
		Failed:   int(failed.Load()),
		Cached:   int(cached.Load()),
		Duration: time.Since(start),
	}
	r.Logger.Info("batch complete",
		"features", stats.Total,
		"failed", stats.Failed,
		"cached", stats.Cached,
		"duration", stats.Duration)
	return out, stats, nil
}

// bufferFeature buffers one geometry through the WKT result cache.
func (r *Runner) bufferFeature(ctx context.Context, g geom.Geometry, opts Options) (geom.Geometry, bool, error) {
	if g == nil {
		return geom.Polygon{}, false, nil
	}
	hash := inputHash(g)
	key := r.Keyer.BufferKey(hash, opts.KeyOpts(FormatWKT))
	if !opts.Refresh {
		if data, hit := r.get(ctx, cache.KeyTypeBuffer, key); hit {
			if buffered, err := gio.ReadWKT(string(data)); err == nil {
				return buffered, true, nil
			}
		}
	}
	buffered, _, _, err := r.buffer(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}
	r.set(ctx, cache.KeyTypeBuffer, key, []byte(gio.WriteWKT(buffered)))
	return buffered, false, nil
}
