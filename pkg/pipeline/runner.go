package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geobuffer/pkg/buffer"
	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/geom"
	gio "github.com/matzehuels/geobuffer/pkg/io"
	"github.com/matzehuels/geobuffer/pkg/observability"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long results stay cached; zero uses TTLResult.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → buffer → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Parse
	parseStart := time.Now()
	g, err := Parse(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Input:     g,
		InputHash: inputHash(g),
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.InputCoords = geom.NumCoords(g)

	if artifacts, buffered, ok := r.lookup(ctx, result.InputHash, opts); ok {
		result.Buffer = buffered
		result.Artifacts = artifacts
		result.CacheInfo.Hit = true
		result.fillStats()
		r.Logger.Info("buffer served from cache", "formats", opts.Formats)
		return result, nil
	}

	// Stage 2: Buffer
	bufferStart := time.Now()
	buffered, graph, attempts, err := r.buffer(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Buffer = buffered
	result.Graph = graph
	result.Stats.Attempts = attempts
	result.Stats.BufferTime = time.Since(bufferStart)
	result.fillStats()

	r.Logger.Info("buffered geometry",
		"type", g.Type(),
		"distance", opts.Distance,
		"polygons", result.Stats.Polygons,
		"attempts", attempts,
		"duration", result.Stats.BufferTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, g, buffered, graph, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.store(ctx, result, opts)
	return result, nil
}

// Buffer parses and buffers without rendering or caching.
func (r *Runner) Buffer(ctx context.Context, opts Options) (geom.Geometry, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	g, err := Parse(opts)
	if err != nil {
		return nil, err
	}
	buffered, _, _, err := r.buffer(ctx, g, opts)
	return buffered, err
}

// Graph buffers the input and renders the topology graph of the final build
// attempt in opts.Formats (dot or svg).
func (r *Runner) Graph(ctx context.Context, opts Options) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatDOT}
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	g, err := Parse(opts)
	if err != nil {
		return nil, err
	}
	hash := inputHash(g)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit := r.get(ctx, cache.KeyTypeGraph, r.Keyer.GraphKey(hash, opts.KeyOpts(format)))
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, nil
		}
	}

	_, graph, _, err := r.buffer(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	artifacts, err := RenderGraph(ctx, graph, opts.Formats)
	if err != nil {
		return nil, err
	}
	for format, data := range artifacts {
		r.set(ctx, cache.KeyTypeGraph, r.Keyer.GraphKey(hash, opts.KeyOpts(format)), data)
	}
	return artifacts, nil
}

// buffer runs one buffer operation and reports it to the observability
// hooks. It returns the result, the final topology graph and the number of
// attempts made.
func (r *Runner) buffer(ctx context.Context, g geom.Geometry, opts Options) (geom.Geometry, *topology.Graph, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}
	params, err := opts.Parameters()
	if err != nil {
		return nil, nil, 0, err
	}

	hooks := observability.Buffer()
	typeName := g.Type().String()
	hooks.OnBufferStart(ctx, typeName, opts.Distance)
	start := time.Now()

	attempts := 0
	op := &buffer.Op{
		Params:    params,
		Precision: opts.Precision(),
		Logger:    opts.Logger,
		OnAttempt: func(a buffer.Attempt) {
			attempts++
			if a.Err != nil {
				hooks.OnPrecisionRetry(ctx, a.Strategy.String(), a.Digits, a.Scale, a.Err)
			}
		},
	}
	result, err := op.Buffer(g, opts.Distance)
	hooks.OnBufferComplete(ctx, typeName, attempts, time.Since(start), err)
	if err != nil {
		return nil, op.Graph(), attempts, err
	}
	return result, op.Graph(), attempts, nil
}

// lookup returns the cached artifacts for every requested format and the
// cached result geometry, or ok=false if any of them is missing.
func (r *Runner) lookup(ctx context.Context, hash string, opts Options) (map[string][]byte, geom.Geometry, bool) {
	if opts.Refresh {
		return nil, nil, false
	}
	wkt, hit := r.get(ctx, cache.KeyTypeBuffer, r.Keyer.BufferKey(hash, opts.KeyOpts(FormatWKT)))
	if !hit {
		return nil, nil, false
	}
	buffered, err := gio.ReadWKT(string(wkt))
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		return nil, nil, false
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if format == FormatWKT {
			artifacts[format] = wkt
			continue
		}
		data, hit := r.get(ctx, cache.KeyTypeBuffer, r.Keyer.BufferKey(hash, opts.KeyOpts(format)))
		if !hit {
			return nil, nil, false
		}
		artifacts[format] = data
	}
	return artifacts, buffered, true
}

// store caches every artifact and the WKT of the result.
func (r *Runner) store(ctx context.Context, result *Result, opts Options) {
	if _, ok := result.Artifacts[FormatWKT]; !ok {
		r.set(ctx, cache.KeyTypeBuffer, r.Keyer.BufferKey(result.InputHash, opts.KeyOpts(FormatWKT)),
			[]byte(gio.WriteWKT(result.Buffer)))
	}
	for format, data := range result.Artifacts {
		r.set(ctx, cache.KeyTypeBuffer, r.Keyer.BufferKey(result.InputHash, opts.KeyOpts(format)), data)
	}
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte) {
	ttl := r.TTL
	if ttl <= 0 {
		ttl = TTLResult
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (res *Result) fillStats() {
	res.Stats.ResultCoords = geom.NumCoords(res.Buffer)
	res.Stats.Polygons = len(geom.Polygons(res.Buffer))
	res.Stats.Area = geom.Area(res.Buffer)
}
