package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/geobuffer/pkg/config"
	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// bufferFlags are the buffer parameters shared by buffer, graph and batch.
// Unset parameters fall back to the [buffer] section of the config file.
type bufferFlags struct {
	distance    float64
	quadSegs    int
	cap         string
	join        string
	mitreLimit  float64
	singleSided bool
	precision   float64
	noCache     bool
	refresh     bool
}

func (f *bufferFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.distance, "distance", "d", 0, "buffer distance (negative erodes polygons)")
	fs.IntVar(&f.quadSegs, "quad-segs", 0, "segments per quarter circle (default 8)")
	fs.StringVar(&f.cap, "cap", "", "end cap style: round (default), flat, square")
	fs.StringVar(&f.join, "join", "", "join style: round (default), mitre, bevel")
	fs.Float64Var(&f.mitreLimit, "mitre-limit", 0, "mitre ratio limit (default 5)")
	fs.BoolVar(&f.singleSided, "single-sided", false, "buffer lines on one side only (left for d > 0)")
	fs.Float64Var(&f.precision, "precision", 0, "input precision scale, e.g. 1000 for 3 decimals (0 = floating)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached result exists")
	_ = cmd.MarkFlagRequired("distance")
}

// options builds pipeline options from the flags and the config defaults.
func (f *bufferFlags) options(cfg config.BufferConfig) pipeline.Options {
	opts := pipeline.Options{
		Distance:         f.distance,
		QuadrantSegments: f.quadSegs,
		Cap:              f.cap,
		Join:             f.join,
		MitreLimit:       f.mitreLimit,
		SingleSided:      f.singleSided,
		PrecisionScale:   f.precision,
		Refresh:          f.refresh,
	}
	opts.ApplyConfig(cfg)
	return opts
}
