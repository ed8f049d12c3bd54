package pipeline

import (
	"bytes"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	gio "github.com/matzehuels/geobuffer/pkg/io"
)

// Parse returns the input geometry of opts, decoding opts.Input when no
// geometry was given.
func Parse(opts Options) (geom.Geometry, error) {
	if opts.Geometry != nil {
		return opts.Geometry, nil
	}
	if len(bytes.TrimSpace(opts.Input)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input geometry is required")
	}

	if opts.InputFormat == "" {
		return gio.Read(opts.Input)
	}
	format, err := gio.ParseFormat(opts.InputFormat)
	if err != nil {
		return nil, err
	}
	switch format {
	case gio.FormatGeoJSON:
		return gio.ReadGeoJSON(opts.Input)
	default:
		return gio.ReadWKT(string(bytes.TrimSpace(opts.Input)))
	}
}

// inputHash hashes the WKT form of g, so WKT and GeoJSON spellings of one
// geometry share cache entries.
func inputHash(g geom.Geometry) string {
	return cache.Hash([]byte(gio.WriteWKT(g)))
}
