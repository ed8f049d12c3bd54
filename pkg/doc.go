// Package pkg provides the libraries behind geobuffer, a planar buffer
// (Minkowski offset) engine.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Geometry: [geom] (coordinates, geometries, robust predicates,
//     precision models), [noding] (segment intersection and snap rounding),
//     [topology] (labeled planar graph and polygon assembly) and [buffer]
//     (offset curves, depth labeling and the buffer operation with precision
//     retries)
//  2. Infrastructure: [cache] (file, Redis and MongoDB backends), [config],
//     [errors], [observability], [fetch] and [buildinfo]
//  3. Surfaces: [io] (WKT and GeoJSON), [render] (SVG, PNG, PDF and DOT),
//     [pipeline] (parse → buffer → render with caching) and [server]
//     (HTTP API)
//
// # Architecture
//
// The typical data flow through geobuffer:
//
//	WKT / GeoJSON input
//	         ↓
//	    [io] package (decode to geom values)
//	         ↓
//	    [buffer] package (offset curves → noding → topology graph → polygons)
//	         ↓
//	    [render] package (WKT, GeoJSON, SVG, PNG, PDF, DOT)
//
// # Quick Start
//
// Buffer a line with flat ends:
//
//	import (
//	    "github.com/matzehuels/geobuffer/pkg/buffer"
//	    gio "github.com/matzehuels/geobuffer/pkg/io"
//	)
//
//	g, _ := gio.ReadWKT("LINESTRING (0 0, 10 0)")
//	params := buffer.DefaultParameters()
//	params.Cap = buffer.CapFlat
//	op := &buffer.Op{Params: params}
//	result, _ := op.Buffer(g, 1)
//	fmt.Println(gio.WriteWKT(result))
//
// For caching and rendering use [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{
//	    Input:    []byte("POINT (0 0)"),
//	    Distance: 5,
//	    Formats:  []string{"wkt", "svg"},
//	})
//
// [geom]: github.com/matzehuels/geobuffer/pkg/geom
// [noding]: github.com/matzehuels/geobuffer/pkg/noding
// [topology]: github.com/matzehuels/geobuffer/pkg/topology
// [buffer]: github.com/matzehuels/geobuffer/pkg/buffer
// [cache]: github.com/matzehuels/geobuffer/pkg/cache
// [config]: github.com/matzehuels/geobuffer/pkg/config
// [errors]: github.com/matzehuels/geobuffer/pkg/errors
// [observability]: github.com/matzehuels/geobuffer/pkg/observability
// [fetch]: github.com/matzehuels/geobuffer/pkg/fetch
// [buildinfo]: github.com/matzehuels/geobuffer/pkg/buildinfo
// [io]: github.com/matzehuels/geobuffer/pkg/io
// [render]: github.com/matzehuels/geobuffer/pkg/render
// [pipeline]: github.com/matzehuels/geobuffer/pkg/pipeline
// [server]: github.com/matzehuels/geobuffer/pkg/server
// [pipeline.Runner]: github.com/matzehuels/geobuffer/pkg/pipeline.Runner
package pkg
