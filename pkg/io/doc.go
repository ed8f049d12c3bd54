// Package io reads and writes geometries as Well-Known Text (WKT) and
// GeoJSON.
//
// # Overview
//
// The buffer core works on the value types of [geom]. This package converts
// between those values and the two text formats geobuffer accepts on the
// command line, over HTTP and in batch files:
//
//   - WKT, parsed with the simplefeatures WKT parser
//   - GeoJSON geometries, Features and FeatureCollections, decoded with
//     go.geojson
//
// Z and M ordinates are accepted on input and dropped.
//
// # Import
//
// Use [Read] when the format is not known in advance. It sniffs the first
// non-blank byte: a '{' selects GeoJSON, anything else WKT.
//
//	g, err := io.Read(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [ReadWKT] and [ReadGeoJSON] decode a known format, and [ImportFile] reads a
// file from disk. A GeoJSON Feature yields its geometry; a FeatureCollection
// yields a [geom.Collection] of its feature geometries.
//
// # Export
//
// [WriteWKT] formats a geometry as WKT using the shortest decimal
// representation that round-trips each ordinate. [WriteGeoJSON] encodes a
// bare GeoJSON geometry object.
//
// # Features
//
// Batch processing works on features so that properties survive the trip
// through the buffer: [ReadFeatures] decodes a FeatureCollection (or a single
// Feature) and [WriteFeatures] encodes the buffered features back.
//
// # Concurrency
//
// All functions are safe for concurrent use. Decoded geometries share no
// memory with the input.
//
// [geom]: github.com/matzehuels/geobuffer/pkg/geom
package io
