package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"
	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

// Format identifies a geometry text format.
type Format string

const (
	FormatWKT     Format = "wkt"
	FormatGeoJSON Format = "geojson"
)

// ErrUnknownFormat is returned by [ParseFormat] for names it does not
// recognize.
var ErrUnknownFormat = errors.New(errors.ErrCodeInvalidFormat, "unknown geometry format")

// ParseFormat returns the format named s. "json" is accepted for GeoJSON.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "wkt", "WKT":
		return FormatWKT, nil
	case "geojson", "GeoJSON", "json":
		return FormatGeoJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DetectFormat guesses the format of data from its first non-blank byte.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatGeoJSON
	}
	return FormatWKT
}

// Read decodes data in the format reported by [DetectFormat].
func Read(data []byte) (geom.Geometry, error) {
	if DetectFormat(data) == FormatGeoJSON {
		return ReadGeoJSON(data)
	}
	return ReadWKT(string(bytes.TrimSpace(data)))
}

// ImportFile reads a geometry file at path, detecting its format.
func ImportFile(path string) (geom.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	g, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadWKT parses a WKT string. Rings are not checked for simplicity, so
// self-touching and self-intersecting polygons are accepted.
func ReadWKT(wkt string) (geom.Geometry, error) {
	g, err := sf.UnmarshalWKT(wkt, sf.DisableAllValidations)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse wkt")
	}
	return fromSimple(g)
}

func fromSimple(g sf.Geometry) (geom.Geometry, error) {
	switch g.Type() {
	case sf.TypePoint:
		pt, _ := g.AsPoint()
		return pointFromSimple(pt), nil
	case sf.TypeLineString:
		ls, _ := g.AsLineString()
		return geom.LineString{Coords: sequenceCoords(ls.Coordinates())}, nil
	case sf.TypePolygon:
		poly, _ := g.AsPolygon()
		return polygonFromSimple(poly), nil
	case sf.TypeMultiPoint:
		mp, _ := g.AsMultiPoint()
		out := geom.MultiPoint{}
		for i := 0; i < mp.NumPoints(); i++ {
			if p := pointFromSimple(mp.PointN(i)); !p.Empty {
				out.Points = append(out.Points, p)
			}
		}
		return out, nil
	case sf.TypeMultiLineString:
		mls, _ := g.AsMultiLineString()
		out := geom.MultiLineString{}
		for i := 0; i < mls.NumLineStrings(); i++ {
			out.Lines = append(out.Lines, geom.LineString{Coords: sequenceCoords(mls.LineStringN(i).Coordinates())})
		}
		return out, nil
	case sf.TypeMultiPolygon:
		mp, _ := g.AsMultiPolygon()
		out := geom.MultiPolygon{}
		for i := 0; i < mp.NumPolygons(); i++ {
			if p := polygonFromSimple(mp.PolygonN(i)); !p.IsEmpty() {
				out.Polygons = append(out.Polygons, p)
			}
		}
		return out, nil
	case sf.TypeGeometryCollection:
		gc, _ := g.AsGeometryCollection()
		out := geom.Collection{}
		for i := 0; i < gc.NumGeometries(); i++ {
			m, err := fromSimple(gc.GeometryN(i))
			if err != nil {
				return nil, err
			}
			out.Geometries = append(out.Geometries, m)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported wkt geometry type %v", g.Type())
}

func pointFromSimple(p sf.Point) geom.Point {
	xy, ok := p.XY()
	if !ok {
		return geom.Point{Empty: true}
	}
	return geom.NewPoint(xy.X, xy.Y)
}

func polygonFromSimple(p sf.Polygon) geom.Polygon {
	if p.IsEmpty() {
		return geom.Polygon{}
	}
	rings := [][]geom.Coord{sequenceCoords(p.ExteriorRing().Coordinates())}
	for i := 0; i < p.NumInteriorRings(); i++ {
		rings = append(rings, sequenceCoords(p.InteriorRingN(i).Coordinates()))
	}
	return geom.Polygon{Rings: rings}
}

func sequenceCoords(seq sf.Sequence) []geom.Coord {
	n := seq.Length()
	if n == 0 {
		return nil
	}
	pts := make([]geom.Coord, n)
	for i := range pts {
		xy := seq.GetXY(i)
		pts[i] = geom.C(xy.X, xy.Y)
	}
	return pts
}

// ReadGeoJSON decodes a GeoJSON geometry, Feature or FeatureCollection.
func ReadGeoJSON(data []byte) (geom.Geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode geojson")
	}
	switch probe.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode feature")
		}
		return fromGeoJSON(f.Geometry)
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode feature collection")
		}
		out := geom.Collection{}
		for i, f := range fc.Features {
			g, err := fromGeoJSON(f.Geometry)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			out.Geometries = append(out.Geometries, g)
		}
		return out, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidFormat, "geojson object has no type")
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode geometry")
	}
	return fromGeoJSON(g)
}

func fromGeoJSON(g *geojson.Geometry) (geom.Geometry, error) {
	if g == nil {
		return geom.Collection{}, nil
	}
	switch g.Type {
	case geojson.GeometryPoint:
		if len(g.Point) < 2 {
			return geom.Point{Empty: true}, nil
		}
		return geom.NewPoint(g.Point[0], g.Point[1]), nil
	case geojson.GeometryMultiPoint:
		out := geom.MultiPoint{}
		for _, p := range g.MultiPoint {
			if len(p) >= 2 {
				out.Points = append(out.Points, geom.NewPoint(p[0], p[1]))
			}
		}
		return out, nil
	case geojson.GeometryLineString:
		pts, err := positions(g.LineString)
		if err != nil {
			return nil, err
		}
		return geom.LineString{Coords: pts}, nil
	case geojson.GeometryMultiLineString:
		out := geom.MultiLineString{}
		for _, l := range g.MultiLineString {
			pts, err := positions(l)
			if err != nil {
				return nil, err
			}
			out.Lines = append(out.Lines, geom.LineString{Coords: pts})
		}
		return out, nil
	case geojson.GeometryPolygon:
		return polygonFromGeoJSON(g.Polygon)
	case geojson.GeometryMultiPolygon:
		out := geom.MultiPolygon{}
		for _, rings := range g.MultiPolygon {
			p, err := polygonFromGeoJSON(rings)
			if err != nil {
				return nil, err
			}
			if !p.IsEmpty() {
				out.Polygons = append(out.Polygons, p)
			}
		}
		return out, nil
	case geojson.GeometryCollection:
		out := geom.Collection{}
		for _, m := range g.Geometries {
			mg, err := fromGeoJSON(m)
			if err != nil {
				return nil, err
			}
			out.Geometries = append(out.Geometries, mg)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported geojson geometry type %q", g.Type)
}

func polygonFromGeoJSON(rings [][][]float64) (geom.Polygon, error) {
	var p geom.Polygon
	for _, r := range rings {
		pts, err := positions(r)
		if err != nil {
			return geom.Polygon{}, err
		}
		if !geom.IsClosedRing(pts) {
			return geom.Polygon{}, errors.New(errors.ErrCodeInvalidGeometry, "polygon ring is not closed")
		}
		p.Rings = append(p.Rings, pts)
	}
	return p, nil
}

func positions(in [][]float64) ([]geom.Coord, error) {
	pts := make([]geom.Coord, 0, len(in))
	for _, p := range in {
		if len(p) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidGeometry, "position has %d ordinates, want at least 2", len(p))
		}
		pts = append(pts, geom.C(p[0], p[1]))
	}
	return pts, nil
}
