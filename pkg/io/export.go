package io

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

// WriteWKT formats g as WKT. A nil geometry is written as an empty
// collection.
func WriteWKT(g geom.Geometry) string {
	var sb strings.Builder
	writeWKT(&sb, g)
	return sb.String()
}

func writeWKT(sb *strings.Builder, g geom.Geometry) {
	switch t := g.(type) {
	case geom.Point:
		sb.WriteString("POINT")
		if t.Empty {
			sb.WriteString(" EMPTY")
			return
		}
		sb.WriteString(" (")
		writeCoord(sb, t.Coord)
		sb.WriteByte(')')
	case geom.LineString:
		sb.WriteString("LINESTRING ")
		writeCoordList(sb, t.Coords)
	case geom.Polygon:
		sb.WriteString("POLYGON ")
		writeRings(sb, t)
	case geom.MultiPoint:
		sb.WriteString("MULTIPOINT")
		if len(t.Points) == 0 {
			sb.WriteString(" EMPTY")
			return
		}
		sb.WriteString(" (")
		for i, p := range t.Points {
			if i > 0 {
				sb.WriteString(", ")
			}
			if p.Empty {
				sb.WriteString("EMPTY")
				continue
			}
			sb.WriteByte('(')
			writeCoord(sb, p.Coord)
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
	case geom.MultiLineString:
		sb.WriteString("MULTILINESTRING")
		if len(t.Lines) == 0 {
			sb.WriteString(" EMPTY")
			return
		}
		sb.WriteString(" (")
		for i, l := range t.Lines {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeCoordList(sb, l.Coords)
		}
		sb.WriteByte(')')
	case geom.MultiPolygon:
		sb.WriteString("MULTIPOLYGON")
		if len(t.Polygons) == 0 {
			sb.WriteString(" EMPTY")
			return
		}
		sb.WriteString(" (")
		for i, p := range t.Polygons {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRings(sb, p)
		}
		sb.WriteByte(')')
	case geom.Collection:
		sb.WriteString("GEOMETRYCOLLECTION")
		if len(t.Geometries) == 0 {
			sb.WriteString(" EMPTY")
			return
		}
		sb.WriteString(" (")
		for i, m := range t.Geometries {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeWKT(sb, m)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("GEOMETRYCOLLECTION EMPTY")
	}
}

// writeCoordList writes a parenthesized coordinate list, or EMPTY.
func writeCoordList(sb *strings.Builder, pts []geom.Coord) {
	if len(pts) == 0 {
		sb.WriteString("EMPTY")
		return
	}
	sb.WriteByte('(')
	for i, p := range pts {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeCoord(sb, p)
	}
	sb.WriteByte(')')
}

func writeRings(sb *strings.Builder, p geom.Polygon) {
	if p.IsEmpty() {
		sb.WriteString("EMPTY")
		return
	}
	sb.WriteByte('(')
	for i, r := range p.Rings {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeCoordList(sb, r)
	}
	sb.WriteByte(')')
}

func writeCoord(sb *strings.Builder, c geom.Coord) {
	sb.WriteString(strconv.FormatFloat(c.X, 'f', -1, 64))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(c.Y, 'f', -1, 64))
}

// WriteGeoJSON encodes g as a GeoJSON geometry object.
func WriteGeoJSON(g geom.Geometry) ([]byte, error) {
	gj, err := toGeoJSON(g)
	if err != nil {
		return nil, err
	}
	data, err := gj.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode geojson")
	}
	return data, nil
}

func toGeoJSON(g geom.Geometry) (*geojson.Geometry, error) {
	switch t := g.(type) {
	case geom.Point:
		if t.Empty {
			return geojson.NewCollectionGeometry(), nil
		}
		return geojson.NewPointGeometry(position(t.Coord)), nil
	case geom.LineString:
		return geojson.NewLineStringGeometry(positionList(t.Coords)), nil
	case geom.Polygon:
		return geojson.NewPolygonGeometry(ringList(t)), nil
	case geom.MultiPoint:
		var pts [][]float64
		for _, p := range t.Points {
			if !p.Empty {
				pts = append(pts, position(p.Coord))
			}
		}
		return geojson.NewMultiPointGeometry(pts...), nil
	case geom.MultiLineString:
		lines := make([][][]float64, len(t.Lines))
		for i, l := range t.Lines {
			lines[i] = positionList(l.Coords)
		}
		return geojson.NewMultiLineStringGeometry(lines...), nil
	case geom.MultiPolygon:
		polys := make([][][][]float64, len(t.Polygons))
		for i, p := range t.Polygons {
			polys[i] = ringList(p)
		}
		return geojson.NewMultiPolygonGeometry(polys...), nil
	case geom.Collection:
		members := make([]*geojson.Geometry, 0, len(t.Geometries))
		for _, m := range t.Geometries {
			gj, err := toGeoJSON(m)
			if err != nil {
				return nil, err
			}
			members = append(members, gj)
		}
		return geojson.NewCollectionGeometry(members...), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "cannot encode geometry of type %T", g)
}

func position(c geom.Coord) []float64 { return []float64{c.X, c.Y} }

func positionList(pts []geom.Coord) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = position(p)
	}
	return out
}

func ringList(p geom.Polygon) [][][]float64 {
	if p.IsEmpty() {
		return [][][]float64{}
	}
	out := make([][][]float64, len(p.Rings))
	for i, r := range p.Rings {
		out[i] = positionList(r)
	}
	return out
}

// ExportFile writes g to path in the given format.
func ExportFile(g geom.Geometry, path string, format Format) error {
	var data []byte
	switch format {
	case FormatWKT:
		data = []byte(WriteWKT(g) + "\n")
	case FormatGeoJSON:
		var err error
		if data, err = WriteGeoJSON(g); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
