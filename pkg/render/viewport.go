package render

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/geobuffer/pkg/geom"
)

// viewport maps world coordinates onto a canvas with the Y axis flipped.
type viewport struct {
	env    r2.Rect
	scale  float64
	offX   float64
	offY   float64
	width  float64
	height float64
}

// drawingEnvelope returns the union of the envelopes of gs, grown to a unit
// square around degenerate extents.
func drawingEnvelope(gs ...geom.Geometry) r2.Rect {
	env := r2.EmptyRect()
	for _, g := range gs {
		if g != nil && !g.IsEmpty() {
			env = env.Union(g.Envelope())
		}
	}
	if env.IsEmpty() {
		return r2.RectFromCenterSize(r2.Point{}, r2.Point{X: 1, Y: 1})
	}
	size := env.Size()
	if size.X == 0 && size.Y == 0 {
		return env.ExpandedByMargin(0.5)
	}
	return env
}

// fitWidth builds a viewport of the given width whose height follows the
// aspect ratio of env.
func fitWidth(env r2.Rect, width, pad float64) viewport {
	size := env.Size()
	inner := math.Max(width-2*pad, 1)
	scale := inner / math.Max(size.X, size.Y)
	return viewport{
		env:    env,
		scale:  scale,
		offX:   pad + (inner-size.X*scale)/2,
		offY:   pad,
		width:  width,
		height: 2*pad + size.Y*scale,
	}
}

// fitBox builds a viewport of a fixed size with env centered in it.
func fitBox(env r2.Rect, width, height, pad float64) viewport {
	size := env.Size()
	innerW, innerH := math.Max(width-2*pad, 1), math.Max(height-2*pad, 1)
	scale := math.Inf(1)
	if size.X > 0 {
		scale = innerW / size.X
	}
	if size.Y > 0 {
		scale = math.Min(scale, innerH/size.Y)
	}
	return viewport{
		env:    env,
		scale:  scale,
		offX:   pad + (innerW-size.X*scale)/2,
		offY:   pad + (innerH-size.Y*scale)/2,
		width:  width,
		height: height,
	}
}

func (v viewport) project(c geom.Coord) (x, y float64) {
	return v.offX + (c.X-v.env.X.Lo)*v.scale, v.offY + (v.env.Y.Hi-c.Y)*v.scale
}

// rings returns every ring of the polygonal members of g.
func rings(g geom.Geometry) [][]geom.Coord {
	var out [][]geom.Coord
	for _, p := range geom.Polygons(g) {
		out = append(out, p.Rings...)
	}
	return out
}

// strokes splits g into the point and line parts drawn as outlines.
func strokes(g geom.Geometry) (points []geom.Coord, lines [][]geom.Coord) {
	var walk func(geom.Geometry)
	walk = func(g geom.Geometry) {
		switch t := g.(type) {
		case geom.Point:
			if !t.Empty {
				points = append(points, t.Coord)
			}
		case geom.LineString:
			if len(t.Coords) > 0 {
				lines = append(lines, t.Coords)
			}
		case geom.Polygon:
			lines = append(lines, t.Rings...)
		case geom.MultiPoint:
			for _, p := range t.Points {
				walk(p)
			}
		case geom.MultiLineString:
			for _, l := range t.Lines {
				walk(l)
			}
		case geom.MultiPolygon:
			for _, p := range t.Polygons {
				walk(p)
			}
		case geom.Collection:
			for _, m := range t.Geometries {
				walk(m)
			}
		}
	}
	if g != nil {
		walk(g)
	}
	return points, lines
}
