package buffer

import (
	"math"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/noding"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// curveSetBuilder collects the labeled raw offset curves of every component
// of a geometry. Each curve is labeled with the locations to its left and
// right relative to the buffer area.
type curveSetBuilder struct {
	input    geom.Geometry
	distance float64
	curves   *CurveBuilder
	out      []*noding.SegmentString
}

func newCurveSetBuilder(g geom.Geometry, distance float64, curves *CurveBuilder) *curveSetBuilder {
	return &curveSetBuilder{input: g, distance: distance, curves: curves}
}

// build walks the geometry tree and returns its curves.
func (b *curveSetBuilder) build() ([]*noding.SegmentString, error) {
	stack := []geom.Geometry{b.input}
	for len(stack) > 0 {
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g == nil || g.IsEmpty() {
			continue
		}
		switch g := g.(type) {
		case geom.Point:
			b.addPoint(g)
		case geom.LineString:
			b.addLineString(g)
		case geom.Polygon:
			b.addPolygon(g)
		case geom.MultiPoint:
			for i := len(g.Points) - 1; i >= 0; i-- {
				stack = append(stack, g.Points[i])
			}
		case geom.MultiLineString:
			for i := len(g.Lines) - 1; i >= 0; i-- {
				stack = append(stack, g.Lines[i])
			}
		case geom.MultiPolygon:
			for i := len(g.Polygons) - 1; i >= 0; i-- {
				stack = append(stack, g.Polygons[i])
			}
		case geom.Collection:
			for i := len(g.Geometries) - 1; i >= 0; i-- {
				stack = append(stack, g.Geometries[i])
			}
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "cannot buffer geometry of type %T", g)
		}
	}
	return b.out, nil
}

func (b *curveSetBuilder) addCurve(pts []geom.Coord, left, right topology.Location) {
	if len(pts) < 2 {
		return
	}
	b.out = append(b.out, noding.NewSegmentString(pts, topology.AreaLabel(left, right)))
}

func (b *curveSetBuilder) addPoint(p geom.Point) {
	if b.distance <= 0 || !geom.IsValid(p.Coord) {
		return
	}
	b.addCurve(b.curves.LineCurve([]geom.Coord{p.Coord}, b.distance), topology.LocExterior, topology.LocInterior)
}

func (b *curveSetBuilder) addLineString(l geom.LineString) {
	if b.curves.isLineOffsetEmpty(b.distance) {
		return
	}
	pts := geom.RemoveRepeated(l.Coords)
	if geom.IsClosedRing(pts) && !b.curves.params.SingleSided {
		b.addRingSide(pts, b.distance, geom.Left, topology.LocExterior, topology.LocInterior)
		b.addRingSide(pts, b.distance, geom.Right, topology.LocInterior, topology.LocExterior)
		return
	}
	b.addCurve(b.curves.LineCurve(pts, b.distance), topology.LocExterior, topology.LocInterior)
}

// addPolygon adds the curves of a polygon's rings. Sides and labels are
// chosen for clockwise rings and swapped by addRingSide otherwise.
func (b *curveSetBuilder) addPolygon(p geom.Polygon) {
	dist := b.distance
	side := geom.Left
	if b.distance < 0 {
		dist = -b.distance
		side = geom.Right
	}

	shell := geom.RemoveRepeated(p.Shell())
	if b.distance < 0 && isErodedCompletely(shell, b.distance) {
		return
	}
	if b.distance <= 0 && len(shell) < 3 {
		return
	}
	b.addRingSide(shell, dist, side, topology.LocExterior, topology.LocInterior)

	for _, hole := range p.Holes() {
		hole = geom.RemoveRepeated(hole)
		if b.distance > 0 && isErodedCompletely(hole, -b.distance) {
			continue
		}
		b.addRingSide(hole, dist, -side, topology.LocInterior, topology.LocExterior)
	}
}

func (b *curveSetBuilder) addRingSide(pts []geom.Coord, dist float64, side int, cwLeft, cwRight topology.Location) {
	if dist == 0 && len(pts) < geom.MinRingSize {
		return
	}
	left, right := cwLeft, cwRight
	if len(pts) >= geom.MinRingSize && b.isCCW(pts) {
		left, right = cwRight, cwLeft
		side = -side
	}
	b.addCurve(b.curves.RingCurve(pts, side, dist), left, right)
}

func (b *curveSetBuilder) isCCW(pts []geom.Coord) bool {
	return geom.IsCCW(pts) != b.curves.params.InvertOrientation
}

// isErodedCompletely reports whether a negative buffer certainly removes
// the whole ring. It may report false for rings that still vanish.
func isErodedCompletely(ring []geom.Coord, distance float64) bool {
	switch {
	case len(ring) < geom.MinRingSize:
		return distance < 0
	case len(ring) == geom.MinRingSize:
		return isTriangleErodedCompletely(ring, distance)
	}
	env := geom.EnvelopeOf(ring)
	size := env.Size()
	return distance < 0 && 2*math.Abs(distance) > min(size.X, size.Y)
}

// isTriangleErodedCompletely compares the distance with the radius of the
// triangle's inscribed circle.
func isTriangleErodedCompletely(tri []geom.Coord, distance float64) bool {
	centre := geom.Incentre(tri[0], tri[1], tri[2])
	return geom.DistanceToSegment(centre, tri[0], tri[1]) < math.Abs(distance)
}
