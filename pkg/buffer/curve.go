package buffer

import "github.com/matzehuels/geobuffer/pkg/geom"

// simplifyFactor relates the input simplification tolerance to the buffer
// distance.
const simplifyFactor = 0.01

// CurveBuilder computes raw offset curves for single lines and rings.
// Raw curves may self-intersect; they become a valid buffer only after
// noding and depth classification.
type CurveBuilder struct {
	params Parameters
	pm     geom.PrecisionModel
}

// NewCurveBuilder returns a builder whose output vertices are rounded to pm.
func NewCurveBuilder(params Parameters, pm geom.PrecisionModel) *CurveBuilder {
	return &CurveBuilder{params: params, pm: pm}
}

// Parameters returns the builder's parameters.
func (b *CurveBuilder) Parameters() Parameters { return b.params }

// isLineOffsetEmpty reports whether a line buffered at distance has no
// area.
func (b *CurveBuilder) isLineOffsetEmpty(distance float64) bool {
	return distance == 0 || (distance < 0 && !b.params.SingleSided)
}

// LineCurve returns the closed raw curve around a line. A line with a
// single distinct point yields a circle or square depending on the cap
// style. It returns nil when the buffer is empty.
func (b *CurveBuilder) LineCurve(pts []geom.Coord, distance float64) []geom.Coord {
	pts = geom.RemoveRepeated(pts)
	if len(pts) == 0 || b.isLineOffsetEmpty(distance) {
		return nil
	}
	gen := newSegmentGenerator(b.params, b.pm, distance)
	switch {
	case len(pts) == 1:
		b.pointCurve(pts[0], gen)
	case b.params.SingleSided:
		b.singleSidedCurve(pts, distance, distance < 0, gen)
	default:
		b.lineCurve(pts, distance, gen)
	}
	return gen.coords()
}

// RingCurve returns the raw offset curve of a closed ring on the given
// side (geom.Left or geom.Right). A zero distance returns a copy of the
// ring; rings too short to have an interior are buffered as lines.
func (b *CurveBuilder) RingCurve(pts []geom.Coord, side int, distance float64) []geom.Coord {
	if len(pts) <= 2 {
		return b.LineCurve(pts, distance)
	}
	if distance == 0 {
		return geom.CopyCoords(pts)
	}
	gen := newSegmentGenerator(b.params, b.pm, distance)
	tol := distance * simplifyFactor
	if side == geom.Right {
		tol = -tol
	}
	simp := simplifyLine(pts, tol)
	n := len(simp) - 1
	gen.initSideSegments(simp[n-1], simp[0], side)
	for i := 1; i <= n; i++ {
		gen.addNextSegment(simp[i], i != 1)
	}
	gen.closeRing()
	return gen.coords()
}

func (b *CurveBuilder) pointCurve(p geom.Coord, gen *segmentGenerator) {
	switch b.params.Cap {
	case CapRound:
		gen.createCircle(p)
	case CapSquare:
		gen.createSquare(p)
	}
}

// lineCurve walks the left side of the line forward and then the left side
// of the reversed line, capping both ends.
func (b *CurveBuilder) lineCurve(pts []geom.Coord, distance float64, gen *segmentGenerator) {
	tol := distance * simplifyFactor

	fwd := simplifyLine(pts, tol)
	n := len(fwd) - 1
	gen.initSideSegments(fwd[0], fwd[1], geom.Left)
	for i := 2; i <= n; i++ {
		gen.addNextSegment(fwd[i], true)
	}
	gen.addLastSegment()
	gen.addLineEndCap(fwd[n-1], fwd[n])

	back := simplifyLine(pts, -tol)
	n = len(back) - 1
	gen.initSideSegments(back[n], back[n-1], geom.Left)
	for i := n - 2; i >= 0; i-- {
		gen.addNextSegment(back[i], true)
	}
	gen.addLastSegment()
	gen.addLineEndCap(back[1], back[0])

	gen.closeRing()
}

// singleSidedCurve emits the line itself and its offset on one side.
func (b *CurveBuilder) singleSidedCurve(pts []geom.Coord, distance float64, rightSide bool, gen *segmentGenerator) {
	tol := distance * simplifyFactor
	if rightSide {
		gen.out.addAll(pts, true)
		simp := simplifyLine(pts, -tol)
		n := len(simp) - 1
		gen.initSideSegments(simp[n], simp[n-1], geom.Left)
		gen.addFirstSegment()
		for i := n - 2; i >= 0; i-- {
			gen.addNextSegment(simp[i], true)
		}
	} else {
		gen.out.addAll(pts, false)
		simp := simplifyLine(pts, tol)
		n := len(simp) - 1
		gen.initSideSegments(simp[0], simp[1], geom.Left)
		gen.addFirstSegment()
		for i := 2; i <= n; i++ {
			gen.addNextSegment(simp[i], true)
		}
	}
	gen.addLastSegment()
	gen.closeRing()
}
