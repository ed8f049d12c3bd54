package geom

import "math"

// IntersectionKind classifies the result of a segment intersection test.
type IntersectionKind int

const (
	NoIntersection IntersectionKind = iota
	PointIntersection
	CollinearIntersection
)

// LineIntersector computes intersections between pairs of segments. Computed
// intersection points are rounded with Precision; the zero value uses the
// floating model.
type LineIntersector struct {
	Precision PrecisionModel

	kind   IntersectionKind
	proper bool
	pts    [2]Coord
	input  [2][2]Coord
}

// Compute intersects segment p1-p2 with q1-q2 and returns the kind of
// intersection found. Results are available from [LineIntersector.Point]
// until the next call.
func (li *LineIntersector) Compute(p1, p2, q1, q2 Coord) IntersectionKind {
	li.input = [2][2]Coord{{p1, p2}, {q1, q2}}
	li.proper = false
	li.kind = li.compute(p1, p2, q1, q2)
	return li.kind
}

// Kind returns the kind of the last computed intersection.
func (li *LineIntersector) Kind() IntersectionKind { return li.kind }

// HasIntersection reports whether the last computation found any intersection.
func (li *LineIntersector) HasIntersection() bool { return li.kind != NoIntersection }

// Count returns the number of intersection points: 0, 1 or 2.
func (li *LineIntersector) Count() int { return int(li.kind) }

// Point returns the i-th intersection point.
func (li *LineIntersector) Point(i int) Coord { return li.pts[i] }

// IsProper reports whether the last intersection is a single point interior
// to both segments.
func (li *LineIntersector) IsProper() bool { return li.kind == PointIntersection && li.proper }

// IsInteriorIntersection reports whether some intersection point differs
// from the endpoints of input segment idx (0 for p, 1 for q).
func (li *LineIntersector) IsInteriorIntersection(idx int) bool {
	for i := 0; i < li.Count(); i++ {
		if li.pts[i] != li.input[idx][0] && li.pts[i] != li.input[idx][1] {
			return true
		}
	}
	return false
}

func (li *LineIntersector) compute(p1, p2, q1, q2 Coord) IntersectionKind {
	if !segmentEnvelopesIntersect(p1, p2, q1, q2) {
		return NoIntersection
	}
	pq1 := Orient(p1, p2, q1)
	pq2 := Orient(p1, p2, q2)
	if (pq1 > 0 && pq2 > 0) || (pq1 < 0 && pq2 < 0) {
		return NoIntersection
	}
	qp1 := Orient(q1, q2, p1)
	qp2 := Orient(q1, q2, p2)
	if (qp1 > 0 && qp2 > 0) || (qp1 < 0 && qp2 < 0) {
		return NoIntersection
	}
	if pq1 == 0 && pq2 == 0 && qp1 == 0 && qp2 == 0 {
		return li.computeCollinear(p1, p2, q1, q2)
	}

	if pq1 == 0 || pq2 == 0 || qp1 == 0 || qp2 == 0 {
		// Endpoint touches: the shared point is exact, no rounding needed.
		switch {
		case p1 == q1 || p1 == q2:
			li.pts[0] = p1
		case p2 == q1 || p2 == q2:
			li.pts[0] = p2
		case pq1 == 0:
			li.pts[0] = q1
		case pq2 == 0:
			li.pts[0] = q2
		case qp1 == 0:
			li.pts[0] = p1
		default:
			li.pts[0] = p2
		}
		return PointIntersection
	}

	li.proper = true
	li.pts[0] = li.properIntersection(p1, p2, q1, q2)
	return PointIntersection
}

func (li *LineIntersector) computeCollinear(p1, p2, q1, q2 Coord) IntersectionKind {
	q1inP := inSegmentEnvelope(p1, p2, q1)
	q2inP := inSegmentEnvelope(p1, p2, q2)
	p1inQ := inSegmentEnvelope(q1, q2, p1)
	p2inQ := inSegmentEnvelope(q1, q2, p2)

	set := func(a, b Coord, single bool) IntersectionKind {
		li.pts[0], li.pts[1] = a, b
		if single {
			return PointIntersection
		}
		return CollinearIntersection
	}
	switch {
	case q1inP && q2inP:
		return set(q1, q2, false)
	case p1inQ && p2inQ:
		return set(p1, p2, false)
	case q1inP && p1inQ:
		return set(q1, p1, q1 == p1 && !q2inP && !p2inQ)
	case q1inP && p2inQ:
		return set(q1, p2, q1 == p2 && !q2inP && !p1inQ)
	case q2inP && p1inQ:
		return set(q2, p1, q2 == p1 && !q1inP && !p2inQ)
	case q2inP && p2inQ:
		return set(q2, p2, q2 == p2 && !q1inP && !p1inQ)
	}
	return NoIntersection
}

func (li *LineIntersector) properIntersection(p1, p2, q1, q2 Coord) Coord {
	pt, ok := LineIntersection(p1, p2, q1, q2)
	if !ok || !inSegmentEnvelope(p1, p2, pt) || !inSegmentEnvelope(q1, q2, pt) {
		pt = nearestEndpoint(p1, p2, q1, q2)
	}
	return li.Precision.MakePrecise(pt)
}

// nearestEndpoint returns the endpoint of either segment closest to the other
// segment. It stands in for an intersection point that could not be computed
// accurately.
func nearestEndpoint(p1, p2, q1, q2 Coord) Coord {
	best, bestDist := p1, DistanceToSegment(p1, q1, q2)
	for _, c := range []struct {
		pt   Coord
		a, b Coord
	}{{p2, q1, q2}, {q1, p1, p2}, {q2, p1, p2}} {
		if d := DistanceToSegment(c.pt, c.a, c.b); d < bestDist {
			best, bestDist = c.pt, d
		}
	}
	return best
}

// LineIntersection returns the intersection of the infinite lines through
// p1-p2 and q1-q2. It reports false when the lines are parallel or the result
// is not representable.
func LineIntersection(p1, p2, q1, q2 Coord) (Coord, bool) {
	// Translate toward the middle of the inputs to reduce cancellation.
	midX := (math.Max(min(p1.X, p2.X), min(q1.X, q2.X)) + math.Min(max(p1.X, p2.X), max(q1.X, q2.X))) / 2
	midY := (math.Max(min(p1.Y, p2.Y), min(q1.Y, q2.Y)) + math.Min(max(p1.Y, p2.Y), max(q1.Y, q2.Y))) / 2

	p1x, p1y := p1.X-midX, p1.Y-midY
	p2x, p2y := p2.X-midX, p2.Y-midY
	q1x, q1y := q1.X-midX, q1.Y-midY
	q2x, q2y := q2.X-midX, q2.Y-midY

	px, py := p1y-p2y, p2x-p1x
	pw := p1x*p2y - p2x*p1y
	qx, qy := q1y-q2y, q2x-q1x
	qw := q1x*q2y - q2x*q1y

	x := py*qw - qy*pw
	y := qx*pw - px*qw
	w := px*qy - qx*py

	xi, yi := x/w, y/w
	if math.IsNaN(xi) || math.IsInf(xi, 0) || math.IsNaN(yi) || math.IsInf(yi, 0) {
		return Coord{}, false
	}
	return Coord{X: xi + midX, Y: yi + midY}, true
}

// LineSegmentIntersection intersects the infinite line through l1-l2 with the
// segment s1-s2. It reports false when the segment lies strictly on one side
// of the line.
func LineSegmentIntersection(l1, l2, s1, s2 Coord) (Coord, bool) {
	o1 := Orient(l1, l2, s1)
	if o1 == 0 {
		return s1, true
	}
	o2 := Orient(l1, l2, s2)
	if o2 == 0 {
		return s2, true
	}
	if (o1 > 0 && o2 > 0) || (o1 < 0 && o2 < 0) {
		return Coord{}, false
	}
	if pt, ok := LineIntersection(l1, l2, s1, s2); ok {
		return pt, true
	}
	if DistanceToLine(s1, l1, l2) < DistanceToLine(s2, l1, l2) {
		return s1, true
	}
	return s2, true
}
