package buffer

import (
	"math"

	"github.com/matzehuels/geobuffer/pkg/geom"
)

const (
	// offsetSeparationFactor scales the distance below which the offset
	// endpoints at an outside turn are merged.
	offsetSeparationFactor = 1e-3
	// insideTurnSnapFactor scales the distance below which the offset
	// endpoints at an inside turn are merged.
	insideTurnSnapFactor = 1e-3
	// vertexSnapFactor scales the minimum distance between curve vertices.
	vertexSnapFactor = 1e-6
	// maxClosingSegFactor positions the closing segment of a narrow inside
	// turn close to the offset endpoints when round joins are fine enough.
	maxClosingSegFactor = 80
)

// segmentGenerator emits the vertices of an offset curve one input
// segment at a time, joining consecutive offset segments according to the
// configured join style.
type segmentGenerator struct {
	params      Parameters
	distance    float64
	quantum     float64 // Fillet angle step
	closeFactor int
	li          geom.LineIntersector
	out         *vertexList

	side       int // geom.Left or geom.Right
	s0, s1, s2 geom.Coord
	seg0, seg1 geom.Segment
	off0, off1 geom.Segment
}

func newSegmentGenerator(params Parameters, pm geom.PrecisionModel, distance float64) *segmentGenerator {
	qs := params.quadrantSegments()
	g := &segmentGenerator{
		params:      params,
		distance:    math.Abs(distance),
		quantum:     math.Pi / 2 / float64(qs),
		closeFactor: 1,
	}
	if params.QuadrantSegments >= 8 && params.Join == JoinRound {
		g.closeFactor = maxClosingSegFactor
	}
	g.out = newVertexList(pm, g.distance*vertexSnapFactor)
	return g
}

func (g *segmentGenerator) coords() []geom.Coord { return g.out.coords() }

func (g *segmentGenerator) closeRing() { g.out.closeRing() }

func (g *segmentGenerator) initSideSegments(s1, s2 geom.Coord, side int) {
	g.s1, g.s2, g.side = s1, s2, side
	g.seg1 = geom.Segment{P0: s1, P1: s2}
	g.off1 = g.seg1.Offset(side, g.distance)
}

// addNextSegment advances to the segment ending at p and emits the join at
// the shared vertex.
func (g *segmentGenerator) addNextSegment(p geom.Coord, addStartPoint bool) {
	g.s0, g.s1, g.s2 = g.s1, g.s2, p
	g.seg0 = geom.Segment{P0: g.s0, P1: g.s1}
	g.off0 = g.seg0.Offset(g.side, g.distance)
	g.seg1 = geom.Segment{P0: g.s1, P1: g.s2}
	g.off1 = g.seg1.Offset(g.side, g.distance)
	if g.s1 == g.s2 {
		return
	}

	turn := geom.Orient(g.s0, g.s1, g.s2)
	outside := (turn == geom.Clockwise && g.side == geom.Left) ||
		(turn == geom.CounterClockwise && g.side == geom.Right)
	switch {
	case turn == geom.Collinear:
		g.addCollinear(addStartPoint)
	case outside:
		g.addOutsideTurn(turn, addStartPoint)
	default:
		g.addInsideTurn()
	}
}

func (g *segmentGenerator) addFirstSegment() { g.out.add(g.off1.P0) }

func (g *segmentGenerator) addLastSegment() { g.out.add(g.off1.P1) }

// addCollinear handles a vertex whose segments are collinear. Only a
// reversal needs a join; a straight continuation needs no extra vertex.
func (g *segmentGenerator) addCollinear(addStartPoint bool) {
	if g.li.Compute(g.s0, g.s1, g.s1, g.s2); g.li.Count() < 2 {
		return
	}
	switch g.params.Join {
	case JoinBevel, JoinMitre:
		if addStartPoint {
			g.out.add(g.off0.P1)
		}
		g.out.add(g.off1.P0)
	default:
		dir := geom.Clockwise
		if g.side == geom.Right {
			dir = geom.CounterClockwise
		}
		g.addCornerFillet(g.s1, g.off0.P1, g.off1.P0, dir, g.distance)
	}
}

func (g *segmentGenerator) addOutsideTurn(turn int, addStartPoint bool) {
	if geom.Distance(g.off0.P1, g.off1.P0) < g.distance*offsetSeparationFactor {
		g.out.add(g.off0.P1)
		return
	}
	switch g.params.Join {
	case JoinMitre:
		g.addMitreJoin(g.s1)
	case JoinBevel:
		g.addBevelJoin()
	default:
		if addStartPoint {
			g.out.add(g.off0.P1)
		}
		g.addCornerFillet(g.s1, g.off0.P1, g.off1.P0, turn, g.distance)
		g.out.add(g.off1.P0)
	}
}

// addInsideTurn joins offset segments at a concave vertex. When the
// offsets do not intersect the turn is narrow, and a closing segment is
// routed near the vertex so the raw curve still encloses the correct area.
func (g *segmentGenerator) addInsideTurn() {
	if g.li.Compute(g.off0.P0, g.off0.P1, g.off1.P0, g.off1.P1); g.li.HasIntersection() {
		g.out.add(g.li.Point(0))
		return
	}
	g.out.add(g.off0.P1)
	if geom.Distance(g.off0.P1, g.off1.P0) < g.distance*insideTurnSnapFactor {
		return
	}
	f := float64(g.closeFactor)
	g.out.add(geom.C((f*g.off0.P1.X+g.s1.X)/(f+1), (f*g.off0.P1.Y+g.s1.Y)/(f+1)))
	g.out.add(geom.C((f*g.off1.P0.X+g.s1.X)/(f+1), (f*g.off1.P0.Y+g.s1.Y)/(f+1)))
	g.out.add(g.off1.P0)
}

func (g *segmentGenerator) addBevelJoin() {
	g.out.add(g.off0.P1)
	g.out.add(g.off1.P0)
}

// addMitreJoin extends the offset segments to their intersection when it
// lies within the mitre limit, otherwise clips the corner.
func (g *segmentGenerator) addMitreJoin(corner geom.Coord) {
	limit := g.params.MitreLimit * g.distance
	if p, ok := geom.LineIntersection(g.off0.P0, g.off0.P1, g.off1.P0, g.off1.P1); ok && geom.Distance(p, corner) <= limit {
		g.out.add(p)
		return
	}
	if geom.DistanceToSegment(corner, g.off0.P1, g.off1.P0) >= limit {
		g.addBevelJoin()
		return
	}
	g.addLimitedMitreJoin(limit)
}

// addLimitedMitreJoin clips the mitre corner with a line perpendicular to
// the corner bisector at the mitre limit distance.
func (g *segmentGenerator) addLimitedMitreJoin(limit float64) {
	corner := g.seg0.P1
	interior := geom.AngleBetweenOriented(g.seg0.P0, corner, g.seg1.P1)
	bisect := geom.NormalizeAngle(geom.Angle(corner, g.seg0.P0) + interior/2)
	mid := project(corner, -limit, bisect)
	along := project(mid, g.distance, geom.NormalizeAngle(bisect+math.Pi/2))

	p0, ok0 := geom.LineIntersection(g.off0.P0, g.off0.P1, mid, along)
	p1, ok1 := geom.LineIntersection(g.off1.P0, g.off1.P1, mid, along)
	if !ok0 || !ok1 {
		g.addBevelJoin()
		return
	}
	g.out.add(p0)
	g.out.add(p1)
}

func project(p geom.Coord, d, angle float64) geom.Coord {
	return geom.C(p.X+d*math.Cos(angle), p.Y+d*math.Sin(angle))
}

// addCornerFillet emits an arc around p from p0 to p1 turning in dir.
func (g *segmentGenerator) addCornerFillet(p, p0, p1 geom.Coord, dir int, radius float64) {
	start := geom.Angle(p, p0)
	end := geom.Angle(p, p1)
	if dir == geom.Clockwise {
		if start <= end {
			start += 2 * math.Pi
		}
	} else if start >= end {
		start -= 2 * math.Pi
	}
	g.out.add(p0)
	g.addDirectedFillet(p, start, end, dir, radius)
	g.out.add(p1)
}

// addDirectedFillet emits the arc vertices from start toward end, excluding
// end itself.
func (g *segmentGenerator) addDirectedFillet(p geom.Coord, start, end float64, dir int, radius float64) {
	sign := 1.0
	if dir == geom.Clockwise {
		sign = -1
	}
	total := math.Abs(start - end)
	n := int(total/g.quantum + 0.5)
	if n < 1 {
		return
	}
	inc := total / float64(n)
	for i := 0; i < n; i++ {
		a := start + sign*float64(i)*inc
		g.out.add(geom.C(p.X+radius*math.Cos(a), p.Y+radius*math.Sin(a)))
	}
}

// addLineEndCap emits the cap at p1 of the segment p0-p1.
func (g *segmentGenerator) addLineEndCap(p0, p1 geom.Coord) {
	seg := geom.Segment{P0: p0, P1: p1}
	left := seg.Offset(geom.Left, g.distance)
	right := seg.Offset(geom.Right, g.distance)
	angle := geom.Angle(p0, p1)
	switch g.params.Cap {
	case CapFlat:
		g.out.add(left.P1)
		g.out.add(right.P1)
	case CapSquare:
		dx, dy := g.distance*math.Cos(angle), g.distance*math.Sin(angle)
		g.out.add(geom.C(left.P1.X+dx, left.P1.Y+dy))
		g.out.add(geom.C(right.P1.X+dx, right.P1.Y+dy))
	default:
		g.out.add(left.P1)
		g.addDirectedFillet(p1, angle+math.Pi/2, angle-math.Pi/2, geom.Clockwise, g.distance)
		g.out.add(right.P1)
	}
}

// createCircle emits a clockwise circle around p.
func (g *segmentGenerator) createCircle(p geom.Coord) {
	g.out.add(geom.C(p.X+g.distance, p.Y))
	g.addDirectedFillet(p, 0, 2*math.Pi, geom.Clockwise, g.distance)
	g.out.closeRing()
}

// createSquare emits a clockwise square around p.
func (g *segmentGenerator) createSquare(p geom.Coord) {
	d := g.distance
	g.out.add(geom.C(p.X+d, p.Y+d))
	g.out.add(geom.C(p.X+d, p.Y-d))
	g.out.add(geom.C(p.X-d, p.Y-d))
	g.out.add(geom.C(p.X-d, p.Y+d))
	g.out.closeRing()
}
