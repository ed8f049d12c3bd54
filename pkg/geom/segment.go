package geom

import (
	"math"

	"github.com/golang/geo/r1"
)

// Segment is a directed line segment from P0 to P1.
type Segment struct {
	P0, P1 Coord
}

// Reverse returns the segment with its endpoints swapped.
func (s Segment) Reverse() Segment { return Segment{P0: s.P1, P1: s.P0} }

// IsHorizontal reports whether both endpoints share a Y ordinate.
func (s Segment) IsHorizontal() bool { return s.P0.Y == s.P1.Y }

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return Distance(s.P0, s.P1) }

// XRange returns the interval spanned by the segment along the X axis.
func (s Segment) XRange() r1.Interval { return r1.IntervalFromPoint(s.P0.X).AddPoint(s.P1.X) }

// YRange returns the interval spanned by the segment along the Y axis.
func (s Segment) YRange() r1.Interval { return r1.IntervalFromPoint(s.P0.Y).AddPoint(s.P1.Y) }

// OrientationOf returns the orientation of p relative to the segment.
func (s Segment) OrientationOf(p Coord) int { return Orient(s.P0, s.P1, p) }

// OrientationOfSegment reports on which side of s the other segment lies:
// [Left] or [Right] when both endpoints are on that side (or on the line),
// and [Collinear] when the segment straddles s or lies on it.
func (s Segment) OrientationOfSegment(other Segment) int {
	o0 := s.OrientationOf(other.P0)
	o1 := s.OrientationOf(other.P1)
	if o0 >= 0 && o1 >= 0 {
		return max(o0, o1)
	}
	if o0 <= 0 && o1 <= 0 {
		return min(o0, o1)
	}
	return 0
}

// Compare orders segments by P0 then P1, lexicographically.
func (s Segment) Compare(other Segment) int {
	if c := Compare(s.P0, other.P0); c != 0 {
		return c
	}
	return Compare(s.P1, other.P1)
}

// ProjectionFactor returns the position of the projection of p onto the
// line through the segment, as a fraction of the segment length from P0.
func (s Segment) ProjectionFactor(p Coord) float64 {
	if p == s.P0 {
		return 0
	}
	if p == s.P1 {
		return 1
	}
	d := s.P1.Sub(s.P0)
	l2 := d.Dot(d)
	if l2 == 0 {
		return math.NaN()
	}
	return p.Sub(s.P0).Dot(d) / l2
}

// Offset returns the segment translated perpendicular to itself by distance
// toward side ([Left] or [Right]). A zero-length segment is returned
// unchanged.
func (s Segment) Offset(side int, distance float64) Segment {
	d := s.P1.Sub(s.P0)
	l := d.Norm()
	if l == 0 {
		return s
	}
	sideSign := 1.0
	if side == Right {
		sideSign = -1
	}
	ux := sideSign * distance * d.X / l
	uy := sideSign * distance * d.Y / l
	return Segment{
		P0: Coord{X: s.P0.X - uy, Y: s.P0.Y + ux},
		P1: Coord{X: s.P1.X - uy, Y: s.P1.Y + ux},
	}
}

// DistanceToSegment returns the distance from p to the closed segment a-b.
func DistanceToSegment(p, a, b Coord) float64 {
	if a == b {
		return Distance(p, a)
	}
	d := b.Sub(a)
	r := p.Sub(a).Dot(d) / d.Dot(d)
	switch {
	case r <= 0:
		return Distance(p, a)
	case r >= 1:
		return Distance(p, b)
	}
	return math.Abs(d.Cross(p.Sub(a))) / d.Norm()
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through a and b.
func DistanceToLine(p, a, b Coord) float64 {
	d := b.Sub(a)
	l := d.Norm()
	if l == 0 {
		return Distance(p, a)
	}
	return math.Abs(d.Cross(p.Sub(a))) / l
}

// Angle returns the angle of the vector from p0 to p1, in (-Pi, Pi].
func Angle(p0, p1 Coord) float64 {
	return math.Atan2(p1.Y-p0.Y, p1.X-p0.X)
}

// NormalizeAngle maps an angle into (-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleBetweenOriented returns the oriented angle from tail->tip1 to
// tail->tip2, in (-Pi, Pi]. Positive values are counter-clockwise.
func AngleBetweenOriented(tip1, tail, tip2 Coord) float64 {
	delta := Angle(tail, tip2) - Angle(tail, tip1)
	switch {
	case delta <= -math.Pi:
		return delta + 2*math.Pi
	case delta > math.Pi:
		return delta - 2*math.Pi
	}
	return delta
}

// Incentre returns the centre of the circle inscribed in triangle a, b, c.
func Incentre(a, b, c Coord) Coord {
	// Weights are the lengths of the opposite sides.
	la := Distance(b, c)
	lb := Distance(a, c)
	lc := Distance(a, b)
	sum := la + lb + lc
	if sum == 0 {
		return a
	}
	return Coord{
		X: (la*a.X + lb*b.X + lc*c.X) / sum,
		Y: (la*a.Y + lb*b.Y + lc*c.Y) / sum,
	}
}
