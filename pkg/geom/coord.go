package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Coord is a planar coordinate.
type Coord = r2.Point

// C is shorthand for constructing a Coord.
func C(x, y float64) Coord { return Coord{X: x, Y: y} }

// Compare orders coordinates lexicographically by X, then Y.
func Compare(a, b Coord) int {
	switch {
	case a.X < b.X:
		return -1
	case a.X > b.X:
		return 1
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	}
	return 0
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Coord) float64 { return a.Sub(b).Norm() }

// IsValid reports whether both ordinates are finite.
func IsValid(c Coord) bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

// CopyCoords returns a copy of pts.
func CopyCoords(pts []Coord) []Coord {
	if pts == nil {
		return nil
	}
	out := make([]Coord, len(pts))
	copy(out, pts)
	return out
}

// ReverseCoords returns a reversed copy of pts.
func ReverseCoords(pts []Coord) []Coord {
	out := make([]Coord, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// RemoveRepeated drops consecutive duplicates and non-finite coordinates.
// The input is not modified.
func RemoveRepeated(pts []Coord) []Coord {
	out := make([]Coord, 0, len(pts))
	for _, p := range pts {
		if !IsValid(p) {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsClosedRing reports whether pts has at least 4 coordinates and ends where
// it starts.
func IsClosedRing(pts []Coord) bool {
	return len(pts) >= MinRingSize && pts[0] == pts[len(pts)-1]
}

// MinRingSize is the number of coordinates in the smallest valid ring.
const MinRingSize = 4

// PointNotIn returns the first point of test that does not occur in pts, or
// the zero coordinate and false when every point does.
func PointNotIn(test, pts []Coord) (Coord, bool) {
	seen := make(map[Coord]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
	}
	for _, p := range test {
		if _, ok := seen[p]; !ok {
			return p, true
		}
	}
	return Coord{}, false
}

// EnvelopeOf returns the bounding rectangle of pts. It is empty when pts is.
func EnvelopeOf(pts []Coord) r2.Rect {
	env := r2.EmptyRect()
	for _, p := range pts {
		env = env.AddPoint(p)
	}
	return env
}

// EnvelopeContains reports whether outer contains inner entirely, boundaries
// included.
func EnvelopeContains(outer, inner r2.Rect) bool {
	if inner.IsEmpty() {
		return false
	}
	return outer.ContainsPoint(inner.Lo()) && outer.ContainsPoint(inner.Hi())
}

// segmentEnvelopesIntersect reports whether the bounding boxes of p1-p2 and
// q1-q2 overlap.
func segmentEnvelopesIntersect(p1, p2, q1, q2 Coord) bool {
	return r2.RectFromPoints(p1, p2).Intersects(r2.RectFromPoints(q1, q2))
}

// inSegmentEnvelope reports whether q lies in the bounding box of p1-p2.
func inSegmentEnvelope(p1, p2, q Coord) bool {
	return r2.RectFromPoints(p1, p2).ContainsPoint(q)
}
