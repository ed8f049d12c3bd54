package geom

import (
	"math"
	"testing"
)

func TestOrient(t *testing.T) {
	tests := []struct {
		name      string
		p1, p2, q Coord
		want      int
	}{
		{"left", C(0, 0), C(10, 0), C(5, 1), CounterClockwise},
		{"right", C(0, 0), C(10, 0), C(5, -1), Clockwise},
		{"collinear", C(0, 0), C(10, 0), C(20, 0), Collinear},
		{"near collinear", C(0, 0), C(1, 1), C(0.5, 0.5000000000000001), CounterClockwise},
		{"large coords", C(1e15, 1e15), C(1e15+1, 1e15+1), C(1e15+2, 1e15+2), Collinear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orient(tt.p1, tt.p2, tt.q); got != tt.want {
				t.Errorf("Orient() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrientExactMatchesFilter(t *testing.T) {
	pts := []Coord{C(0, 0), C(3, 1), C(-2, 5), C(7, -4), C(1.5, 2.25)}
	for _, a := range pts {
		for _, b := range pts {
			for _, c := range pts {
				if s, ok := orientFilter(a, b, c); ok && s != orientExact(a, b, c) {
					t.Errorf("filter and exact disagree for %v %v %v", a, b, c)
				}
			}
		}
	}
}

func TestSignedArea(t *testing.T) {
	ccw := []Coord{C(0, 0), C(10, 0), C(10, 10), C(0, 10), C(0, 0)}
	if got := SignedArea(ccw); got != 100 {
		t.Errorf("SignedArea(ccw) = %v, want 100", got)
	}
	if !IsCCW(ccw) {
		t.Error("IsCCW(ccw) = false, want true")
	}
	if IsCCW(ReverseCoords(ccw)) {
		t.Error("IsCCW(cw) = true, want false")
	}
}

func TestLocateInRing(t *testing.T) {
	ring := []Coord{C(0, 0), C(10, 0), C(10, 10), C(0, 10), C(0, 0)}
	tests := []struct {
		p    Coord
		want RingLocation
	}{
		{C(5, 5), RingInterior},
		{C(15, 5), RingExterior},
		{C(10, 5), RingBoundary},
		{C(5, 0), RingBoundary},
		{C(0, 0), RingBoundary},
		{C(-1, 10), RingExterior},
	}
	for _, tt := range tests {
		if got := LocateInRing(tt.p, ring); got != tt.want {
			t.Errorf("LocateInRing(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestLineIntersector(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, q1, q2 Coord
		kind           IntersectionKind
		proper         bool
		pt             Coord
	}{
		{"proper", C(0, 0), C(10, 10), C(0, 10), C(10, 0), PointIntersection, true, C(5, 5)},
		{"disjoint", C(0, 0), C(1, 0), C(0, 1), C(1, 1), NoIntersection, false, Coord{}},
		{"touch endpoint", C(0, 0), C(10, 0), C(10, 0), C(10, 5), PointIntersection, false, C(10, 0)},
		{"t junction", C(0, 0), C(10, 0), C(5, 0), C(5, 5), PointIntersection, false, C(5, 0)},
		{"collinear overlap", C(0, 0), C(10, 0), C(5, 0), C(15, 0), CollinearIntersection, false, C(5, 0)},
		{"collinear touch", C(0, 0), C(10, 0), C(10, 0), C(15, 0), PointIntersection, false, C(10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var li LineIntersector
			if got := li.Compute(tt.p1, tt.p2, tt.q1, tt.q2); got != tt.kind {
				t.Fatalf("Compute() = %v, want %v", got, tt.kind)
			}
			if li.IsProper() != tt.proper {
				t.Errorf("IsProper() = %v, want %v", li.IsProper(), tt.proper)
			}
			if tt.kind != NoIntersection && li.Point(0) != tt.pt {
				t.Errorf("Point(0) = %v, want %v", li.Point(0), tt.pt)
			}
		})
	}
}

func TestLineIntersectorRounds(t *testing.T) {
	li := LineIntersector{Precision: Fixed(1)}
	li.Compute(C(0, 0), C(10, 3), C(0, 3), C(10, 0))
	if got := li.Point(0); got != C(5, 2) {
		t.Errorf("Point(0) = %v, want (5, 2)", got)
	}
}

func TestLineIntersection(t *testing.T) {
	if _, ok := LineIntersection(C(0, 0), C(1, 0), C(0, 1), C(1, 1)); ok {
		t.Error("parallel lines reported an intersection")
	}
	pt, ok := LineIntersection(C(0, 0), C(1, 1), C(0, 4), C(1, 3))
	if !ok || math.Abs(pt.X-2) > 1e-12 || math.Abs(pt.Y-2) > 1e-12 {
		t.Errorf("LineIntersection() = %v, %v, want (2, 2)", pt, ok)
	}
}

func TestPrecisionModel(t *testing.T) {
	tests := []struct {
		pm   PrecisionModel
		in   float64
		want float64
	}{
		{Floating(), 1.23456, 1.23456},
		{Fixed(100), 1.23456, 1.23},
		{Fixed(1), 2.5, 3},
		{Fixed(1), -2.5, -2},
		{Fixed(0.1), 1234, 1230},
	}
	for _, tt := range tests {
		if got := tt.pm.MakePreciseValue(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v.MakePreciseValue(%v) = %v, want %v", tt.pm, tt.in, got, tt.want)
		}
	}
	if !Fixed(-1).IsFloating() {
		t.Error("Fixed(-1) should fall back to floating")
	}
}

func TestSegmentOffset(t *testing.T) {
	s := Segment{C(0, 0), C(10, 0)}
	left := s.Offset(Left, 2)
	if left.P0 != C(0, 2) || left.P1 != C(10, 2) {
		t.Errorf("Offset(Left) = %v, want (0,2)-(10,2)", left)
	}
	right := s.Offset(Right, 2)
	if right.P0 != C(0, -2) || right.P1 != C(10, -2) {
		t.Errorf("Offset(Right) = %v, want (0,-2)-(10,-2)", right)
	}
}

func TestSegmentOrientationOfSegment(t *testing.T) {
	s := Segment{C(0, 0), C(0, 10)}
	tests := []struct {
		other Segment
		want  int
	}{
		{Segment{C(-1, 0), C(-2, 5)}, Left},
		{Segment{C(1, 0), C(2, 5)}, Right},
		{Segment{C(-1, 0), C(1, 5)}, Collinear},
		{Segment{C(0, 0), C(-1, 5)}, Left},
	}
	for _, tt := range tests {
		if got := s.OrientationOfSegment(tt.other); got != tt.want {
			t.Errorf("OrientationOfSegment(%v) = %d, want %d", tt.other, got, tt.want)
		}
	}
}

func TestDistanceToSegment(t *testing.T) {
	if got := DistanceToSegment(C(5, 3), C(0, 0), C(10, 0)); got != 3 {
		t.Errorf("DistanceToSegment() = %v, want 3", got)
	}
	if got := DistanceToSegment(C(13, 4), C(0, 0), C(10, 0)); got != 5 {
		t.Errorf("DistanceToSegment() = %v, want 5", got)
	}
}

func TestIncentre(t *testing.T) {
	c := Incentre(C(0, 0), C(4, 0), C(0, 3))
	if math.Abs(c.X-1) > 1e-12 || math.Abs(c.Y-1) > 1e-12 {
		t.Errorf("Incentre() = %v, want (1, 1)", c)
	}
}

func TestAngleBetweenOriented(t *testing.T) {
	got := AngleBetweenOriented(C(1, 0), C(0, 0), C(0, 1))
	if math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("AngleBetweenOriented() = %v, want Pi/2", got)
	}
	got = AngleBetweenOriented(C(0, 1), C(0, 0), C(1, 0))
	if math.Abs(got+math.Pi/2) > 1e-12 {
		t.Errorf("AngleBetweenOriented() = %v, want -Pi/2", got)
	}
}

func TestRemoveRepeated(t *testing.T) {
	got := RemoveRepeated([]Coord{C(0, 0), C(0, 0), C(1, 1), C(math.NaN(), 0), C(1, 1), C(2, 2)})
	want := []Coord{C(0, 0), C(1, 1), C(2, 2)}
	if len(got) != len(want) {
		t.Fatalf("RemoveRepeated() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemoveRepeated()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGeometryModel(t *testing.T) {
	poly := Polygon{Rings: [][]Coord{
		{C(0, 0), C(10, 0), C(10, 10), C(0, 10), C(0, 0)},
		{C(2, 2), C(4, 2), C(4, 4), C(2, 4), C(2, 2)},
	}}
	if got := poly.Area(); got != 96 {
		t.Errorf("Area() = %v, want 96", got)
	}
	coll := Collection{Geometries: []Geometry{NewPoint(-5, 3), poly, LineString{}}}
	env := coll.Envelope()
	if env.X.Lo != -5 || env.X.Hi != 10 || env.Y.Lo != 0 || env.Y.Hi != 10 {
		t.Errorf("Envelope() = %v, want [-5,10]x[0,10]", env)
	}
	if coll.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !(Collection{Geometries: []Geometry{LineString{}, Point{Empty: true}}}).IsEmpty() {
		t.Error("collection of empties should be empty")
	}
	if got := NumCoords(coll); got != 11 {
		t.Errorf("NumCoords() = %d, want 11", got)
	}
	if TypeMultiPolygon.String() != "MultiPolygon" {
		t.Errorf("String() = %q", TypeMultiPolygon.String())
	}
}
