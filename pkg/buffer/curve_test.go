package buffer

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/geobuffer/pkg/geom"
)

func coords(xy ...float64) []geom.Coord {
	pts := make([]geom.Coord, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		pts = append(pts, geom.C(xy[i], xy[i+1]))
	}
	return pts
}

func isClosed(pts []geom.Coord) bool {
	return len(pts) > 0 && pts[0] == pts[len(pts)-1]
}

func TestRingCurveZeroDistance(t *testing.T) {
	ring := coords(0, 0, 0, 10, 10, 10, 10, 0, 0, 0)
	b := NewCurveBuilder(DefaultParameters(), geom.Floating())
	for _, side := range []int{geom.Left, geom.Right} {
		got := b.RingCurve(ring, side, 0)
		if !slices.Equal(got, ring) {
			t.Errorf("RingCurve(side=%d, 0) = %v, want %v", side, got, ring)
		}
		if len(got) > 0 && &got[0] == &ring[0] {
			t.Error("RingCurve() returned the input slice, want a copy")
		}
	}
}

func TestCurvesAreClosed(t *testing.T) {
	tests := []struct {
		name   string
		params func(*Parameters)
		line   []geom.Coord
		dist   float64
	}{
		{name: "round", line: coords(0, 0, 10, 0, 10, 10)},
		{name: "flat", params: func(p *Parameters) { p.Cap = CapFlat }, line: coords(0, 0, 10, 0, 5, 5)},
		{name: "square", params: func(p *Parameters) { p.Cap = CapSquare }, line: coords(0, 0, 3, 4)},
		{name: "mitre", params: func(p *Parameters) { p.Join = JoinMitre }, line: coords(0, 0, 10, 0, 0, 1)},
		{name: "bevel", params: func(p *Parameters) { p.Join = JoinBevel }, line: coords(0, 0, 10, 0, 10, 10)},
		{name: "single sided left", params: func(p *Parameters) { p.SingleSided = true }, line: coords(0, 0, 10, 0)},
		{name: "single sided right", params: func(p *Parameters) { p.SingleSided = true }, line: coords(0, 0, 10, 0), dist: -2},
		{name: "point", line: coords(3, 3)},
		{name: "reversal", line: coords(0, 0, 10, 0, 5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			if tt.params != nil {
				tt.params(&p)
			}
			dist := tt.dist
			if dist == 0 {
				dist = 2
			}
			got := NewCurveBuilder(p, geom.Floating()).LineCurve(tt.line, dist)
			if len(got) < 4 {
				t.Fatalf("LineCurve() has %d points, want at least 4", len(got))
			}
			if !isClosed(got) {
				t.Errorf("LineCurve() is not closed: first %v, last %v", got[0], got[len(got)-1])
			}
		})
	}
}

func TestLineCurveEmpty(t *testing.T) {
	b := NewCurveBuilder(DefaultParameters(), geom.Floating())
	line := coords(0, 0, 10, 0)
	if got := b.LineCurve(line, 0); got != nil {
		t.Errorf("LineCurve(d=0) = %v, want nil", got)
	}
	if got := b.LineCurve(line, -1); got != nil {
		t.Errorf("LineCurve(d=-1) = %v, want nil", got)
	}
	if got := b.LineCurve(nil, 1); got != nil {
		t.Errorf("LineCurve(nil) = %v, want nil", got)
	}

	p := DefaultParameters()
	p.Cap = CapFlat
	if got := NewCurveBuilder(p, geom.Floating()).LineCurve(coords(1, 1), 1); got != nil {
		t.Errorf("flat-capped point curve = %v, want nil", got)
	}
}

func TestPointCurve(t *testing.T) {
	tests := []struct {
		qs   int
		want int
	}{
		{qs: 8, want: 33},
		{qs: 2, want: 9},
		{qs: 1, want: 5},
		{qs: 0, want: 5},
	}
	for _, tt := range tests {
		p := DefaultParameters()
		p.QuadrantSegments = tt.qs
		got := NewCurveBuilder(p, geom.Floating()).LineCurve(coords(0, 0), 5)
		if len(got) != tt.want {
			t.Errorf("qs=%d: circle has %d points, want %d", tt.qs, len(got), tt.want)
		}
		if geom.IsCCW(got) {
			t.Errorf("qs=%d: circle is counter-clockwise", tt.qs)
		}
		for _, pt := range got {
			if r := geom.Distance(pt, geom.C(0, 0)); math.Abs(r-5) > 1e-9 {
				t.Errorf("qs=%d: vertex %v at radius %v, want 5", tt.qs, pt, r)
			}
		}
	}
}

func TestSquarePointCurve(t *testing.T) {
	p := DefaultParameters()
	p.Cap = CapSquare
	got := NewCurveBuilder(p, geom.Floating()).LineCurve(coords(1, 1), 2)
	want := coords(3, 3, 3, -1, -1, -1, -1, 3, 3, 3)
	if !slices.Equal(got, want) {
		t.Errorf("LineCurve() = %v, want %v", got, want)
	}
}

func TestFlatLineCurve(t *testing.T) {
	p := DefaultParameters()
	p.Cap = CapFlat
	got := NewCurveBuilder(p, geom.Floating()).LineCurve(coords(0, 0, 10, 0), 2)
	want := coords(10, 2, 10, -2, 0, -2, 0, 2, 10, 2)
	if !slices.Equal(got, want) {
		t.Errorf("LineCurve() = %v, want %v", got, want)
	}
}

func TestMitreJoin(t *testing.T) {
	p := DefaultParameters()
	p.Cap = CapFlat
	p.Join = JoinMitre
	got := NewCurveBuilder(p, geom.Floating()).LineCurve(coords(0, 0, 10, 0, 10, 10), 1)
	if !slices.Contains(got, geom.C(11, -1)) {
		t.Errorf("LineCurve() = %v, want mitre corner (11, -1)", got)
	}

	// A mitre limit below the corner distance clips the corner.
	p.MitreLimit = 1.2
	got = NewCurveBuilder(p, geom.Floating()).LineCurve(coords(0, 0, 10, 0, 10, 10), 1)
	if slices.Contains(got, geom.C(11, -1)) {
		t.Errorf("limited mitre kept the full corner: %v", got)
	}
	// Clipped vertices lie no further than the limit along the bisector.
	for _, pt := range got {
		if pt.X <= 10 || pt.Y >= 0 {
			continue
		}
		if along := (pt.X - 10 - pt.Y) / math.Sqrt2; along > 1.2+1e-9 {
			t.Errorf("corner vertex %v lies %v along the bisector, want at most 1.2", pt, along)
		}
	}
}

func TestRingCurveSides(t *testing.T) {
	// Clockwise square: the left side is outside, the right side inside.
	ring := coords(0, 0, 0, 10, 10, 10, 10, 0, 0, 0)
	b := NewCurveBuilder(DefaultParameters(), geom.Floating())

	inner := b.RingCurve(ring, geom.Right, 3)
	want := coords(3, 3, 3, 7, 7, 7, 7, 3, 3, 3)
	if !slices.Equal(inner, want) {
		t.Errorf("RingCurve(right) = %v, want %v", inner, want)
	}

	outer := b.RingCurve(ring, geom.Left, 1)
	if !isClosed(outer) {
		t.Fatal("RingCurve(left) is not closed")
	}
	for _, pt := range outer {
		if geom.InRing(pt, ring) {
			t.Errorf("outer curve vertex %v lies inside the ring", pt)
		}
	}
}

func TestSimplifyLine(t *testing.T) {
	tests := []struct {
		name string
		line []geom.Coord
		tol  float64
		want int
	}{
		// The vertex at x=5 dips 0.005 to the right of a line heading
		// east, away from the left side.
		{name: "shallow dip", line: coords(0, 0, 2, 0, 5, -0.005, 10, 0), tol: 0.01, want: 3},
		{name: "dip on the offset side", line: coords(0, 0, 2, 0, 5, -0.005, 10, 0), tol: -0.01, want: 4},
		{name: "deep dip", line: coords(0, 0, 2, 0, 5, -1, 10, 0), tol: 0.01, want: 4},
		{name: "first segment kept", line: coords(0, 0, 5, -0.005, 10, 0), tol: 0.01, want: 3},
		{name: "several dips", line: coords(0, 0, 2, 0, 4, -0.005, 6, 0, 8, -0.005, 10, 0), tol: 0.01, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := simplifyLine(tt.line, tt.tol)
			if len(got) != tt.want {
				t.Errorf("simplifyLine() = %v, want %d vertices", got, tt.want)
			}
			if got[0] != tt.line[0] || got[len(got)-1] != tt.line[len(tt.line)-1] {
				t.Errorf("simplifyLine() = %v, want endpoints kept", got)
			}
		})
	}
}

func TestVertexList(t *testing.T) {
	l := newVertexList(geom.Fixed(10), 0.05)
	l.add(geom.C(0.01, 0.01))
	l.add(geom.C(0.02, 0.02))
	l.add(geom.C(1.04, 0))
	l.closeRing()
	want := coords(0, 0, 1, 0, 0, 0)
	if got := l.coords(); !slices.Equal(got, want) {
		t.Errorf("coords() = %v, want %v", got, want)
	}

	var empty vertexList
	empty.closeRing()
	if got := empty.coords(); len(got) != 0 {
		t.Errorf("closeRing() on empty list = %v, want empty", got)
	}
}
