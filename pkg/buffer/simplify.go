package buffer

import "github.com/matzehuels/geobuffer/pkg/geom"

// simplifySamples is the number of intermediate vertices checked before a
// concavity is removed.
const simplifySamples = 10

// simplifyLine removes vertices forming shallow concavities on one side of
// a line. With a positive tolerance, concavities on the left (counter-
// clockwise turns) are removed; with a negative one, those on the right.
// Such vertices cannot affect an offset curve built on that side at a
// distance much larger than the tolerance.
func simplifyLine(pts []geom.Coord, tolerance float64) []geom.Coord {
	s := simplifier{pts: pts, deleted: make([]bool, len(pts)), tol: tolerance, turn: geom.CounterClockwise}
	if tolerance < 0 {
		s.tol = -tolerance
		s.turn = geom.Clockwise
	}
	for s.deleteShallowConcavities() {
	}
	out := make([]geom.Coord, 0, len(pts))
	for i, p := range pts {
		if !s.deleted[i] {
			out = append(out, p)
		}
	}
	return out
}

type simplifier struct {
	pts     []geom.Coord
	deleted []bool
	tol     float64
	turn    int
}

// deleteShallowConcavities makes one pass over the line. The scan anchors
// at vertex 1 so the first segment is kept and end caps stay in place.
func (s *simplifier) deleteShallowConcavities() bool {
	i0 := 1
	i1 := s.next(i0)
	i2 := s.next(i1)
	changed := false
	for i2 < len(s.pts) {
		if s.isDeletable(i0, i1, i2) {
			s.deleted[i1] = true
			changed = true
			i0 = i2
		} else {
			i0 = i1
		}
		i1 = s.next(i0)
		i2 = s.next(i1)
	}
	return changed
}

func (s *simplifier) next(i int) int {
	i++
	for i < len(s.pts) && s.deleted[i] {
		i++
	}
	return i
}

func (s *simplifier) isDeletable(i0, i1, i2 int) bool {
	p0, p1, p2 := s.pts[i0], s.pts[i1], s.pts[i2]
	if geom.Orient(p0, p1, p2) != s.turn {
		return false
	}
	if !s.isShallow(p0, p1, p2) {
		return false
	}
	step := max((i2-i0)/simplifySamples, 1)
	for i := i0; i < i2; i += step {
		if !s.isShallow(p0, s.pts[i], p2) {
			return false
		}
	}
	return true
}

func (s *simplifier) isShallow(p0, p1, p2 geom.Coord) bool {
	return geom.DistanceToSegment(p1, p0, p2) < s.tol
}
