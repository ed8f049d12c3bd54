package noding

import "github.com/matzehuels/geobuffer/pkg/geom"

// IndexedNoder nodes segment strings by intersecting every pair of
// segments with overlapping envelopes. Intersection points are rounded with
// Precision.
//
// The result is not guaranteed to be fully noded: rounding an intersection
// point can create new intersections. Callers that need a guarantee should
// run [Validate] on the output or use a [SnapRoundingNoder].
type IndexedNoder struct {
	Precision geom.PrecisionModel

	// Intersections counts non-trivial intersections found by the last
	// call to Node.
	Intersections int
}

// NewIndexedNoder returns a noder rounding to pm.
func NewIndexedNoder(pm geom.PrecisionModel) *IndexedNoder {
	return &IndexedNoder{Precision: pm}
}

// Node implements [Noder].
func (n *IndexedNoder) Node(ss []*SegmentString) ([]*SegmentString, error) {
	n.Intersections = 0
	if len(ss) == 0 {
		return nil, nil
	}
	li := &geom.LineIntersector{Precision: n.Precision}
	idx := newSegmentIndex(ss)
	err := idx.eachPair(func(a, b segmentRef) error {
		sa, sb := ss[a.str], ss[b.str]
		pa, pb := sa.Segment(a.seg), sb.Segment(b.seg)
		if li.Compute(pa.P0, pa.P1, pb.P0, pb.P1) == geom.NoIntersection {
			return nil
		}
		if sa == sb && isTrivialIntersection(sa, li, a.seg, b.seg) {
			return nil
		}
		n.Intersections++
		sa.addIntersections(li, a.seg)
		sb.addIntersections(li, b.seg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return splitAll(ss), nil
}
