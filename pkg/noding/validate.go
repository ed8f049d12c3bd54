package noding

import (
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

// Validate checks that ss is fully noded: no two segments may intersect
// anywhere except at shared endpoints. The first violation is reported as
// a robustness error carrying its location.
func Validate(ss []*SegmentString) error {
	if len(ss) == 0 {
		return nil
	}
	var li geom.LineIntersector
	idx := newSegmentIndex(ss)
	return idx.eachPair(func(a, b segmentRef) error {
		pa, pb := ss[a.str].Segment(a.seg), ss[b.str].Segment(b.seg)
		if li.Compute(pa.P0, pa.P1, pb.P0, pb.P1) == geom.NoIntersection {
			return nil
		}
		if li.IsInteriorIntersection(0) || li.IsInteriorIntersection(1) {
			p := li.Point(0)
			return errors.New(errors.ErrCodeRobustness,
				"found non-noded intersection at (%g, %g)", p.X, p.Y)
		}
		return nil
	})
}
