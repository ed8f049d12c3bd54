package noding

import (
	"github.com/peterstace/simplefeatures/rtree"

	"github.com/matzehuels/geobuffer/pkg/geom"
)

// segmentRef addresses one segment of one string in a segment index.
type segmentRef struct {
	str, seg int
}

// segmentIndex is an R-tree over every segment of a set of strings.
type segmentIndex struct {
	ss   []*SegmentString
	refs []segmentRef
	tree *rtree.RTree
}

func newSegmentIndex(ss []*SegmentString) *segmentIndex {
	idx := &segmentIndex{ss: ss}
	var items []rtree.BulkItem
	for i, s := range ss {
		for j := 0; j < s.NumSegments(); j++ {
			items = append(items, rtree.BulkItem{
				Box:      segmentBox(s.Segment(j)),
				RecordID: len(idx.refs),
			})
			idx.refs = append(idx.refs, segmentRef{str: i, seg: j})
		}
	}
	idx.tree = rtree.BulkLoad(items)
	return idx
}

// eachPair calls fn once for every pair of segments whose envelopes
// overlap. A segment is never paired with itself.
func (idx *segmentIndex) eachPair(fn func(a, b segmentRef) error) error {
	for id, a := range idx.refs {
		box := segmentBox(idx.ss[a.str].Segment(a.seg))
		err := idx.tree.RangeSearch(box, func(other int) error {
			if other <= id {
				return nil
			}
			return fn(a, idx.refs[other])
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func segmentBox(s geom.Segment) rtree.Box {
	return rtree.Box{
		MinX: min(s.P0.X, s.P1.X),
		MinY: min(s.P0.Y, s.P1.Y),
		MaxX: max(s.P0.X, s.P1.X),
		MaxY: max(s.P0.Y, s.P1.Y),
	}
}

// isTrivialIntersection reports whether a single-point intersection between
// two segments of the same string is just their shared vertex.
func isTrivialIntersection(s *SegmentString, li *geom.LineIntersector, seg0, seg1 int) bool {
	if li.Count() != 1 {
		return false
	}
	if d := seg0 - seg1; d == 1 || d == -1 {
		return true
	}
	if s.IsClosed() {
		last := s.NumSegments() - 1
		if (seg0 == 0 && seg1 == last) || (seg1 == 0 && seg0 == last) {
			return true
		}
	}
	return false
}
