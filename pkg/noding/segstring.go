package noding

import (
	"slices"

	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// SegmentString is a labeled coordinate sequence that collects the nodes
// found on it while noding.
type SegmentString struct {
	Coords []geom.Coord
	Label  topology.Label

	nodes []segmentNode
}

type segmentNode struct {
	pt   geom.Coord
	seg  int
	dist float64 // Position along segment seg, scaled by its squared length
}

// NewSegmentString returns a segment string over coords.
func NewSegmentString(coords []geom.Coord, label topology.Label) *SegmentString {
	return &SegmentString{Coords: coords, Label: label}
}

// IsClosed reports whether the string starts and ends at the same point.
func (s *SegmentString) IsClosed() bool {
	return len(s.Coords) > 1 && s.Coords[0] == s.Coords[len(s.Coords)-1]
}

// NumSegments returns the number of segments.
func (s *SegmentString) NumSegments() int { return max(len(s.Coords)-1, 0) }

// Segment returns segment i.
func (s *SegmentString) Segment(i int) geom.Segment {
	return geom.Segment{P0: s.Coords[i], P1: s.Coords[i+1]}
}

// AddNode records a node at pt on segment seg. A node coinciding with the
// end of its segment is moved to the start of the next segment.
func (s *SegmentString) AddNode(pt geom.Coord, seg int) {
	if next := seg + 1; next < len(s.Coords)-1 && pt == s.Coords[next] {
		seg = next
	}
	dist := pt.Sub(s.Coords[seg]).Dot(s.Coords[seg+1].Sub(s.Coords[seg]))
	s.nodes = append(s.nodes, segmentNode{pt: pt, seg: seg, dist: dist})
}

func (s *SegmentString) addIntersections(li *geom.LineIntersector, seg int) {
	for i := 0; i < li.Count(); i++ {
		s.AddNode(li.Point(i), seg)
	}
}

// Split returns the substrings between consecutive nodes. The string's
// endpoints are always nodes, as is the middle vertex of any A-B-A
// collapse.
func (s *SegmentString) Split() []*SegmentString {
	n := len(s.Coords)
	if n < 2 {
		return nil
	}
	s.AddNode(s.Coords[0], 0)
	s.AddNode(s.Coords[n-1], n-2)
	for i := 0; i+2 < n; i++ {
		if s.Coords[i] == s.Coords[i+2] {
			s.AddNode(s.Coords[i+1], i+1)
		}
	}

	s.addInsertedCollapses()

	nodes := s.sortedNodes()
	var out []*SegmentString
	for k := 0; k+1 < len(nodes); k++ {
		if pts := s.splitPoints(nodes[k], nodes[k+1]); len(pts) >= 2 {
			out = append(out, NewSegmentString(pts, s.Label))
		}
	}
	s.nodes = nil
	return out
}

// addInsertedCollapses adds a node at the single vertex between two nodes
// that share a point. Snap rounding creates such A-B-A collapses when two
// nodes on either side of a vertex round to the same pixel.
func (s *SegmentString) addInsertedCollapses() {
	nodes := s.sortedNodes()
	var collapses []int
	for k := 0; k+1 < len(nodes); k++ {
		a, b := nodes[k], nodes[k+1]
		if a.pt != b.pt {
			continue
		}
		between := b.seg - a.seg
		if b.pt == s.Coords[b.seg] {
			between--
		}
		if between == 1 {
			collapses = append(collapses, a.seg+1)
		}
	}
	for _, i := range collapses {
		s.AddNode(s.Coords[i], i)
	}
}

func (s *SegmentString) sortedNodes() []segmentNode {
	slices.SortFunc(s.nodes, func(a, b segmentNode) int {
		switch {
		case a.seg != b.seg:
			return a.seg - b.seg
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}
		return geom.Compare(a.pt, b.pt)
	})
	s.nodes = slices.CompactFunc(s.nodes, func(a, b segmentNode) bool {
		return a.seg == b.seg && a.pt == b.pt
	})
	return s.nodes
}

func (s *SegmentString) splitPoints(a, b segmentNode) []geom.Coord {
	pts := []geom.Coord{a.pt}
	push := func(p geom.Coord) {
		if pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
	}
	for i := a.seg + 1; i <= b.seg; i++ {
		push(s.Coords[i])
	}
	push(b.pt)
	return pts
}

// Noder computes a fully noded set of segment strings.
type Noder interface {
	Node(ss []*SegmentString) ([]*SegmentString, error)
}

// splitAll returns the substrings of every input string.
func splitAll(ss []*SegmentString) []*SegmentString {
	var out []*SegmentString
	for _, s := range ss {
		out = append(out, s.Split()...)
	}
	return out
}
