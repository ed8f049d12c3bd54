package noding

import (
	"github.com/peterstace/simplefeatures/rtree"

	"github.com/matzehuels/geobuffer/pkg/geom"
)

// SnapRoundingNoder nodes segment strings on the integer grid. Input
// coordinates are rounded to integers; callers working at another scale
// wrap it in a [ScaledNoder].
//
// Every vertex and every intersection point defines a hot pixel, the unit
// square centred on the rounded point. A segment passing through a hot
// pixel is split at the pixel centre, so all output vertices lie on the
// grid and strings meet only at shared endpoints.
type SnapRoundingNoder struct{}

// NewSnapRoundingNoder returns a snap-rounding noder.
func NewSnapRoundingNoder() *SnapRoundingNoder { return &SnapRoundingNoder{} }

// hotPixel is a grid point that may split segments.
type hotPixel struct {
	pt   geom.Coord
	node bool // Set once some string must be split here
}

type pixelSet struct {
	pixels []*hotPixel
	at     map[geom.Coord]*hotPixel
	tree   *rtree.RTree
}

func (ps *pixelSet) add(pt geom.Coord, node bool) {
	if hp, ok := ps.at[pt]; ok {
		hp.node = hp.node || node
		return
	}
	hp := &hotPixel{pt: pt, node: node}
	ps.at[pt] = hp
	ps.pixels = append(ps.pixels, hp)
}

func (ps *pixelSet) index() {
	items := make([]rtree.BulkItem, len(ps.pixels))
	for i, hp := range ps.pixels {
		items[i] = rtree.BulkItem{Box: pixelBox(hp.pt), RecordID: i}
	}
	ps.tree = rtree.BulkLoad(items)
}

// Node implements [Noder].
func (n *SnapRoundingNoder) Node(ss []*SegmentString) ([]*SegmentString, error) {
	grid := geom.Fixed(1)
	var rounded []*SegmentString
	for _, s := range ss {
		pts := make([]geom.Coord, len(s.Coords))
		for i, p := range s.Coords {
			pts[i] = grid.MakePrecise(p)
		}
		if pts = geom.RemoveRepeated(pts); len(pts) >= 2 {
			rounded = append(rounded, NewSegmentString(pts, s.Label))
		}
	}
	if len(rounded) == 0 {
		return nil, nil
	}

	ps, err := collectHotPixels(rounded, grid)
	if err != nil {
		return nil, err
	}
	for _, s := range rounded {
		for i := 0; i < s.NumSegments(); i++ {
			snapSegment(ps, s, i)
		}
	}
	for _, s := range rounded {
		for i := 1; i+1 < len(s.Coords); i++ {
			if hp := ps.at[s.Coords[i]]; hp != nil && hp.node {
				s.AddNode(s.Coords[i], i)
			}
		}
	}
	return splitAll(rounded), nil
}

// collectHotPixels creates a pixel for every vertex and for every rounded
// intersection point. Intersection pixels are nodes from the start.
func collectHotPixels(ss []*SegmentString, grid geom.PrecisionModel) (*pixelSet, error) {
	ps := &pixelSet{at: make(map[geom.Coord]*hotPixel)}
	for _, s := range ss {
		for _, p := range s.Coords {
			ps.add(p, false)
		}
	}
	var li geom.LineIntersector
	err := newSegmentIndex(ss).eachPair(func(a, b segmentRef) error {
		sa, sb := ss[a.str], ss[b.str]
		pa, pb := sa.Segment(a.seg), sb.Segment(b.seg)
		if li.Compute(pa.P0, pa.P1, pb.P0, pb.P1) == geom.NoIntersection {
			return nil
		}
		if sa == sb && isTrivialIntersection(sa, &li, a.seg, b.seg) {
			return nil
		}
		for i := 0; i < li.Count(); i++ {
			ps.add(grid.MakePrecise(li.Point(i)), true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.index()
	return ps, nil
}

// snapSegment adds a node for every hot pixel segment i of s passes
// through, other than its own endpoints.
func snapSegment(ps *pixelSet, s *SegmentString, i int) {
	seg := s.Segment(i)
	box := segmentBox(seg)
	box.MinX -= 0.5
	box.MinY -= 0.5
	box.MaxX += 0.5
	box.MaxY += 0.5
	_ = ps.tree.RangeSearch(box, func(id int) error {
		hp := ps.pixels[id]
		if hp.pt == seg.P0 || hp.pt == seg.P1 {
			return nil
		}
		if pixelIntersects(hp.pt, seg) {
			s.AddNode(hp.pt, i)
			hp.node = true
		}
		return nil
	})
}

func pixelBox(c geom.Coord) rtree.Box {
	return rtree.Box{MinX: c.X - 0.5, MinY: c.Y - 0.5, MaxX: c.X + 0.5, MaxY: c.Y + 0.5}
}

// pixelIntersects reports whether seg meets the closed unit square centred
// on c.
func pixelIntersects(c geom.Coord, seg geom.Segment) bool {
	minX, maxX := c.X-0.5, c.X+0.5
	minY, maxY := c.Y-0.5, c.Y+0.5
	if max(seg.P0.X, seg.P1.X) < minX || min(seg.P0.X, seg.P1.X) > maxX ||
		max(seg.P0.Y, seg.P1.Y) < minY || min(seg.P0.Y, seg.P1.Y) > maxY {
		return false
	}
	corners := [4]geom.Coord{
		geom.C(minX, minY), geom.C(maxX, minY), geom.C(maxX, maxY), geom.C(minX, maxY),
	}
	var left, right bool
	for _, q := range corners {
		switch seg.OrientationOf(q) {
		case geom.CounterClockwise:
			left = true
		case geom.Clockwise:
			right = true
		default:
			return true
		}
	}
	return left && right
}
