package buffer

import (
	"cmp"
	"slices"

	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// depthLocater finds the depth of a point relative to a set of subgraphs
// whose depths are already known, by casting a ray to the right of the
// point and finding the closest segment it crosses.
type depthLocater struct {
	g         *topology.Graph
	subgraphs []*subgraph
}

func newDepthLocater(g *topology.Graph, subgraphs []*subgraph) *depthLocater {
	return &depthLocater{g: g, subgraphs: subgraphs}
}

// depth returns the depth of the area left of the nearest segment stabbed
// by the ray from p, or 0 when the ray escapes.
func (l *depthLocater) depth(p geom.Coord) int {
	stabbed := l.stabbedSegments(p)
	if len(stabbed) == 0 {
		return 0
	}
	return slices.MinFunc(stabbed, depthSegment.compare).depth
}

func (l *depthLocater) stabbedSegments(p geom.Coord) []depthSegment {
	var out []depthSegment
	for _, sg := range l.subgraphs {
		if p.Y < sg.env.Y.Lo || p.Y > sg.env.Y.Hi {
			continue
		}
		for _, de := range sg.dirEdges {
			if l.g.DirEdge(de).Forward {
				out = l.appendStabbed(out, p, de)
			}
		}
	}
	return out
}

func (l *depthLocater) appendStabbed(out []depthSegment, p geom.Coord, de topology.DirEdgeID) []depthSegment {
	d := l.g.DirEdge(de)
	pts := l.g.EdgeCoords(de)
	for i := 0; i+1 < len(pts); i++ {
		seg := geom.Segment{P0: pts[i], P1: pts[i+1]}
		flipped := seg.P0.Y > seg.P1.Y
		if flipped {
			seg = seg.Reverse()
		}
		switch {
		case max(seg.P0.X, seg.P1.X) < p.X:
			continue
		case seg.IsHorizontal():
			continue
		case p.Y < seg.P0.Y || p.Y > seg.P1.Y:
			continue
		case seg.OrientationOf(p) == geom.Right:
			continue
		}
		depth := d.Depth[topology.PosLeft]
		if flipped {
			depth = d.Depth[topology.PosRight]
		}
		out = append(out, depthSegment{upward: seg, depth: depth})
	}
	return out
}

// depthSegment is an upward-pointing segment with the depth of the area to
// its left.
type depthSegment struct {
	upward geom.Segment
	depth  int
}

// compare orders segments crossing a common horizontal ray from left to
// right. Segments whose x-ranges overlap are ordered by orientation;
// others, and collinear ones, by their envelopes, so the order is total.
func (a depthSegment) compare(b depthSegment) int {
	ax, bx := a.upward.XRange(), b.upward.XRange()
	if ax.Lo >= bx.Hi || ax.Hi <= bx.Lo {
		return a.compareEnvelope(b)
	}
	if o := a.upward.OrientationOfSegment(b.upward); o != 0 {
		return o
	}
	if o := -b.upward.OrientationOfSegment(a.upward); o != 0 {
		return o
	}
	if c := a.compareEnvelope(b); c != 0 {
		return c
	}
	return a.upward.Compare(b.upward)
}

// compareEnvelope orders by (minX, minY, maxX, maxY).
func (a depthSegment) compareEnvelope(b depthSegment) int {
	ax, bx := a.upward.XRange(), b.upward.XRange()
	// Upward segments have P0.Y <= P1.Y.
	return cmp.Or(
		cmp.Compare(ax.Lo, bx.Lo),
		cmp.Compare(a.upward.P0.Y, b.upward.P0.Y),
		cmp.Compare(ax.Hi, bx.Hi),
		cmp.Compare(a.upward.P1.Y, b.upward.P1.Y),
	)
}
