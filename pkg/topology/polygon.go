package topology

import (
	"github.com/golang/geo/r2"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

type edgeRing struct {
	id      int
	start   DirEdgeID
	minimal bool
	edges   []DirEdgeID
	pts     []geom.Coord
	env     r2.Rect
	hole    bool
	shell   *edgeRing
	holes   []*edgeRing
}

func (r *edgeRing) setShell(shell *edgeRing) {
	r.shell = shell
	if shell != nil {
		shell.holes = append(shell.holes, r)
	}
}

// PolygonBuilder assembles polygons from the in-result directed edges of a
// [Graph]. Subgraphs must be added so that a shell is added no later than
// the holes it contains.
type PolygonBuilder struct {
	g      *Graph
	rings  []*edgeRing
	shells []*edgeRing
}

// NewPolygonBuilder returns a builder for polygons formed by edges of g.
func NewPolygonBuilder(g *Graph) *PolygonBuilder {
	return &PolygonBuilder{g: g}
}

// Add links the result edges at nodes, forms their rings and assigns holes
// to shells.
func (b *PolygonBuilder) Add(dirEdges []DirEdgeID, nodes []NodeID) error {
	for _, n := range nodes {
		if err := b.g.linkResultDirectedEdges(n); err != nil {
			return err
		}
	}
	maxRings, err := b.buildMaximalRings(dirEdges)
	if err != nil {
		return err
	}

	var freeHoles, simple []*edgeRing
	for _, er := range maxRings {
		if b.maxNodeDegree(er) <= 2 {
			simple = append(simple, er)
			continue
		}
		minRings, err := b.buildMinimalRings(er)
		if err != nil {
			return err
		}
		shell, err := findShell(minRings)
		if err != nil {
			return err
		}
		if shell == nil {
			freeHoles = append(freeHoles, minRings...)
			continue
		}
		for _, r := range minRings {
			if r.hole {
				r.setShell(shell)
			}
		}
		b.shells = append(b.shells, shell)
	}

	for _, er := range simple {
		if er.hole {
			freeHoles = append(freeHoles, er)
		} else {
			b.shells = append(b.shells, er)
		}
	}
	return b.placeFreeHoles(freeHoles)
}

// Polygons returns one polygon per shell found so far. Shells are clockwise
// and holes counter-clockwise.
func (b *PolygonBuilder) Polygons() []geom.Polygon {
	polys := make([]geom.Polygon, 0, len(b.shells))
	for _, s := range b.shells {
		rings := make([][]geom.Coord, 0, 1+len(s.holes))
		rings = append(rings, s.pts)
		for _, h := range s.holes {
			rings = append(rings, h.pts)
		}
		polys = append(polys, geom.Polygon{Rings: rings})
	}
	return polys
}

func (b *PolygonBuilder) buildMaximalRings(dirEdges []DirEdgeID) ([]*edgeRing, error) {
	var rings []*edgeRing
	for _, de := range dirEdges {
		d := &b.g.dirEdges[de]
		if !d.InResult || !d.Label.IsArea() || d.ring != noRing {
			continue
		}
		er, err := b.newRing(de, false)
		if err != nil {
			return nil, err
		}
		rings = append(rings, er)
	}
	return rings, nil
}

func (b *PolygonBuilder) buildMinimalRings(maxRing *edgeRing) ([]*edgeRing, error) {
	de := maxRing.start
	for {
		if err := b.g.linkMinimalDirectedEdges(b.g.dirEdges[de].Node, maxRing.id); err != nil {
			return nil, err
		}
		de = b.g.dirEdges[de].Next
		if de == maxRing.start {
			break
		}
	}

	var rings []*edgeRing
	de = maxRing.start
	for {
		if b.g.dirEdges[de].minRing == noRing {
			er, err := b.newRing(de, true)
			if err != nil {
				return nil, err
			}
			rings = append(rings, er)
		}
		de = b.g.dirEdges[de].Next
		if de == maxRing.start {
			break
		}
	}
	return rings, nil
}

// newRing walks Next (or NextMin for minimal rings) links from start,
// collecting coordinates and tagging each directed edge with the ring.
func (b *PolygonBuilder) newRing(start DirEdgeID, minimal bool) (*edgeRing, error) {
	er := &edgeRing{id: len(b.rings), start: start, minimal: minimal}
	b.rings = append(b.rings, er)

	de := start
	for first := true; ; first = false {
		if de == None {
			p := b.g.dirEdges[start].P0
			return nil, errors.Topology(p.X, p.Y, "found null DirectedEdge")
		}
		d := &b.g.dirEdges[de]
		tag := &d.ring
		next := d.Next
		if minimal {
			tag, next = &d.minRing, d.NextMin
		}
		if *tag == er.id {
			return nil, errors.Topology(d.P0.X, d.P0.Y, "directed edge visited twice during ring-building")
		}
		er.edges = append(er.edges, de)
		er.pts = appendEdgePoints(er.pts, b.g.edges[d.Edge].Coords, d.Forward, first)
		*tag = er.id
		de = next
		if de == start {
			break
		}
	}

	if len(er.pts) < geom.MinRingSize || er.pts[0] != er.pts[len(er.pts)-1] {
		p := er.pts[0]
		return nil, errors.Topology(p.X, p.Y, "invalid ring with %d points", len(er.pts))
	}
	er.env = geom.EnvelopeOf(er.pts)
	er.hole = geom.IsCCW(er.pts)
	return er, nil
}

func appendEdgePoints(pts, edge []geom.Coord, forward, first bool) []geom.Coord {
	if forward {
		start := 1
		if first {
			start = 0
		}
		return append(pts, edge[start:]...)
	}
	start := len(edge) - 2
	if first {
		start = len(edge) - 1
	}
	for i := start; i >= 0; i-- {
		pts = append(pts, edge[i])
	}
	return pts
}

func (b *PolygonBuilder) maxNodeDegree(er *edgeRing) int {
	degree := 0
	for _, de := range er.edges {
		degree = max(degree, b.g.outgoingDegree(b.g.dirEdges[de].Node, er.id))
	}
	return degree
}

// findShell returns the single non-hole ring among rings, or nil when all
// are holes.
func findShell(rings []*edgeRing) (*edgeRing, error) {
	var shell *edgeRing
	count := 0
	for _, r := range rings {
		if !r.hole {
			shell = r
			count++
		}
	}
	if count > 1 {
		p := shell.pts[0]
		return nil, errors.Topology(p.X, p.Y, "found %d shells in minimal edge ring list", count)
	}
	return shell, nil
}

func (b *PolygonBuilder) placeFreeHoles(holes []*edgeRing) error {
	for _, h := range holes {
		if h.shell != nil {
			continue
		}
		shell := findRingContaining(h, b.shells)
		if shell == nil {
			p := h.pts[0]
			return errors.Topology(p.X, p.Y, "unable to assign hole to a shell")
		}
		h.setShell(shell)
	}
	return nil
}

// findRingContaining returns the smallest shell whose envelope and ring
// contain the test ring.
func findRingContaining(test *edgeRing, shells []*edgeRing) *edgeRing {
	var best *edgeRing
	for _, s := range shells {
		if s.env == test.env || !geom.EnvelopeContains(s.env, test.env) {
			continue
		}
		pt, ok := geom.PointNotIn(test.pts, s.pts)
		if !ok {
			pt = test.pts[0]
		}
		if !geom.InRing(pt, s.pts) {
			continue
		}
		if best == nil || geom.EnvelopeContains(best.env, s.env) {
			best = s
		}
	}
	return best
}
