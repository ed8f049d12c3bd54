package topology

import (
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

// Quadrants of a direction vector, counter-clockwise from the positive X
// axis.
const (
	QuadNE = iota
	QuadNW
	QuadSW
	QuadSE
)

func quadrant(dx, dy float64) int {
	if dx >= 0 {
		if dy >= 0 {
			return QuadNE
		}
		return QuadSE
	}
	if dy >= 0 {
		return QuadNW
	}
	return QuadSW
}

func isNorthern(quad int) bool { return quad == QuadNE || quad == QuadNW }

// compareDirection orders directed edges leaving the same node by the angle
// of their first segment, counter-clockwise from the positive X axis.
func (g *Graph) compareDirection(a, b DirEdgeID) int {
	da, db := &g.dirEdges[a], &g.dirEdges[b]
	if da.P1.Sub(da.P0) == db.P1.Sub(db.P0) {
		return 0
	}
	if da.Quadrant != db.Quadrant {
		if da.Quadrant > db.Quadrant {
			return 1
		}
		return -1
	}
	return geom.Orient(db.P0, db.P1, da.P1)
}

// ComputeStarDepths propagates depths around node n starting from seed,
// whose depths must already be set. Walking counter-clockwise, the right
// depth of each edge is the left depth of the previous one. Returning to the
// seed with a depth different from its right depth is a topology error.
func (g *Graph) ComputeStarDepths(n NodeID, seed DirEdgeID) error {
	star := g.nodes[n].Star
	idx := -1
	for i, de := range star {
		if de == seed {
			idx = i
			break
		}
	}
	if idx < 0 {
		c := g.nodes[n].Coord
		return errors.Topology(c.X, c.Y, "seed edge is not incident to node")
	}

	startDepth := g.dirEdges[seed].Depth[PosLeft]
	target := g.dirEdges[seed].Depth[PosRight]

	next, err := g.propagate(star[idx+1:], startDepth)
	if err != nil {
		return err
	}
	last, err := g.propagate(star[:idx], next)
	if err != nil {
		return err
	}
	if last != target {
		c := g.nodes[n].Coord
		return errors.Topology(c.X, c.Y, "depth mismatch")
	}
	return nil
}

func (g *Graph) propagate(edges []DirEdgeID, depth int) (int, error) {
	for _, de := range edges {
		if err := g.SetEdgeDepths(de, PosRight, depth); err != nil {
			return 0, err
		}
		depth = g.dirEdges[de].Depth[PosLeft]
	}
	return depth, nil
}

// RightmostEdge returns the outgoing edge at n whose direction is extremal
// toward positive X, preferring a non-horizontal edge when the star spans
// both hemispheres. It returns [None] for an isolated node.
func (g *Graph) RightmostEdge(n NodeID) (DirEdgeID, error) {
	star := g.nodes[n].Star
	switch len(star) {
	case 0:
		return None, nil
	case 1:
		return star[0], nil
	}
	first, last := star[0], star[len(star)-1]
	q0, q1 := g.dirEdges[first].Quadrant, g.dirEdges[last].Quadrant
	switch {
	case isNorthern(q0) && isNorthern(q1):
		return first, nil
	case !isNorthern(q0) && !isNorthern(q1):
		return last, nil
	}
	if d := &g.dirEdges[first]; d.P1.Y != d.P0.Y {
		return first, nil
	}
	if d := &g.dirEdges[last]; d.P1.Y != d.P0.Y {
		return last, nil
	}
	c := g.nodes[n].Coord
	return None, errors.Topology(c.X, c.Y, "found two horizontal edges incident on node")
}

// resultAreaEdges returns the star edges at n that are in the result in
// either direction, in star order.
func (g *Graph) resultAreaEdges(n NodeID) []DirEdgeID {
	var out []DirEdgeID
	for _, de := range g.nodes[n].Star {
		if g.dirEdges[de].InResult || g.dirEdges[Sym(de)].InResult {
			out = append(out, de)
		}
	}
	return out
}

// linkResultDirectedEdges pairs every incoming result edge at n with the
// next outgoing result edge counter-clockwise, setting Next.
func (g *Graph) linkResultDirectedEdges(n NodeID) error {
	const (
		scanningForIncoming = iota
		linkingToOutgoing
	)
	firstOut, incoming := None, None
	state := scanningForIncoming
	for _, out := range g.resultAreaEdges(n) {
		in := Sym(out)
		if !g.dirEdges[out].Label.IsArea() {
			continue
		}
		if firstOut == None && g.dirEdges[out].InResult {
			firstOut = out
		}
		switch state {
		case scanningForIncoming:
			if !g.dirEdges[in].InResult {
				continue
			}
			incoming = in
			state = linkingToOutgoing
		case linkingToOutgoing:
			if !g.dirEdges[out].InResult {
				continue
			}
			g.dirEdges[incoming].Next = out
			state = scanningForIncoming
		}
	}
	if state == linkingToOutgoing {
		if firstOut == None {
			c := g.nodes[n].Coord
			return errors.Topology(c.X, c.Y, "no outgoing dirEdge found")
		}
		g.dirEdges[incoming].Next = firstOut
	}
	return nil
}

// linkMinimalDirectedEdges links the edges of ring at n for minimal ring
// traversal, walking the star clockwise.
func (g *Graph) linkMinimalDirectedEdges(n NodeID, ring int) error {
	const (
		scanningForIncoming = iota
		linkingToOutgoing
	)
	edges := g.resultAreaEdges(n)
	firstOut, incoming := None, None
	state := scanningForIncoming
	for i := len(edges) - 1; i >= 0; i-- {
		out := edges[i]
		in := Sym(out)
		if firstOut == None && g.dirEdges[out].ring == ring {
			firstOut = out
		}
		switch state {
		case scanningForIncoming:
			if g.dirEdges[in].ring != ring {
				continue
			}
			incoming = in
			state = linkingToOutgoing
		case linkingToOutgoing:
			if g.dirEdges[out].ring != ring {
				continue
			}
			g.dirEdges[incoming].NextMin = out
			state = scanningForIncoming
		}
	}
	if state == linkingToOutgoing {
		if firstOut == None {
			c := g.nodes[n].Coord
			return errors.Topology(c.X, c.Y, "found null for first outgoing dirEdge")
		}
		g.dirEdges[incoming].NextMin = firstOut
	}
	return nil
}

// outgoingDegree counts the edges at n that belong to ring.
func (g *Graph) outgoingDegree(n NodeID, ring int) int {
	degree := 0
	for _, de := range g.nodes[n].Star {
		if g.dirEdges[de].ring == ring {
			degree++
		}
	}
	return degree
}
