package buffer

import (
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// rightmostFinder locates the directed edge touching the rightmost
// coordinate of a subgraph, oriented so that its right side faces the
// exterior of the subgraph.
type rightmostFinder struct {
	g     *topology.Graph
	de    topology.DirEdgeID // Forward edge holding the rightmost coordinate
	index int                // Index of the coordinate within the edge
	coord geom.Coord
	found bool

	edge topology.DirEdgeID // Result
}

func (f *rightmostFinder) find(g *topology.Graph, dirEdges []topology.DirEdgeID) error {
	f.g = g
	for _, de := range dirEdges {
		if g.DirEdge(de).Forward {
			f.check(de)
		}
	}
	if !f.found {
		return nil
	}

	if last := len(g.EdgeCoords(f.de)) - 1; f.index == 0 || f.index == last {
		if err := f.atNode(); err != nil {
			return err
		}
	} else {
		f.atVertex()
	}

	f.edge = f.de
	if f.side() == geom.Left {
		f.edge = topology.Sym(f.de)
	}
	return nil
}

func (f *rightmostFinder) check(de topology.DirEdgeID) {
	for i, p := range f.g.EdgeCoords(de) {
		if !f.found || p.X > f.coord.X {
			f.de, f.index, f.coord, f.found = de, i, p, true
		}
	}
}

// atNode switches to the rightmost edge of the star at the rightmost node,
// expressed as a forward edge and coordinate index.
func (f *rightmostFinder) atNode() error {
	n, ok := f.g.NodeAt(f.coord)
	if !ok {
		return errors.Topology(f.coord.X, f.coord.Y, "no node at rightmost coordinate")
	}
	de, err := f.g.RightmostEdge(n)
	if err != nil {
		return err
	}
	f.de, f.index = de, 0
	if !f.g.DirEdge(de).Forward {
		f.de = topology.Sym(de)
		f.index = len(f.g.EdgeCoords(f.de)) - 1
	}
	return nil
}

// atVertex picks which of the two segments meeting at an interior vertex
// is the rightmost.
func (f *rightmostFinder) atVertex() {
	pts := f.g.EdgeCoords(f.de)
	prev, next := pts[f.index-1], pts[f.index+1]
	turn := geom.Orient(f.coord, next, prev)
	usePrev := (prev.Y < f.coord.Y && next.Y < f.coord.Y && turn == geom.CounterClockwise) ||
		(prev.Y > f.coord.Y && next.Y > f.coord.Y && turn == geom.Clockwise)
	if usePrev {
		f.index--
	}
}

// side returns the side of the chosen edge that faces the exterior.
func (f *rightmostFinder) side() int {
	side, ok := f.segmentSide(f.index)
	if !ok {
		side, ok = f.segmentSide(f.index - 1)
	}
	if !ok {
		return geom.Right
	}
	return side
}

// segmentSide returns the exterior-facing side of segment i of the chosen
// edge. Horizontal segments have none.
func (f *rightmostFinder) segmentSide(i int) (int, bool) {
	pts := f.g.EdgeCoords(f.de)
	if i < 0 || i+1 >= len(pts) || pts[i].Y == pts[i+1].Y {
		return 0, false
	}
	if pts[i].Y < pts[i+1].Y {
		return geom.Right, true
	}
	return geom.Left, true
}
