package topology

import (
	"slices"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

// NodeID, EdgeID and DirEdgeID index the arenas of a [Graph].
type (
	NodeID    int
	EdgeID    int
	DirEdgeID int
)

// None marks an unset directed edge link.
const None DirEdgeID = -1

// noRing marks a directed edge not yet assigned to an edge ring.
const noRing = -1

// DepthUnknown is the depth of a side that has not been computed.
const DepthUnknown = -999

// Sym returns the directed edge running the opposite way along the same edge.
func Sym(de DirEdgeID) DirEdgeID { return de ^ 1 }

// Edge is an undirected edge of the graph.
type Edge struct {
	Coords     []geom.Coord // At least two coordinates
	Label      Label        // Locations relative to the forward direction
	DepthDelta int          // Depth change crossing from right to left
}

// DirectedEdge is one traversal direction of an [Edge].
type DirectedEdge struct {
	Edge    EdgeID
	Forward bool
	Node    NodeID // Origin node
	Label   Label  // Edge label oriented to this direction

	// P0 is the origin and P1 the next coordinate along the edge; together
	// they define the direction used to order the node star.
	P0, P1   geom.Coord
	Quadrant int

	Depth    [3]int // Indexed by Position; PosOn is unused
	Visited  bool
	InResult bool

	// Links set by polygon assembly.
	Next    DirEdgeID
	NextMin DirEdgeID
	ring    int
	minRing int
}

// Node is a distinct edge endpoint.
type Node struct {
	Coord   geom.Coord
	Star    []DirEdgeID // Outgoing directed edges in counter-clockwise order
	Visited bool
}

// Graph is a planar graph built from noded edges.
type Graph struct {
	edges    []Edge
	dirEdges []DirectedEdge
	nodes    []Node
	nodeAt   map[geom.Coord]NodeID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodeAt: make(map[geom.Coord]NodeID)}
}

// AddEdges inserts edges and their two directed edges, creating nodes as
// needed, then restores the rotational order of every affected star.
// Edges with fewer than two coordinates are ignored.
func (g *Graph) AddEdges(edges []Edge) {
	touched := make(map[NodeID]struct{})
	for _, e := range edges {
		if len(e.Coords) < 2 {
			continue
		}
		id := EdgeID(len(g.edges))
		g.edges = append(g.edges, e)
		n := len(e.Coords)
		fwd := g.newDirEdge(id, true, e.Coords[0], e.Coords[1], e.Label)
		rev := g.newDirEdge(id, false, e.Coords[n-1], e.Coords[n-2], e.Label.Flip())
		touched[g.dirEdges[fwd].Node] = struct{}{}
		touched[g.dirEdges[rev].Node] = struct{}{}
	}
	for n := range touched {
		slices.SortStableFunc(g.nodes[n].Star, g.compareDirection)
	}
}

func (g *Graph) newDirEdge(e EdgeID, forward bool, p0, p1 geom.Coord, label Label) DirEdgeID {
	id := DirEdgeID(len(g.dirEdges))
	node := g.addNode(p0)
	g.dirEdges = append(g.dirEdges, DirectedEdge{
		Edge:     e,
		Forward:  forward,
		Node:     node,
		Label:    label,
		P0:       p0,
		P1:       p1,
		Quadrant: quadrant(p1.X-p0.X, p1.Y-p0.Y),
		Depth:    [3]int{0, DepthUnknown, DepthUnknown},
		Next:     None,
		NextMin:  None,
		ring:     noRing,
		minRing:  noRing,
	})
	g.nodes[node].Star = append(g.nodes[node].Star, id)
	return id
}

func (g *Graph) addNode(c geom.Coord) NodeID {
	if id, ok := g.nodeAt[c]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{Coord: c})
	g.nodeAt[c] = id
	return id
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of undirected edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// NumDirEdges returns the number of directed edges.
func (g *Graph) NumDirEdges() int { return len(g.dirEdges) }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) *Node { return &g.nodes[id] }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id EdgeID) *Edge { return &g.edges[id] }

// DirEdge returns the directed edge with the given id.
func (g *Graph) DirEdge(id DirEdgeID) *DirectedEdge { return &g.dirEdges[id] }

// NodeAt returns the node located at c.
func (g *Graph) NodeAt(c geom.Coord) (NodeID, bool) {
	id, ok := g.nodeAt[c]
	return id, ok
}

// Nodes returns every node id ordered by coordinate.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range ids {
		ids[i] = NodeID(i)
	}
	slices.SortFunc(ids, func(a, b NodeID) int {
		return geom.Compare(g.nodes[a].Coord, g.nodes[b].Coord)
	})
	return ids
}

// EdgeCoords returns the coordinates of the edge underlying de, in the edge's
// forward order.
func (g *Graph) EdgeCoords(de DirEdgeID) []geom.Coord {
	return g.edges[g.dirEdges[de].Edge].Coords
}

// Envelope returns the bounding box of the edge underlying de.
func (g *Graph) Envelope(de DirEdgeID) r2.Rect {
	return geom.EnvelopeOf(g.EdgeCoords(de))
}

// Dest returns the node at which de ends.
func (g *Graph) Dest(de DirEdgeID) NodeID { return g.dirEdges[Sym(de)].Node }

// SetDepth assigns the depth on one side of de. Assigning a different value
// to a side that already has one is a topology error.
func (g *Graph) SetDepth(de DirEdgeID, pos Position, depth int) error {
	d := &g.dirEdges[de]
	if d.Depth[pos] != DepthUnknown && d.Depth[pos] != depth {
		return errors.Topology(d.P0.X, d.P0.Y, "assigned depths do not match")
	}
	d.Depth[pos] = depth
	return nil
}

// SetEdgeDepths assigns depth to side pos of de and derives the opposite
// side from the edge's depth delta.
func (g *Graph) SetEdgeDepths(de DirEdgeID, pos Position, depth int) error {
	d := &g.dirEdges[de]
	delta := g.edges[d.Edge].DepthDelta
	if !d.Forward {
		delta = -delta
	}
	if pos == PosLeft {
		delta = -delta
	}
	if err := g.SetDepth(de, pos, depth); err != nil {
		return err
	}
	return g.SetDepth(de, pos.Opposite(), depth+delta)
}

// CopySymDepths mirrors the depths of de onto its symmetric edge.
func (g *Graph) CopySymDepths(de DirEdgeID) error {
	d := &g.dirEdges[de]
	sym := Sym(de)
	if err := g.SetDepth(sym, PosLeft, d.Depth[PosRight]); err != nil {
		return err
	}
	return g.SetDepth(sym, PosRight, d.Depth[PosLeft])
}

// IsInteriorAreaEdge reports whether both sides of de are interior.
func (g *Graph) IsInteriorAreaEdge(de DirEdgeID) bool {
	return g.dirEdges[de].Label.IsInteriorArea()
}

// ResetVisited clears the visited flag on every node and directed edge.
func (g *Graph) ResetVisited() {
	for i := range g.nodes {
		g.nodes[i].Visited = false
	}
	for i := range g.dirEdges {
		g.dirEdges[i].Visited = false
	}
}
