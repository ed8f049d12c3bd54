package buffer

import (
	"github.com/golang/geo/r2"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// subgraph is a connected component of the buffer graph.
type subgraph struct {
	g        *topology.Graph
	dirEdges []topology.DirEdgeID
	nodes    []topology.NodeID
	env      r2.Rect

	// seed is the directed edge whose right side faces the exterior of the
	// component at its rightmost point.
	seed      topology.DirEdgeID
	rightmost geom.Coord
}

// newSubgraph collects every node and directed edge reachable from start,
// marking the nodes visited, and locates the rightmost edge.
func newSubgraph(g *topology.Graph, start topology.NodeID) (*subgraph, error) {
	sg := &subgraph{g: g, env: r2.EmptyRect()}
	stack := []topology.NodeID{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := g.Node(n)
		if node.Visited {
			continue
		}
		node.Visited = true
		sg.nodes = append(sg.nodes, n)
		for _, de := range node.Star {
			sg.dirEdges = append(sg.dirEdges, de)
			if dest := g.Dest(de); !g.Node(dest).Visited {
				stack = append(stack, dest)
			}
		}
	}
	for _, de := range sg.dirEdges {
		if g.DirEdge(de).Forward {
			sg.env = sg.env.Union(g.Envelope(de))
		}
	}

	var f rightmostFinder
	if err := f.find(g, sg.dirEdges); err != nil {
		return nil, err
	}
	sg.seed, sg.rightmost = f.edge, f.coord
	return sg, nil
}

// computeDepth assigns depths to every directed edge, starting from the
// seed edge whose right side has depth outside.
func (sg *subgraph) computeDepth(outside int) error {
	for _, de := range sg.dirEdges {
		sg.g.DirEdge(de).Visited = false
	}
	if err := sg.g.SetEdgeDepths(sg.seed, topology.PosRight, outside); err != nil {
		return err
	}
	if err := sg.g.CopySymDepths(sg.seed); err != nil {
		return err
	}
	return sg.computeDepths(sg.seed)
}

// computeDepths propagates depths breadth-first from the node of start.
func (sg *subgraph) computeDepths(start topology.DirEdgeID) error {
	startNode := sg.g.DirEdge(start).Node
	seen := map[topology.NodeID]bool{startNode: true}
	queue := []topology.NodeID{startNode}
	sg.g.DirEdge(start).Visited = true

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if err := sg.computeNodeDepth(n); err != nil {
			return err
		}
		for _, de := range sg.g.Node(n).Star {
			sym := topology.Sym(de)
			if sg.g.DirEdge(sym).Visited {
				continue
			}
			if adj := sg.g.DirEdge(sym).Node; !seen[adj] {
				seen[adj] = true
				queue = append(queue, adj)
			}
		}
	}
	return nil
}

func (sg *subgraph) computeNodeDepth(n topology.NodeID) error {
	star := sg.g.Node(n).Star
	start := topology.None
	for _, de := range star {
		if sg.g.DirEdge(de).Visited || sg.g.DirEdge(topology.Sym(de)).Visited {
			start = de
			break
		}
	}
	if start == topology.None {
		c := sg.g.Node(n).Coord
		return errors.Topology(c.X, c.Y, "unable to find edge to compute depths")
	}
	if err := sg.g.ComputeStarDepths(n, start); err != nil {
		return err
	}
	for _, de := range star {
		sg.g.DirEdge(de).Visited = true
		if err := sg.g.CopySymDepths(de); err != nil {
			return err
		}
	}
	return nil
}

// findResultEdges marks the directed edges bounding the buffer area: those
// with the area on their right and the exterior on their left.
func (sg *subgraph) findResultEdges() {
	for _, de := range sg.dirEdges {
		d := sg.g.DirEdge(de)
		if d.Depth[topology.PosRight] >= 1 && d.Depth[topology.PosLeft] <= 0 && !sg.g.IsInteriorAreaEdge(de) {
			d.InResult = true
		}
	}
}
