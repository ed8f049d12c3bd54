package buffer

import (
	"slices"

	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/noding"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// Builder computes the buffer of a geometry with a fixed precision model
// and noder. Most callers should use [Op], which retries failed builds at
// reduced precision.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	Params    Parameters
	Precision geom.PrecisionModel
	// Noder nodes the raw offset curves. When nil an [noding.IndexedNoder]
	// at Precision is used.
	Noder noding.Noder

	graph *topology.Graph
	edges []topology.Edge
	index map[edgeKey][]int
}

// NewBuilder returns a floating-precision builder.
func NewBuilder(params Parameters) *Builder {
	return &Builder{Params: params}
}

// Graph returns the topology graph of the last build, or nil.
func (b *Builder) Graph() *topology.Graph { return b.graph }

// Buffer returns the polygonal buffer of g at distance. The result is an
// empty Polygon, a Polygon or a MultiPolygon.
func (b *Builder) Buffer(g geom.Geometry, distance float64) (geom.Geometry, error) {
	b.graph = nil
	curves, err := newCurveSetBuilder(g, distance, NewCurveBuilder(b.Params, b.Precision)).build()
	if err != nil {
		return nil, err
	}
	if len(curves) == 0 {
		return geom.Polygon{}, nil
	}

	if err := b.computeNodedEdges(curves, distance == 0); err != nil {
		return nil, err
	}
	b.graph = topology.NewGraph()
	b.graph.AddEdges(b.edges)

	subgraphs, err := b.createSubgraphs()
	if err != nil {
		return nil, err
	}
	polys := topology.NewPolygonBuilder(b.graph)
	if err := b.buildSubgraphs(subgraphs, polys); err != nil {
		return nil, err
	}

	result := polys.Polygons()
	switch len(result) {
	case 0:
		return geom.Polygon{}, nil
	case 1:
		return result[0], nil
	}
	return geom.MultiPolygon{Polygons: result}, nil
}

func (b *Builder) noder() noding.Noder {
	if b.Noder != nil {
		return b.Noder
	}
	return noding.NewIndexedNoder(b.Precision)
}

func (b *Builder) computeNodedEdges(curves []*noding.SegmentString, validate bool) error {
	noded, err := b.noder().Node(curves)
	if err != nil {
		return err
	}
	if validate {
		if err := noding.Validate(noded); err != nil {
			return err
		}
	}
	b.edges = nil
	b.index = make(map[edgeKey][]int)
	for _, s := range noded {
		if len(s.Coords) == 2 && s.Coords[0] == s.Coords[1] {
			continue
		}
		b.insertUniqueEdge(topology.Edge{Coords: s.Coords, Label: s.Label})
	}
	return nil
}

// edgeKey identifies edges with the same endpoints in either direction.
type edgeKey struct {
	a, b geom.Coord
}

func keyOf(pts []geom.Coord) edgeKey {
	a, b := pts[0], pts[len(pts)-1]
	if geom.Compare(a, b) > 0 {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// insertUniqueEdge adds e or, when an edge with the same coordinates in
// either direction exists, merges e's label into it and adds the depth
// deltas.
func (b *Builder) insertUniqueEdge(e topology.Edge) {
	key := keyOf(e.Coords)
	for _, i := range b.index[key] {
		existing := &b.edges[i]
		var forward bool
		switch {
		case slices.Equal(existing.Coords, e.Coords):
			forward = true
		case isReverse(existing.Coords, e.Coords):
		default:
			continue
		}
		label := e.Label
		if !forward {
			label = label.Flip()
		}
		existing.Label = existing.Label.Merge(label)
		existing.DepthDelta += label.DepthDelta()
		return
	}
	e.DepthDelta = e.Label.DepthDelta()
	b.index[key] = append(b.index[key], len(b.edges))
	b.edges = append(b.edges, e)
}

func isReverse(a, b []geom.Coord) bool {
	if len(a) != len(b) {
		return false
	}
	for i, p := range a {
		if b[len(b)-1-i] != p {
			return false
		}
	}
	return true
}

// createSubgraphs partitions the graph into connected subgraphs ordered by
// decreasing rightmost x.
func (b *Builder) createSubgraphs() ([]*subgraph, error) {
	var out []*subgraph
	for _, n := range b.graph.Nodes() {
		if b.graph.Node(n).Visited {
			continue
		}
		sg, err := newSubgraph(b.graph, n)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	slices.SortStableFunc(out, func(x, y *subgraph) int {
		switch {
		case x.rightmost.X > y.rightmost.X:
			return -1
		case x.rightmost.X < y.rightmost.X:
			return 1
		}
		return 0
	})
	return out, nil
}

// buildSubgraphs computes depths for each subgraph, outermost first, and
// hands its result edges to the polygon builder.
func (b *Builder) buildSubgraphs(subgraphs []*subgraph, polys *topology.PolygonBuilder) error {
	var processed []*subgraph
	for _, sg := range subgraphs {
		outside := newDepthLocater(b.graph, processed).depth(sg.rightmost)
		if err := sg.computeDepth(outside); err != nil {
			return err
		}
		sg.findResultEdges()
		processed = append(processed, sg)
		if err := polys.Add(sg.dirEdges, sg.nodes); err != nil {
			return err
		}
	}
	return nil
}
