// Package buffer computes polygonal buffers (Minkowski offsets) of points,
// lines, polygons and collections at a signed distance.
//
// # Overview
//
// A buffer is built in five stages:
//
//  1. Raw offset curves are generated for every component of the input
//     ([CurveBuilder]). Arcs are approximated with fillets whose angular
//     step is set by [Parameters.QuadrantSegments]. Raw curves may overlap
//     and self-intersect.
//  2. The curves are noded so that they meet only at endpoints.
//  3. The noded pieces become edges of a planar topology graph. Each edge
//     carries a depth delta derived from its label: crossing a curve from
//     its exterior side to its interior side increases the depth by one.
//  4. The graph is split into connected subgraphs. Starting from the
//     subgraph extending furthest right, each subgraph is seeded with the
//     depth of the area surrounding it and depths are propagated across
//     its edges.
//  5. Edges with depth of at least one on their right and at most zero on
//     their left bound the result and are assembled into polygons.
//
// # Basic Usage
//
// Use [Buffer] for a one-off computation:
//
//	line := geom.LineString{Coords: []geom.Coord{geom.C(0, 0), geom.C(10, 0)}}
//	result, err := buffer.Buffer(line, 2, buffer.DefaultParameters())
//
// Positive distances grow the geometry, negative distances shrink polygons.
// Points and lines have no interior, so buffering them at zero or a negative
// distance yields an empty polygon (unless [Parameters.SingleSided] is set
// for lines).
//
// # Robustness
//
// Floating-point noding can leave the graph inconsistent, which surfaces as
// a topology or robustness error. [Op] retries such failures with
// snap-rounding noding on a progressively coarser grid, starting at twelve
// significant digits. Each attempt can be observed through
// [Op.OnAttempt] and is logged at debug level.
//
// # Concurrency
//
// [Op] and [Builder] values keep per-call state and must not be shared
// between goroutines. [Buffer] creates a fresh [Op] on each call and is safe
// for concurrent use.
package buffer
