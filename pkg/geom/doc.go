// Package geom provides the planar geometry primitives used by the buffer
// pipeline.
//
// # Overview
//
// Coordinates are [github.com/golang/geo/r2] points and envelopes are
// [r2.Rect] values, so the rest of the module shares one vocabulary for
// positions, vectors and bounding boxes. On top of that this package adds:
//
//   - Robust orientation ([Orient]) with an exact fallback for
//     near-degenerate triples
//   - [Segment] with the ordering and orientation queries used by depth
//     location
//   - [LineIntersector], a segment intersector that reports proper, touching
//     and collinear intersections and optionally rounds results
//   - [PrecisionModel], a floating or fixed grid used to snap coordinates
//   - A small geometry model ([Point], [LineString], [Polygon], the Multi
//     types and [Collection]) implementing [Geometry]
//
// # Orientation Conventions
//
// [Orient] returns [CounterClockwise] (+1) when q lies to the left of the
// directed line p1->p2, [Clockwise] (-1) when it lies to the right and
// [Collinear] (0) otherwise. Rings are closed: the last coordinate repeats
// the first.
package geom
