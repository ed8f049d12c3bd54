// Package noding splits labeled coordinate sequences at their mutual
// intersections so that the result forms a planar arrangement.
//
// A [Noder] takes [SegmentString] values and returns new segment strings
// that meet only at shared endpoints. Each output string keeps the
// orientation and [topology.Label] of the input it was cut from.
//
// Three noders are provided:
//
//   - [IndexedNoder] finds intersecting segment pairs through an R-tree and
//     inserts the computed intersection points, rounded to its precision
//     model. It is fast but trusts floating-point intersection points.
//   - [SnapRoundingNoder] works on the integer grid: every vertex and
//     intersection becomes a hot pixel and every segment passing through a
//     hot pixel is bent through its centre. Its output is fully noded by
//     construction.
//   - [ScaledNoder] wraps another noder, scaling coordinates to the integer
//     grid before noding and back afterwards.
package noding
