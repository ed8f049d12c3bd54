// Package topology provides the labeled planar graph that the buffer
// builder classifies and the polygon assembler that turns classified edges
// back into polygons.
//
// # Arena Layout
//
// A [Graph] stores its edges, directed edges and nodes in flat slices and
// refers to them by integer id. Edge i owns directed edges 2i (forward) and
// 2i+1 (reverse), so the symmetric counterpart of a directed edge is
// [Sym](id) = id ^ 1 and needs no pointer. Nodes are created on demand for
// every distinct edge endpoint and hold their outgoing directed edges in
// counter-clockwise order starting at the positive X axis (the "star").
//
// # Labels and Depths
//
// Every edge carries a [Label] describing the location of its left and right
// sides relative to the buffer area, and a depth delta derived from that
// label. Labels are values: [Label.Flip] and [Label.Merge] return new labels.
// Directed edges carry per-side depths that are filled in by
// [Graph.ComputeStarDepths] walking around a node from a seed edge.
//
// # Polygon Assembly
//
// [PolygonBuilder] links the in-result directed edges at each node into
// maximal rings, splits rings that touch themselves into minimal rings,
// classifies them into shells (clockwise) and holes (counter-clockwise) and
// assigns each free hole to the smallest shell containing it.
package topology
