// Package render draws buffer inputs and results, and the topology graph a
// buffer was built from.
//
// # Overview
//
// Three kinds of output are supported:
//
//   - SVG: the input drawn as strokes, the result filled with the even-odd
//     rule so holes show through ([SVG])
//   - PNG: the same picture rasterized in-process with x/image/vector
//     ([PNG])
//   - Graph: the labeled topology graph as Graphviz DOT ([GraphDOT]),
//     optionally laid out to SVG with go-graphviz ([GraphSVG])
//
// PDF output converts the SVG with the external rsvg-convert tool ([ToPDF]).
//
// # Coordinates
//
// Both image renderers fit the union of the input and result envelopes into
// the canvas, preserving aspect ratio, and flip the Y axis so that north is
// up.
//
//	svg := render.SVG(input, result, render.WithWidth(800))
//	png, err := render.PNG(input, result, 800, 600)
//
// # Graphs
//
// [GraphDOT] emits one DOT edge per directed edge, labeled with its left and
// right depths. Directed edges in the result are drawn bold red.
//
//	dot := render.GraphDOT(op.Graph())
//	svg, err := render.GraphSVG(ctx, dot)
package render
