package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/geobuffer/pkg/topology"
)

// GraphDOT converts a buffer topology graph to Graphviz DOT. Every directed
// edge becomes a DOT edge labeled with its left and right depths; edges in
// the result are drawn bold red. A nil graph yields an empty digraph.
func GraphDOT(g *topology.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	if g == nil {
		buf.WriteString("}\n")
		return buf.String()
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		c := g.Node(n).Coord
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", n, fmt.Sprintf("(%g, %g)", c.X, c.Y))
	}

	buf.WriteString("\n")
	for i := range g.NumDirEdges() {
		id := topology.DirEdgeID(i)
		de := g.DirEdge(id)
		label := fmt.Sprintf("e%d L%d R%d", de.Edge, de.Depth[topology.PosLeft], de.Depth[topology.PosRight])
		attrs := fmt.Sprintf("label=%q, color=grey60", label)
		if de.InResult {
			attrs = fmt.Sprintf("label=%q, color=\"#d62728\", penwidth=2", label)
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", de.Node, g.Dest(id), attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// GraphSVG lays out a DOT graph with Graphviz and returns the SVG.
func GraphSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root element so the SVG scales from the
// origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
