package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"

	"github.com/matzehuels/geobuffer/pkg/geom"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width       float64
	padding     float64
	inputColor  string
	resultColor string
	vertices    bool
	title       string
}

// WithWidth sets the canvas width in pixels (default 600). The height follows
// the aspect ratio of the drawing.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithPadding sets the margin around the drawing (default 16).
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithColors sets the stroke color of the input and the fill color of the
// result.
func WithColors(input, result string) SVGOption {
	return func(r *svgRenderer) { r.inputColor, r.resultColor = input, result }
}

// WithVertices marks every result vertex with a dot.
func WithVertices() SVGOption { return func(r *svgRenderer) { r.vertices = true } }

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: 600, padding: 16, inputColor: "#333333", resultColor: "#4c78a8"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SVG draws result filled with the even-odd rule and input as strokes on top.
// Either geometry may be nil.
func SVG(input, result geom.Geometry, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	vp := fitWidth(drawingEnvelope(input, result), r.width, r.padding)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(vp.width), num(vp.height), vp.width, vp.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}

	if rs := rings(result); len(rs) > 0 {
		fmt.Fprintf(&buf, `  <path class="result" d="%s" fill="%s" fill-opacity="0.6" fill-rule="evenodd" stroke="%s" stroke-width="1"/>`+"\n",
			pathData(vp, rs, true), r.resultColor, r.resultColor)
		if r.vertices {
			for _, ring := range rs {
				for _, c := range ring[:len(ring)-1] {
					x, y := vp.project(c)
					fmt.Fprintf(&buf, `  <circle class="vertex" cx="%s" cy="%s" r="1.5" fill="%s"/>`+"\n", num(x), num(y), r.resultColor)
				}
			}
		}
	}

	points, lines := strokes(input)
	if len(lines) > 0 {
		fmt.Fprintf(&buf, `  <path class="input" d="%s" fill="none" stroke="%s" stroke-width="1.5" stroke-linejoin="round"/>`+"\n",
			pathData(vp, lines, false), r.inputColor)
	}
	for _, c := range points {
		x, y := vp.project(c)
		fmt.Fprintf(&buf, `  <circle class="input" cx="%s" cy="%s" r="2.5" fill="%s"/>`+"\n", num(x), num(y), r.inputColor)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func pathData(vp viewport, parts [][]geom.Coord, closed bool) string {
	var buf bytes.Buffer
	for _, pts := range parts {
		if closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
			pts = pts[:len(pts)-1]
		}
		for i, c := range pts {
			x, y := vp.project(c)
			cmd := byte('L')
			if i == 0 {
				cmd = 'M'
			}
			buf.WriteByte(cmd)
			buf.WriteString(num(x))
			buf.WriteByte(' ')
			buf.WriteString(num(y))
		}
		if closed {
			buf.WriteByte('Z')
		}
	}
	return buf.String()
}

// num formats v with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
