package render

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

func box(x0, y0, x1, y1 float64) []geom.Coord {
	return []geom.Coord{geom.C(x0, y0), geom.C(x1, y0), geom.C(x1, y1), geom.C(x0, y1), geom.C(x0, y0)}
}

func TestSVG(t *testing.T) {
	result := geom.Polygon{Rings: [][]geom.Coord{box(0, 0, 10, 10)}}
	svg := string(SVG(nil, result, WithWidth(120), WithPadding(10)))

	for _, want := range []string{
		`viewBox="0 0 120 120"`,
		`d="M10 110L110 110L110 10L10 10Z"`,
		`fill-rule="evenodd"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG() missing %s in:\n%s", want, svg)
		}
	}
	if strings.Contains(svg, `class="input"`) {
		t.Error("SVG() drew an input for a nil geometry")
	}
}

func TestSVGInput(t *testing.T) {
	input := geom.Collection{Geometries: []geom.Geometry{
		geom.NewPoint(0, 0),
		geom.LineString{Coords: []geom.Coord{geom.C(0, 0), geom.C(10, 0)}},
	}}
	svg := string(SVG(input, nil, WithTitle("a < b"), WithVertices()))
	if n := strings.Count(svg, `class="input"`); n != 2 {
		t.Errorf("SVG() has %d input elements, want 2", n)
	}
	if !strings.Contains(svg, "<title>a &lt; b</title>") {
		t.Error("SVG() title is not escaped")
	}
}

func TestPNG(t *testing.T) {
	result := geom.Polygon{Rings: [][]geom.Coord{box(0, 0, 10, 10), box(4, 4, 6, 6)}}
	fill := color.RGBA{0, 0, 0xff, 0xff}
	data, err := PNG(nil, result, 100, 100, WithPNGPadding(20), WithPNGColors(color.Black, fill))
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("image size = %v, want 100x100", b)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{name: "outside", x: 5, y: 5, want: color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{name: "inside", x: 30, y: 30, want: fill},
		{name: "hole", x: 50, y: 50, want: color.RGBA{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := color.RGBAModel.Convert(img.At(tt.x, tt.y)).(color.RGBA)
			if got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPNGCaption(t *testing.T) {
	input := geom.LineString{Coords: []geom.Coord{geom.C(0, 0), geom.C(5, 5)}}
	if _, err := PNG(input, nil, 64, 64, WithCaption("d=1")); err != nil {
		t.Errorf("PNG() error = %v", err)
	}
}

func TestPNGInvalidSize(t *testing.T) {
	if _, err := PNG(nil, nil, 0, 10); err == nil {
		t.Error("PNG() with zero width should fail")
	}
}

func TestGraphDOT(t *testing.T) {
	label := topology.AreaLabel(topology.LocExterior, topology.LocInterior)
	g := topology.NewGraph()
	g.AddEdges([]topology.Edge{
		{Coords: []geom.Coord{geom.C(0, 0), geom.C(1, 0), geom.C(1, 1)}, Label: label},
		{Coords: []geom.Coord{geom.C(1, 1), geom.C(0, 1), geom.C(0, 0)}, Label: label},
	})
	g.DirEdge(0).InResult = true

	dot := GraphDOT(g)
	if n := strings.Count(dot, " -> "); n != 4 {
		t.Errorf("GraphDOT() has %d edges, want 4", n)
	}
	if n := strings.Count(dot, "penwidth=2"); n != 1 {
		t.Errorf("GraphDOT() highlights %d edges, want 1", n)
	}
	if !strings.Contains(dot, `label="(0, 0)"`) {
		t.Errorf("GraphDOT() missing node label in:\n%s", dot)
	}

	empty := GraphDOT(nil)
	if !strings.HasPrefix(empty, "digraph G {") || !strings.HasSuffix(empty, "}\n") {
		t.Errorf("GraphDOT(nil) = %q", empty)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGraphSVG(t *testing.T) {
	svg, err := GraphSVG(context.Background(), `digraph G { a -> b; }`)
	if err != nil {
		t.Fatalf("GraphSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("GraphSVG() output missing <svg> tag")
	}
}

func TestToPDF(t *testing.T) {
	svg := SVG(nil, geom.Polygon{Rings: [][]geom.Coord{box(0, 0, 10, 10)}})
	pdf, err := ToPDF(context.Background(), svg)
	if _, lookErr := exec.LookPath(rsvgConvert); lookErr != nil {
		if !errors.Is(err, ErrNoConverter) {
			t.Errorf("ToPDF() error = %v, want ErrNoConverter", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output starts with %q, want %%PDF", pdf[:min(len(pdf), 8)])
	}
}
