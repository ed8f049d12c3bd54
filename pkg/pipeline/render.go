package pipeline

import (
	"context"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	gio "github.com/matzehuels/geobuffer/pkg/io"
	"github.com/matzehuels/geobuffer/pkg/render"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// Render generates output artifacts in the requested formats. g is only
// used by the dot format; a nil graph renders as an empty digraph.
func Render(ctx context.Context, input, result geom.Geometry, g *topology.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgBytes := func() []byte {
		if svg == nil {
			svg = renderSVG(input, result, opts)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatWKT:
			data = []byte(gio.WriteWKT(result))
		case FormatGeoJSON:
			data, err = gio.WriteGeoJSON(result)
		case FormatSVG:
			data = svgBytes()
		case FormatPNG:
			data, err = renderPNG(input, result, opts)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgBytes())
			if err != nil {
				err = errors.Wrap(errors.ErrCodeUnsupported, err, "pdf export")
			}
		case FormatDOT:
			data = []byte(render.GraphDOT(g))
		default:
			return nil, errors.New(errors.ErrCodeInvalidParameter, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderSVG(input, result geom.Geometry, opts Options) []byte {
	width := opts.Width
	if width == 0 {
		width = DefaultSVGWidth
	}
	svgOpts := []render.SVGOption{render.WithWidth(float64(width))}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	return render.SVG(input, result, svgOpts...)
}

func renderPNG(input, result geom.Geometry, opts Options) ([]byte, error) {
	w, h := opts.Width, opts.Height
	if w == 0 {
		w = DefaultImageSize
	}
	if h == 0 {
		h = w
	}
	var pngOpts []render.PNGOption
	if opts.Title != "" {
		pngOpts = append(pngOpts, render.WithCaption(opts.Title))
	}
	return render.PNG(input, result, w, h, pngOpts...)
}

// RenderGraph renders a topology graph as DOT and, when requested, SVG.
func RenderGraph(ctx context.Context, g *topology.Graph, formats []string) (map[string][]byte, error) {
	dot := render.GraphDOT(g)
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatSVG:
			svg, err := render.GraphSVG(ctx, dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render graph svg")
			}
			artifacts[format] = svg
		default:
			return nil, errors.New(errors.ErrCodeInvalidParameter, "graph output supports dot and svg, not %s", format)
		}
	}
	return artifacts, nil
}
