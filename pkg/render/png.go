package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	padding    float64
	background color.Color
	input      color.Color
	result     color.Color
	caption    string
}

// WithPNGPadding sets the margin around the drawing (default 16).
func WithPNGPadding(p float64) PNGOption { return func(r *pngRenderer) { r.padding = p } }

// WithPNGColors sets the input stroke and result fill colors.
func WithPNGColors(input, result color.Color) PNGOption {
	return func(r *pngRenderer) { r.input, r.result = input, result }
}

// WithCaption draws text in the bottom-left corner.
func WithCaption(s string) PNGOption { return func(r *pngRenderer) { r.caption = s } }

const (
	strokeHalfWidth = 0.75
	pointHalfSize   = 2.5
	captionSize     = 12
)

// PNG rasterizes the same picture as [SVG] into a width by height image.
func PNG(input, result geom.Geometry, width, height int, opts ...PNGOption) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "image size must be positive, got %dx%d", width, height)
	}
	r := pngRenderer{
		padding:    16,
		background: color.White,
		input:      color.RGBA{0x33, 0x33, 0x33, 0xff},
		result:     color.RGBA{0x4c, 0x78, 0xa8, 0xff},
	}
	for _, opt := range opts {
		opt(&r)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	vp := fitBox(drawingEnvelope(input, result), float64(width), float64(height), r.padding)

	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Over
	if rs := rings(result); len(rs) > 0 {
		for _, ring := range rs {
			fillRing(z, vp, ring)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(r.result), image.Point{})
	}

	points, lines := strokes(input)
	if len(points) > 0 || len(lines) > 0 {
		z.Reset(width, height)
		for _, line := range lines {
			for i := 0; i+1 < len(line); i++ {
				ax, ay := vp.project(line[i])
				bx, by := vp.project(line[i+1])
				strokeSegment(z, ax, ay, bx, by)
			}
		}
		for _, p := range points {
			x, y := vp.project(p)
			square(z, x, y, pointHalfSize)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(r.input), image.Point{})
	}

	if r.caption != "" {
		if err := drawCaption(img, r.caption, r.input); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func fillRing(z *vector.Rasterizer, vp viewport, ring []geom.Coord) {
	for i, c := range ring {
		x, y := vp.project(c)
		if i == 0 {
			z.MoveTo(float32(x), float32(y))
		} else {
			z.LineTo(float32(x), float32(y))
		}
	}
	z.ClosePath()
}

// strokeSegment fills a thin quad around a-b. Quads always wind the same
// way so that overlaps do not cancel.
func strokeSegment(z *vector.Rasterizer, ax, ay, bx, by float64) {
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		square(z, ax, ay, strokeHalfWidth)
		return
	}
	nx, ny := -dy/l*strokeHalfWidth, dx/l*strokeHalfWidth
	z.MoveTo(float32(ax+nx), float32(ay+ny))
	z.LineTo(float32(bx+nx), float32(by+ny))
	z.LineTo(float32(bx-nx), float32(by-ny))
	z.LineTo(float32(ax-nx), float32(ay-ny))
	z.ClosePath()
}

func square(z *vector.Rasterizer, x, y, h float64) {
	z.MoveTo(float32(x-h), float32(y-h))
	z.LineTo(float32(x+h), float32(y-h))
	z.LineTo(float32(x+h), float32(y+h))
	z.LineTo(float32(x-h), float32(y+h))
	z.ClosePath()
}

var (
	captionFont     *opentype.Font
	captionFontErr  error
	captionFontOnce sync.Once
)

func drawCaption(img *image.RGBA, text string, c color.Color) error {
	captionFontOnce.Do(func() {
		captionFont, captionFontErr = opentype.Parse(goregular.TTF)
	})
	if captionFontErr != nil {
		return errors.Wrap(errors.ErrCodeInternal, captionFontErr, "parse caption font")
	}
	face, err := opentype.NewFace(captionFont, &opentype.FaceOptions{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create caption face")
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(4, img.Bounds().Dy()-4),
	}
	d.DrawString(text)
	return nil
}
