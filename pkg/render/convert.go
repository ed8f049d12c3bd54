package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// rsvgConvert is the librsvg converter binary used for PDF output.
const rsvgConvert = "rsvg-convert"

// ErrNoConverter is returned by [ToPDF] when rsvg-convert is not on PATH.
var ErrNoConverter = errors.New("pdf output requires rsvg-convert (apt install librsvg2-bin, brew install librsvg)")

// ToPDF converts an SVG document to PDF by piping it through rsvg-convert.
// The conversion is killed when ctx is cancelled.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	bin, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, ErrNoConverter
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: %w: %s", rsvgConvert, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
