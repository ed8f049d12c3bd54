// Package pipeline provides the parse → buffer → render pipeline shared by
// the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode WKT or GeoJSON input
//  2. Buffer: run [buffer.Op] with precision retries
//  3. Render: encode the result as WKT, GeoJSON, SVG, PNG, PDF or DOT
//
// [Runner] adds caching around the whole pipeline: results are keyed by the
// hash of the normalized input and every option that changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:    []byte("LINESTRING (0 0, 10 0)"),
//	    Distance: 2,
//	    Formats:  []string{"wkt", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	wkt := result.Artifacts["wkt"]
//
// [Runner.Batch] buffers many GeoJSON features in parallel.
//
// [buffer.Op]: github.com/matzehuels/geobuffer/pkg/buffer.Op
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geobuffer/pkg/buffer"
	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/config"
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	"github.com/matzehuels/geobuffer/pkg/topology"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultImageSize is the width and height of PNG output in pixels.
	DefaultImageSize = 512

	// DefaultSVGWidth is the width of SVG output in pixels.
	DefaultSVGWidth = 600

	// MaxImageSize bounds PNG output.
	MaxImageSize = 8192

	// TTLResult is how long buffer results stay cached.
	TTLResult = 7 * 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatWKT     = "wkt"
	FormatGeoJSON = "geojson"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatWKT:     true,
	FormatGeoJSON: true,
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatDOT:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is WKT or GeoJSON text. Geometry, when set, is used instead.
	Input       []byte        `json:"-"`
	Geometry    geom.Geometry `json:"-"`
	InputFormat string        `json:"input_format,omitempty"` // "", "wkt" or "geojson"; empty detects

	// Buffer options
	Distance         float64 `json:"distance"`
	QuadrantSegments int     `json:"quadrant_segments,omitempty"`
	Cap              string  `json:"cap,omitempty"`
	Join             string  `json:"join,omitempty"`
	MitreLimit       float64 `json:"mitre_limit,omitempty"`
	SingleSided      bool    `json:"single_sided,omitempty"`
	PrecisionScale   float64 `json:"precision_scale,omitempty"` // 0 = floating input
	Refresh          bool    `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`  // SVG width, PNG width
	Height  int      `json:"height,omitempty"` // PNG height
	Title   string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Input is the parsed input geometry.
	Input geom.Geometry

	// Buffer is the buffered geometry.
	Buffer geom.Geometry

	// Graph is the topology graph of the final build attempt. It is nil
	// when the result came from the cache.
	Graph *topology.Graph

	// InputHash is the content hash of the normalized input.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputCoords  int
	ResultCoords int
	Polygons     int
	Area         float64
	Attempts     int
	ParseTime    time.Duration
	BufferTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	Hit bool // Whether every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// ParseFormats splits a comma-separated format list. An empty string
// selects WKT.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatWKT}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Geometry == nil && len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input geometry is required")
	}
	o.SetDefaults()
	if err := errors.ValidateDistance(o.Distance); err != nil {
		return err
	}
	if err := errors.ValidateScale(o.PrecisionScale); err != nil {
		return err
	}
	p, err := o.Parameters()
	if err != nil {
		return err
	}
	o.Cap, o.Join = p.Cap.String(), p.Join.String()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 || o.Width > MaxImageSize || o.Height > MaxImageSize {
		return errors.New(errors.ErrCodeInvalidParameter, "image size must be between 0 and %d, got %dx%d", MaxImageSize, o.Width, o.Height)
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset buffer and render options.
func (o *Options) SetDefaults() {
	if o.QuadrantSegments == 0 {
		o.QuadrantSegments = buffer.DefaultQuadrantSegments
	}
	if o.Cap == "" {
		o.Cap = buffer.CapRound.String()
	}
	if o.Join == "" {
		o.Join = buffer.JoinRound.String()
	}
	if o.MitreLimit == 0 {
		o.MitreLimit = buffer.DefaultMitreLimit
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatWKT}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ApplyConfig fills buffer options left unset with the configured defaults.
// SingleSided is only switched on, never off.
func (o *Options) ApplyConfig(b config.BufferConfig) {
	if o.QuadrantSegments == 0 {
		o.QuadrantSegments = b.QuadrantSegments
	}
	if o.Cap == "" {
		o.Cap = b.EndCap
	}
	if o.Join == "" {
		o.Join = b.Join
	}
	if o.MitreLimit == 0 {
		o.MitreLimit = b.MitreLimit
	}
	if o.PrecisionScale == 0 {
		o.PrecisionScale = b.PrecisionScale
	}
	o.SingleSided = o.SingleSided || b.SingleSided
}

// Parameters converts the buffer options to [buffer.Parameters].
func (o *Options) Parameters() (buffer.Parameters, error) {
	p := buffer.DefaultParameters()
	if o.QuadrantSegments != 0 {
		p.QuadrantSegments = o.QuadrantSegments
	}
	if o.MitreLimit != 0 {
		p.MitreLimit = o.MitreLimit
	}
	p.SingleSided = o.SingleSided
	var err error
	if p.Cap, err = buffer.ParseCap(o.Cap); err != nil {
		return buffer.Parameters{}, err
	}
	if p.Join, err = buffer.ParseJoin(o.Join); err != nil {
		return buffer.Parameters{}, err
	}
	if err := p.Validate(); err != nil {
		return buffer.Parameters{}, err
	}
	return p, nil
}

// Precision returns the input precision model.
func (o *Options) Precision() geom.PrecisionModel {
	return geom.Fixed(o.PrecisionScale)
}

// KeyOpts returns cache key options for one output format.
func (o *Options) KeyOpts(format string) cache.BufferKeyOpts {
	return cache.BufferKeyOpts{
		Distance:         o.Distance,
		QuadrantSegments: o.QuadrantSegments,
		Cap:              o.Cap,
		Join:             o.Join,
		MitreLimit:       o.MitreLimit,
		SingleSided:      o.SingleSided,
		PrecisionScale:   o.PrecisionScale,
		Format:           renderKey(format, o),
	}
}

// renderKey folds the render options that change a format's bytes into the
// format name used for cache keys.
func renderKey(format string, o *Options) string {
	switch format {
	case FormatSVG, FormatPDF:
		return fmt.Sprintf("%s:w=%d:t=%s", format, o.Width, o.Title)
	case FormatPNG:
		return fmt.Sprintf("%s:%dx%d:t=%s", format, o.Width, o.Height, o.Title)
	}
	return format
}
