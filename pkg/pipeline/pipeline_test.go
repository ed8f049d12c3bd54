package pipeline

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/config"
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/geom"
	gio "github.com/matzehuels/geobuffer/pkg/io"
	"github.com/matzehuels/geobuffer/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"wkt", false},
		{"geojson", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"wkt"}},
		{"svg", []string{"svg"}},
		{"WKT, svg,,png", []string{"wkt", "svg", "png"}},
		{"svg,svg", []string{"svg"}},
	}
	for _, tt := range tests {
		got := ParseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: []byte("POINT (0 0)"), Distance: 1, Cap: "butt", Join: "miter"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.QuadrantSegments != 8 {
		t.Errorf("QuadrantSegments = %d, want 8", opts.QuadrantSegments)
	}
	if opts.Cap != "flat" || opts.Join != "mitre" {
		t.Errorf("Cap, Join = %q, %q, want flat, mitre", opts.Cap, opts.Join)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatWKT {
		t.Errorf("Formats = %v, want [wkt]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Second call is a no-op.
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{Distance: 1}, errors.ErrCodeInvalidInput},
		{"nan distance", Options{Input: []byte("POINT (0 0)"), Distance: math.NaN()}, errors.ErrCodeInvalidParameter},
		{"bad cap", Options{Input: []byte("POINT (0 0)"), Cap: "pointy"}, errors.ErrCodeInvalidParameter},
		{"bad format", Options{Input: []byte("POINT (0 0)"), Formats: []string{"kml"}}, errors.ErrCodeInvalidParameter},
		{"negative scale", Options{Input: []byte("POINT (0 0)"), PrecisionScale: -1}, errors.ErrCodeInvalidParameter},
		{"huge image", Options{Input: []byte("POINT (0 0)"), Width: MaxImageSize + 1}, errors.ErrCodeInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsApplyConfig(t *testing.T) {
	b := config.BufferConfig{
		QuadrantSegments: 4,
		EndCap:           "square",
		Join:             "mitre",
		MitreLimit:       2,
		PrecisionScale:   100,
	}

	opts := Options{Join: "bevel", QuadrantSegments: 16}
	opts.ApplyConfig(b)
	if opts.QuadrantSegments != 16 {
		t.Errorf("QuadrantSegments = %d, want 16", opts.QuadrantSegments)
	}
	if opts.Cap != "square" {
		t.Errorf("Cap = %q, want %q", opts.Cap, "square")
	}
	if opts.Join != "bevel" {
		t.Errorf("Join = %q, want %q", opts.Join, "bevel")
	}
	if opts.MitreLimit != 2 {
		t.Errorf("MitreLimit = %v, want 2", opts.MitreLimit)
	}
	if opts.PrecisionScale != 100 {
		t.Errorf("PrecisionScale = %v, want 100", opts.PrecisionScale)
	}
	if opts.SingleSided {
		t.Error("SingleSided = true, want false")
	}

	b.SingleSided = true
	opts.ApplyConfig(b)
	if !opts.SingleSided {
		t.Error("SingleSided = false, want true")
	}
}

func TestParse(t *testing.T) {
	line := geom.LineString{Coords: []geom.Coord{geom.C(0, 0), geom.C(10, 0)}}
	tests := []struct {
		name string
		opts Options
	}{
		{"wkt", Options{Input: []byte("  LINESTRING (0 0, 10 0)\n")}},
		{"geojson", Options{Input: []byte(`{"type":"LineString","coordinates":[[0,0],[10,0]]}`)}},
		{"explicit format", Options{Input: []byte("LINESTRING (0 0, 10 0)"), InputFormat: "wkt"}},
		{"geometry wins", Options{Input: []byte("POINT (5 5)"), Geometry: line}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(tt.opts)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if gio.WriteWKT(g) != "LINESTRING (0 0, 10 0)" {
				t.Errorf("Parse() = %s", gio.WriteWKT(g))
			}
		})
	}

	if _, err := Parse(Options{Input: []byte("   ")}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Parse(blank) error = %v, want invalid input", err)
	}
	if _, err := Parse(Options{Input: []byte("POINT (0 0)"), InputFormat: "kml"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Parse(kml) error = %v, want invalid format", err)
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), Options{
		Input:    []byte("LINESTRING (0 0, 10 0)"),
		Distance: 1,
		Cap:      "flat",
		Formats:  []string{"wkt", "geojson", "svg", "png", "dot"},
		Width:    64,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if math.Abs(res.Stats.Area-20) > 1e-9 {
		t.Errorf("Area = %v, want 20", res.Stats.Area)
	}
	if res.Stats.Polygons != 1 {
		t.Errorf("Polygons = %d, want 1", res.Stats.Polygons)
	}
	if res.Stats.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Stats.Attempts)
	}
	if res.Stats.InputCoords != 2 {
		t.Errorf("InputCoords = %d, want 2", res.Stats.InputCoords)
	}
	if res.Graph == nil {
		t.Error("Graph should be set on a computed result")
	}
	if res.CacheInfo.Hit {
		t.Error("first run should not hit the cache")
	}

	if !strings.HasPrefix(string(res.Artifacts["wkt"]), "POLYGON ((") {
		t.Errorf("wkt = %s", res.Artifacts["wkt"])
	}
	if !strings.Contains(string(res.Artifacts["geojson"]), `"Polygon"`) {
		t.Errorf("geojson = %s", res.Artifacts["geojson"])
	}
	if !bytes.HasPrefix(res.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg does not start with <svg")
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Errorf("png has no PNG signature")
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "digraph") {
		t.Errorf("dot = %s", res.Artifacts["dot"])
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{
		Input:    []byte("POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))"),
		Distance: 1,
		Formats:  []string{"svg", "geojson"},
	}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Fatal("second run should hit the cache")
	}
	if second.Graph != nil {
		t.Error("cached result should carry no graph")
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from computed svg")
	}
	if math.Abs(first.Stats.Area-second.Stats.Area) > 1e-9 {
		t.Errorf("cached area = %v, want %v", second.Stats.Area, first.Stats.Area)
	}

	// The same ring spelled as GeoJSON shares the entry.
	geojson := opts
	geojson.Input = []byte(`{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`)
	third, err := r.Execute(ctx, geojson)
	if err != nil {
		t.Fatalf("Execute(geojson) error = %v", err)
	}
	if !third.CacheInfo.Hit {
		t.Error("GeoJSON input should hit the WKT entry")
	}

	refresh := opts
	refresh.Refresh = true
	fourth, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatalf("Execute(refresh) error = %v", err)
	}
	if fourth.CacheInfo.Hit {
		t.Error("Refresh should bypass the cache")
	}

	// A different distance is a different entry.
	other := opts
	other.Distance = 2
	fifth, err := r.Execute(ctx, other)
	if err != nil {
		t.Fatalf("Execute(d=2) error = %v", err)
	}
	if fifth.CacheInfo.Hit {
		t.Error("different distance should miss")
	}
}

type countingHooks struct {
	observability.NoopBufferHooks
	observability.NoopCacheHooks

	mu        sync.Mutex
	starts    int
	completes int
	hits      int
	misses    int
	sets      int
}

func (h *countingHooks) OnBufferStart(context.Context, string, float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *countingHooks) OnBufferComplete(context.Context, string, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestExecuteHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetBufferHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := newTestRunner(t)
	opts := Options{Input: []byte("POINT (0 0)"), Distance: 1}
	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}

	if hooks.starts != 1 || hooks.completes != 1 {
		t.Errorf("buffer hooks = %d starts, %d completes, want 1, 1", hooks.starts, hooks.completes)
	}
	if hooks.misses != 1 || hooks.hits != 1 {
		t.Errorf("cache hooks = %d misses, %d hits, want 1, 1", hooks.misses, hooks.hits)
	}
	if hooks.sets != 1 {
		t.Errorf("cache sets = %d, want 1", hooks.sets)
	}
}

func TestGraph(t *testing.T) {
	r := newTestRunner(t)
	artifacts, err := r.Graph(context.Background(), Options{
		Input:    []byte("POLYGON ((0 0, 4 0, 4 4, 0 4, 0 0))"),
		Distance: 1,
	})
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	dot := string(artifacts["dot"])
	if !strings.HasPrefix(dot, "digraph") || !strings.Contains(dot, "->") {
		t.Errorf("Graph() dot = %s", dot)
	}

	if _, err := r.Graph(context.Background(), Options{Input: []byte("POINT (0 0)"), Formats: []string{"png"}}); err == nil {
		t.Error("Graph() should reject png")
	}
}

type unsupportedGeometry struct{}

func (unsupportedGeometry) Type() geom.Type    { return geom.TypeCollection }
func (unsupportedGeometry) IsEmpty() bool      { return false }
func (unsupportedGeometry) Envelope() r2.Rect { return r2.RectFromPoints(geom.C(0, 0), geom.C(1, 1)) }

func TestBatch(t *testing.T) {
	r := newTestRunner(t)
	features := []gio.Feature{
		{ID: "a", Geometry: geom.NewPoint(0, 0), Properties: map[string]any{"name": "well"}},
		{ID: "b", Geometry: unsupportedGeometry{}, Properties: map[string]any{}},
		{ID: "c", Geometry: geom.LineString{Coords: []geom.Coord{geom.C(0, 0), geom.C(10, 0)}}},
	}

	var calls []int
	out, stats, err := r.Batch(context.Background(), features, Options{Distance: 1}, 2, func(done, total int) {
		if total != 3 {
			t.Errorf("progress total = %d, want 3", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("Batch() returned %d features, want 3", len(out))
	}
	for i, f := range out {
		if f.ID != features[i].ID {
			t.Errorf("out[%d].ID = %v, want %v", i, f.ID, features[i].ID)
		}
	}
	if out[0].Properties["name"] != "well" {
		t.Errorf("properties not preserved: %v", out[0].Properties)
	}
	if _, ok := out[0].Geometry.(geom.Polygon); !ok {
		t.Errorf("out[0] = %T, want Polygon", out[0].Geometry)
	}
	if out[1].Properties[PropErrorCode] != string(errors.ErrCodeUnsupported) {
		t.Errorf("failed feature properties = %v", out[1].Properties)
	}
	if !out[1].Geometry.IsEmpty() {
		t.Error("failed feature should get an empty geometry")
	}
	if stats.Total != 3 || stats.Failed != 1 {
		t.Errorf("stats = %+v, want 3 total, 1 failed", stats)
	}
	if len(calls) != 3 || calls[2] != 3 {
		t.Errorf("progress calls = %v, want 1..3", calls)
	}

	// Second run is served from the cache except for the failure.
	_, stats, err = r.Batch(context.Background(), features, Options{Distance: 1}, 2, nil)
	if err != nil {
		t.Fatalf("second Batch() error = %v", err)
	}
	if stats.Cached != 2 {
		t.Errorf("second run cached = %d, want 2", stats.Cached)
	}
}

func TestBatchCancelled(t *testing.T) {
	r := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	features := []gio.Feature{{Geometry: geom.NewPoint(0, 0)}}
	if _, _, err := r.Batch(ctx, features, Options{Distance: 1}, 1, nil); err != context.Canceled {
		t.Errorf("Batch() error = %v, want context.Canceled", err)
	}
}
