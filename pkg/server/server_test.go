package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/config"
	apperrors "github.com/matzehuels/geobuffer/pkg/errors"
	gio "github.com/matzehuels/geobuffer/pkg/io"
	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Batch.Concurrency = 2
	if mutate != nil {
		mutate(&cfg)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	ts := httptest.NewServer(New(cfg, runner, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("response has no request id")
	}
	body := decode[map[string]string](t, resp.Body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestVersion(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body := decode[map[string]string](t, resp.Body)
	if body["version"] == "" {
		t.Errorf("version missing from %v", body)
	}
}

func TestRequestIDEcho(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request id = %q, want %q", got, "abc-123")
	}
}

func TestBufferWKT(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/v1/buffer", `{
		"wkt": "LINESTRING (0 0, 10 0)",
		"distance": 1,
		"cap": "flat",
		"formats": ["wkt", "svg", "png"],
		"width": 64
	}`)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, b)
	}
	body := decode[BufferResponse](t, resp.Body)

	if math.Abs(body.Stats.Area-20) > 1e-9 {
		t.Errorf("area = %v, want 20", body.Stats.Area)
	}
	if body.Stats.Polygons != 1 {
		t.Errorf("polygons = %d, want 1", body.Stats.Polygons)
	}
	if !strings.HasPrefix(body.Artifacts["wkt"], "POLYGON") {
		t.Errorf("wkt = %q", body.Artifacts["wkt"])
	}
	if !strings.HasPrefix(body.Artifacts["svg"], "<svg") {
		t.Errorf("svg = %.40q", body.Artifacts["svg"])
	}
	png, err := base64.StdEncoding.DecodeString(body.Artifacts["png"])
	if err != nil {
		t.Fatalf("png is not base64: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png has no PNG signature")
	}
	if g, err := gio.ReadGeoJSON(body.Geometry); err != nil || g.Type().String() != "Polygon" {
		t.Errorf("geometry = %s (err %v), want a Polygon", body.Geometry, err)
	}
	if body.RequestID == "" {
		t.Error("request_id is empty")
	}
}

func TestBufferGeoJSON(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := postJSON(t, ts.URL+"/v1/buffer", `{
		"geometry": {"type": "Point", "coordinates": [5, 5]},
		"distance": 2
	}`)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, b)
	}
	body := decode[BufferResponse](t, resp.Body)
	if body.Stats.Polygons != 1 {
		t.Errorf("polygons = %d, want 1", body.Stats.Polygons)
	}
	if body.Stats.Area <= 12 || body.Stats.Area >= 4*math.Pi {
		t.Errorf("area = %v, want just under %v", body.Stats.Area, 4*math.Pi)
	}
}

func TestBufferErrors(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Server.MaxBodyBytes = 256 })

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"wkt":`, 400, string(apperrors.ErrCodeInvalidFormat)},
		{"unknown field", `{"wkt":"POINT (0 0)","distance":1,"radius":2}`, 400, string(apperrors.ErrCodeInvalidFormat)},
		{"no geometry", `{"distance":1}`, 400, string(apperrors.ErrCodeInvalidInput)},
		{"both inputs", `{"wkt":"POINT (0 0)","geometry":{"type":"Point","coordinates":[0,0]},"distance":1}`, 400, string(apperrors.ErrCodeInvalidInput)},
		{"no distance", `{"wkt":"POINT (0 0)"}`, 400, string(apperrors.ErrCodeInvalidParameter)},
		{"bad cap", `{"wkt":"POINT (0 0)","distance":1,"cap":"pointy"}`, 400, string(apperrors.ErrCodeInvalidParameter)},
		{"bad format", `{"wkt":"POINT (0 0)","distance":1,"formats":["gif"]}`, 400, string(apperrors.ErrCodeInvalidParameter)},
		{"bad wkt", `{"wkt":"POINT (0","distance":1}`, 400, ""},
		{"too large", `{"wkt":"` + strings.Repeat("x", 512) + `","distance":1}`, 413, "REQUEST_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/buffer", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decode[errorResponse](t, resp.Body)
			if tt.wantCode != "" && body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
			if body.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestBatch(t *testing.T) {
	ts := newTestServer(t, nil)
	fc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"a","properties":{"name":"first"},"geometry":{"type":"Point","coordinates":[0,0]}},
		{"type":"Feature","id":"b","properties":{},"geometry":{"type":"LineString","coordinates":[[0,0],[10,0]]}}
	]}`
	resp, err := http.Post(ts.URL+"/v1/buffer/batch?distance=1&cap=flat", "application/geo+json", strings.NewReader(fc))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, b)
	}
	if got := resp.Header.Get(HeaderBatchTotal); got != "2" {
		t.Errorf("%s = %q, want 2", HeaderBatchTotal, got)
	}
	if got := resp.Header.Get(HeaderBatchFailed); got != "0" {
		t.Errorf("%s = %q, want 0", HeaderBatchFailed, got)
	}

	data, _ := io.ReadAll(resp.Body)
	features, err := gio.ReadFeatures(data)
	if err != nil {
		t.Fatalf("ReadFeatures() error = %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("features = %d, want 2", len(features))
	}
	if features[0].Properties["name"] != "first" {
		t.Errorf("properties = %v, want name=first", features[0].Properties)
	}
	for i, f := range features {
		if f.Geometry.Type().String() != "Polygon" {
			t.Errorf("feature %d type = %s, want Polygon", i, f.Geometry.Type())
		}
	}
}

func TestBatchErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	fc := `{"type":"FeatureCollection","features":[]}`

	tests := []struct {
		name  string
		query string
		body  string
	}{
		{"missing distance", "", fc},
		{"bad distance", "?distance=far", fc},
		{"bad quadrant segments", "?distance=1&quadrant_segments=x", fc},
		{"bad single sided", "?distance=1&single_sided=maybe", fc},
		{"bad body", "?distance=1", `{"type":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/buffer/batch"+tt.query, "application/geo+json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v2/nothing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/v1/buffer")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", apperrors.New(apperrors.ErrCodeInvalidInput, "x"), 400},
		{"invalid geometry", apperrors.New(apperrors.ErrCodeInvalidGeometry, "x"), 400},
		{"unsupported", apperrors.New(apperrors.ErrCodeUnsupported, "x"), 422},
		{"not found", apperrors.New(apperrors.ErrCodeNotFound, "x"), 404},
		{"topology", apperrors.Topology(1, 2, "side location conflict"), 500},
		{"robustness", apperrors.New(apperrors.ErrCodeRobustness, "x"), 500},
		{"deadline", context.DeadlineExceeded, 504},
		{"too large", &http.MaxBytesError{Limit: 1}, 413},
		{"plain", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteErrorLocation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/buffer", nil)
	writeError(rec, req, apperrors.Topology(1.5, -2, "depth mismatch"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != string(apperrors.ErrCodeTopology) {
		t.Errorf("code = %s, want %s", body.Error.Code, apperrors.ErrCodeTopology)
	}
	if len(body.Error.Location) != 2 || body.Error.Location[0] != 1.5 || body.Error.Location[1] != -2 {
		t.Errorf("location = %v, want [1.5 -2]", body.Error.Location)
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(config.Default(), pipeline.NewRunner(nil, nil, logger), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
