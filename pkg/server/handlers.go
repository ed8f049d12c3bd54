package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/geobuffer/pkg/buildinfo"
	apperrors "github.com/matzehuels/geobuffer/pkg/errors"
	gio "github.com/matzehuels/geobuffer/pkg/io"
	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// Batch response headers.
const (
	HeaderBatchTotal  = "X-Batch-Total"
	HeaderBatchFailed = "X-Batch-Failed"
	HeaderBatchCached = "X-Batch-Cached"
)

// BufferRequest is the body of POST /v1/buffer. Exactly one of Geometry (a
// GeoJSON geometry object) and WKT must be set.
type BufferRequest struct {
	Geometry json.RawMessage `json:"geometry,omitempty"`
	WKT      string          `json:"wkt,omitempty"`
	Distance *float64        `json:"distance"`

	QuadrantSegments int     `json:"quadrant_segments,omitempty"`
	Cap              string  `json:"cap,omitempty"`
	Join             string  `json:"join,omitempty"`
	MitreLimit       float64 `json:"mitre_limit,omitempty"`
	SingleSided      bool    `json:"single_sided,omitempty"`
	PrecisionScale   float64 `json:"precision_scale,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Title   string   `json:"title,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`
}

// BufferResponse is the body of a successful POST /v1/buffer. Artifacts
// holds the requested formats; png and pdf are base64 encoded.
type BufferResponse struct {
	Geometry  json.RawMessage   `json:"geometry"`
	Artifacts map[string]string `json:"artifacts"`
	Stats     StatsResponse     `json:"stats"`
	Cached    bool              `json:"cached"`
	RequestID string            `json:"request_id,omitempty"`
}

// StatsResponse summarizes one buffer run.
type StatsResponse struct {
	InputCoords  int     `json:"input_coords"`
	ResultCoords int     `json:"result_coords"`
	Polygons     int     `json:"polygons"`
	Area         float64 `json:"area"`
	Attempts     int     `json:"attempts"`
	BufferMillis int64   `json:"buffer_ms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleBuffer(w http.ResponseWriter, r *http.Request) {
	var req BufferRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := s.bufferOptions(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	geometry, err := gio.WriteGeoJSON(result.Buffer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := BufferResponse{
		Geometry:  geometry,
		Artifacts: make(map[string]string, len(result.Artifacts)),
		Stats: StatsResponse{
			InputCoords:  result.Stats.InputCoords,
			ResultCoords: result.Stats.ResultCoords,
			Polygons:     result.Stats.Polygons,
			Area:         result.Stats.Area,
			Attempts:     result.Stats.Attempts,
			BufferMillis: result.Stats.BufferTime.Milliseconds(),
		},
		Cached:    result.CacheInfo.Hit,
		RequestID: RequestID(r.Context()),
	}
	for format, data := range result.Artifacts {
		resp.Artifacts[format] = encodeArtifact(format, data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleBatch buffers a FeatureCollection. Buffer parameters are read from
// the query string: distance (required), quadrant_segments, cap, join,
// mitre_limit, single_sided and precision_scale.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	opts, err := s.batchOptions(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	features, err := gio.ReadFeatures(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, stats, err := s.runner.Batch(r.Context(), features, opts, s.cfg.Batch.Concurrency, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := gio.WriteFeatures(out)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/geo+json")
	h.Set(HeaderBatchTotal, strconv.Itoa(stats.Total))
	h.Set(HeaderBatchFailed, strconv.Itoa(stats.Failed))
	h.Set(HeaderBatchCached, strconv.Itoa(stats.Cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) bufferOptions(req BufferRequest) (pipeline.Options, error) {
	hasGeometry := len(req.Geometry) > 0 && string(req.Geometry) != "null"
	switch {
	case hasGeometry && req.WKT != "":
		return pipeline.Options{}, apperrors.New(apperrors.ErrCodeInvalidInput, "set either geometry or wkt, not both")
	case !hasGeometry && req.WKT == "":
		return pipeline.Options{}, apperrors.New(apperrors.ErrCodeInvalidInput, "geometry or wkt is required")
	case req.Distance == nil:
		return pipeline.Options{}, apperrors.New(apperrors.ErrCodeInvalidParameter, "distance is required")
	}

	opts := pipeline.Options{
		Distance:         *req.Distance,
		QuadrantSegments: req.QuadrantSegments,
		Cap:              req.Cap,
		Join:             req.Join,
		MitreLimit:       req.MitreLimit,
		SingleSided:      req.SingleSided,
		PrecisionScale:   req.PrecisionScale,
		Formats:          req.Formats,
		Width:            req.Width,
		Height:           req.Height,
		Title:            req.Title,
		Refresh:          req.Refresh,
	}
	if hasGeometry {
		opts.Input, opts.InputFormat = req.Geometry, string(gio.FormatGeoJSON)
	} else {
		opts.Input, opts.InputFormat = []byte(req.WKT), string(gio.FormatWKT)
	}
	opts.ApplyConfig(s.cfg.Buffer)
	return opts, nil
}

func (s *Server) batchOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	if q.Get("distance") == "" {
		return opts, apperrors.New(apperrors.ErrCodeInvalidParameter, "distance is required")
	}
	var err error
	if opts.Distance, err = floatParam(q, "distance"); err != nil {
		return opts, err
	}
	if opts.MitreLimit, err = floatParam(q, "mitre_limit"); err != nil {
		return opts, err
	}
	if opts.PrecisionScale, err = floatParam(q, "precision_scale"); err != nil {
		return opts, err
	}
	if v := q.Get("quadrant_segments"); v != "" {
		if opts.QuadrantSegments, err = strconv.Atoi(v); err != nil {
			return opts, apperrors.Wrap(apperrors.ErrCodeInvalidParameter, err, "invalid quadrant_segments %q", v)
		}
	}
	if v := q.Get("single_sided"); v != "" {
		if opts.SingleSided, err = strconv.ParseBool(v); err != nil {
			return opts, apperrors.Wrap(apperrors.ErrCodeInvalidParameter, err, "invalid single_sided %q", v)
		}
	}
	opts.Cap = q.Get("cap")
	opts.Join = q.Get("join")
	opts.Refresh = q.Get("refresh") == "true"
	opts.ApplyConfig(s.cfg.Buffer)
	return opts, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInvalidParameter, err, "invalid %s %q", name, v)
	}
	return f, nil
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

func encodeArtifact(format string, data []byte) string {
	switch format {
	case pipeline.FormatPNG, pipeline.FormatPDF:
		return base64.StdEncoding.EncodeToString(data)
	}
	return string(data)
}
