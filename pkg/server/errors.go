package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/matzehuels/geobuffer/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Location is the [x, y] at which a topology failure was detected.
	Location []float64 `json:"location,omitempty"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidGeometry, apperrors.ErrCodeInvalidParameter,
		apperrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error, status int) string {
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	switch status {
	case http.StatusRequestEntityTooLarge:
		return "REQUEST_TOO_LARGE"
	case http.StatusGatewayTimeout:
		return string(apperrors.ErrCodeTimeout)
	}
	return string(apperrors.ErrCodeInternal)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := apperrors.UserMessage(err)
	if status == http.StatusInternalServerError && apperrors.GetCode(err) == "" {
		msg = "internal error"
	}
	body := errorBody{Code: errorCode(err, status), Message: msg}
	if at, ok := apperrors.Locate(err); ok {
		body.Location = []float64{at.X, at.Y}
	}
	writeJSON(w, status, errorResponse{Error: body, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(r *http.Request) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
