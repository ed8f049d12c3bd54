package errors

import (
	"math"
	"strings"
)

// MaxQuadrantSegments caps the fillet resolution accepted from callers. A
// full circle at this setting has 4096 vertices.
const MaxQuadrantSegments = 1024

// ValidateDistance validates a buffer distance.
// Negative and zero distances are valid; NaN and infinities are not.
func ValidateDistance(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return New(ErrCodeInvalidParameter, "distance must be finite, got %v", d)
	}
	return nil
}

// ValidateQuadrantSegments validates the number of segments used to
// approximate a quarter circle.
//
// Validation rules:
//   - At least 1 (values below 1 are rejected rather than clamped so that
//     typos surface early)
//   - At most [MaxQuadrantSegments]
func ValidateQuadrantSegments(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidParameter, "quadrant segments must be at least 1, got %d", n)
	}
	if n > MaxQuadrantSegments {
		return New(ErrCodeInvalidParameter, "quadrant segments too large (max %d), got %d", MaxQuadrantSegments, n)
	}
	return nil
}

// ValidateMitreLimit validates the mitre ratio limit.
func ValidateMitreLimit(limit float64) error {
	if math.IsNaN(limit) || math.IsInf(limit, 0) || limit <= 0 {
		return New(ErrCodeInvalidParameter, "mitre limit must be a positive number, got %v", limit)
	}
	return nil
}

// ValidateScale validates a fixed precision scale. Zero selects floating
// precision and is valid.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 0 {
		return New(ErrCodeInvalidParameter, "precision scale must be zero or positive, got %v", scale)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
