package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport covers every failure to get a response at all.
	ErrTransport = errors.New("listings api unreachable")
	// ErrMalformed is returned when a 2xx body does not decode into the expected shape.
	ErrMalformed = errors.New("malformed listings api response")
)

// StatusError is a non-2xx answer from the listings API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Detail)
}

// StatusCode extracts the HTTP status of err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsInsufficientData reports a 400 answer, which the analytics endpoints use
// when there are not enough data points to compute a result.
func IsInsufficientData(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}

// IsNotFound reports a 404 answer.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// parseDetail extracts FastAPI's {"detail": ...} message from an error body.
// Validation errors carry a list instead of a string; those are kept as raw JSON.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	return string(envelope.Detail)
}
