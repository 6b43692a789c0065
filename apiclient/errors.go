package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/imobly/go-core/utils"
)

// Sentinel kinds for the client-side error taxonomy. Callers branch with
// errors.Is; the wrapped *APIError keeps the backend's own wording.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrAuthExpired = errors.New("authentication expired")
	ErrConflict    = errors.New("conflict")
	ErrServer      = errors.New("server error")
	ErrNetwork     = errors.New("network error")
)

// APIError is a classified backend failure.
type APIError struct {
	Code       string
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s (%d)", e.Code, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// classifyResponse maps a non-2xx backend response onto the taxonomy.
// The backend raises its business-rule rejections (occupied unit, duplicate
// unit label, email already registered) as 400 and leaves 422 to payload
// validation, so 400 is conflict territory and 422 validation.
func classifyResponse(statusCode int, body []byte) *APIError {
	msg := parseDetail(body)

	switch {
	case statusCode == http.StatusUnauthorized:
		return &APIError{Code: utils.ErrCodeUnauthorized, StatusCode: statusCode, Message: msg, kind: ErrAuthExpired}
	case statusCode == http.StatusNotFound:
		return &APIError{Code: utils.ErrCodeNotFound, StatusCode: statusCode, Message: msg, kind: ErrNotFound}
	case statusCode == http.StatusBadRequest, statusCode == http.StatusForbidden:
		return &APIError{Code: utils.ErrCodeConflict, StatusCode: statusCode, Message: msg, kind: ErrConflict}
	case statusCode == http.StatusUnprocessableEntity:
		return &APIError{Code: utils.ErrCodeValidation, StatusCode: statusCode, Message: msg, kind: ErrValidation}
	default:
		return &APIError{Code: utils.ErrCodeInternal, StatusCode: statusCode, Message: msg, kind: ErrServer}
	}
}

// parseDetail extracts FastAPI-style `{"detail": ...}` bodies. Detail is a
// plain string for HTTPException and a structured array for 422s; either way
// the caller gets something printable.
func parseDetail(body []byte) string {
	var resp struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return string(body)
	}

	var s string
	if err := json.Unmarshal(resp.Detail, &s); err == nil {
		return s
	}
	return string(resp.Detail)
}
