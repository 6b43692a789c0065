package utils

// Error codes shared between the core packages and anything rendering them.
// The backend speaks FastAPI-style `{"detail": "..."}` bodies; these codes are
// the client-side classification of those responses.
const (
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeValidation     = "validation_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeNetwork        = "network_error"
	ErrCodeInternal       = "internal_server_error"
)
