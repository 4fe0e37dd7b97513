package dto

import "net/http"

// Error codes emitted by the HTTP layer itself. Domain error codes are
// defined next to the domain errors in domain/shared.
const (
	// ErrCodeBadRequest is used for malformed or unbindable requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Keys cover both
// the domain error codes and the HTTP-layer codes above.
var errorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":                   http.StatusNotFound,
	"ALREADY_EXISTS":              http.StatusConflict,
	"VALIDATION_ERROR":            http.StatusBadRequest,
	"CONFLICT":                    http.StatusConflict,
	"UNAUTHORIZED":                http.StatusUnauthorized,
	"FORBIDDEN":                   http.StatusForbidden,
	"ILLEGAL_TRANSITION":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":          http.StatusUnprocessableEntity,
	"DEPENDENT_CHILDREN_EXIST":    http.StatusConflict,
	"EXTERNAL_DEPENDENCY_FAILURE": http.StatusBadGateway,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
