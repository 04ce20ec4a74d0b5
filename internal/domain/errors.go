package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that carry their own HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidMove        = errors.New("invalid move")
	ErrDepthLimitExceeded = errors.New("depth limit exceeded")
)

// ConflictError represents a naming conflict with details about the existing resource.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Code returns the stable machine-readable code for err, used in problem
// responses so clients don't have to parse messages.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidMove):
		return "invalid_move"
	case errors.Is(err, ErrDepthLimitExceeded):
		return "depth_limit_exceeded"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	default:
		return "internal"
	}
}
