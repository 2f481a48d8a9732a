package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for upstream API calls.
var (
	ErrNotFound     = errors.New("api: not found")
	ErrConflict     = errors.New("api: conflict")
	ErrUnauthorized = errors.New("api: unauthorized")
	ErrBadRequest   = errors.New("api: bad request")
	ErrServer       = errors.New("api: server error")
	ErrEmptyBody    = errors.New("api: empty response body")
	ErrInvalidBody  = errors.New("api: invalid request body")
)

// alreadyFavorited is the message the backend uses to reject a duplicate
// favorite.
const alreadyFavorited = "Already favorited"

// Error wraps an upstream failure with request context.
type Error struct {
	Op      string
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api %s [%s %s] status=%d: %v", e.Op, e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("api %s [%s %s]: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusOf returns the upstream HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the upstream error message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
