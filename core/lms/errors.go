package lms

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by every operation when credentials are absent.
	ErrNotConfigured = errors.New("lms: not configured")
	// ErrNotFound is returned when a lookup matched nothing.
	ErrNotFound = errors.New("lms: not found")
	// ErrUnavailable is returned when a point lookup yields no usable data.
	ErrUnavailable = errors.New("lms: data unavailable")
	// ErrRejected is returned when the LMS answers a mutation with a failure envelope.
	ErrRejected = errors.New("lms: request rejected")
	// ErrPageLimit marks pagination stopped by the MaxPages safety bound.
	ErrPageLimit = errors.New("lms: page limit reached")
)

// StatusError reports a non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lms: HTTP %d: %s", e.StatusCode, e.Body)
}
