package shopapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("shop api unavailable")
	ErrEmptyID     = errors.New("empty id")

	// errCallerGone marks requests the caller abandoned.
	errCallerGone = errors.New("caller gone")
)

// APIError is a request the remote API answered but refused.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("shop api %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("shop api %s: status %d: %s", e.Op, e.Status, e.Message)
}

// Temporary reports whether the failure is on the remote side.
func (e *APIError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError
}

// IsNotFound reports whether err is a 404 from the remote API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
