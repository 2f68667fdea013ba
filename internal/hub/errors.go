package hub

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates the upstream call exceeded the configured budget.
	ErrTimeout = errors.New("upstream request timed out")

	// ErrUnavailable indicates the upstream could not be reached at all
	// (connection refused, DNS failure, TLS failure).
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrNotFound indicates the upstream does not know the requested repository.
	ErrNotFound = errors.New("repository not found")
)

// StatusError represents an unexpected non-2xx response from the upstream catalog.
type StatusError struct {
	Status int
	Body   []byte
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.Status, e.URL)
}
