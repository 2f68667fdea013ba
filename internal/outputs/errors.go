package outputs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nulzo/hub-proxy/internal/hub"
)

// Machine-readable error kinds surfaced in response bodies.
const (
	KindInvalidRequest      = "invalid_request"
	KindNotFound            = "repository_not_found"
	KindUpstreamTimeout     = "upstream_timeout"
	KindUpstreamUnavailable = "upstream_unavailable"
	KindUpstreamError       = "upstream_error"
	KindMalformedUpstream   = "malformed_upstream_data"
	KindRateLimited         = "rate_limited"
	KindInternal            = "internal"
)

// Error is the HTTP-facing error shape. Handlers attach it to the gin context
// and the error middleware renders it.
type Error struct {
	Kind    string
	Code    int
	Message string

	// UpstreamStatus carries the upstream HTTP code for diagnostics when the
	// kind is upstream_error. Zero means not applicable.
	UpstreamStatus int

	// Log holds the original error for server-side logging only.
	Log error
}

func (e *Error) Error() string {
	return e.Message
}

// Retryable reports whether the caller may safely retry the request.
func (e *Error) Retryable() bool {
	return e.Kind == KindUpstreamTimeout || e.Kind == KindUpstreamUnavailable
}

// InvalidRequest creates a 400 for client-caused failures.
func InvalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Code: http.StatusBadRequest, Message: msg}
}

// NotFound creates a 404 for a repository the upstream does not know.
func NotFound(repoID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("repository %q not found", repoID),
	}
}

// UpstreamTimeout creates a retryable 503.
func UpstreamTimeout() *Error {
	return &Error{
		Kind:    KindUpstreamTimeout,
		Code:    http.StatusServiceUnavailable,
		Message: "upstream catalog did not respond in time",
	}
}

// UpstreamUnavailable creates a retryable 503.
func UpstreamUnavailable(err error) *Error {
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Code:    http.StatusServiceUnavailable,
		Message: "upstream catalog is unreachable",
		Log:     err,
	}
}

// UpstreamFailure creates a 502 echoing the unexpected upstream status.
func UpstreamFailure(status int, err error) *Error {
	return &Error{
		Kind:           KindUpstreamError,
		Code:           http.StatusBadGateway,
		Message:        fmt.Sprintf("upstream catalog returned status %d", status),
		UpstreamStatus: status,
		Log:            err,
	}
}

// MalformedUpstream creates a 502 for responses that violated the upstream
// contract. This is not a local bug.
func MalformedUpstream(err error) *Error {
	return &Error{
		Kind:    KindMalformedUpstream,
		Code:    http.StatusBadGateway,
		Message: "upstream catalog returned malformed data",
		Log:     err,
	}
}

// RateLimited creates a 429 for callers exceeding their request budget.
func RateLimited() *Error {
	return &Error{
		Kind:    KindRateLimited,
		Code:    http.StatusTooManyRequests,
		Message: "rate limit exceeded",
	}
}

// Internal creates a 500 catch-all.
func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: "an unexpected error occurred",
		Log:     err,
	}
}

// FromClientError maps a hub client failure to the HTTP error taxonomy.
func FromClientError(repoID string, err error) *Error {
	switch {
	case errors.Is(err, hub.ErrNotFound):
		return NotFound(repoID)
	case errors.Is(err, hub.ErrTimeout):
		return UpstreamTimeout()
	case errors.Is(err, hub.ErrUnavailable):
		return UpstreamUnavailable(err)
	}

	var se *hub.StatusError
	if errors.As(err, &se) {
		return UpstreamFailure(se.Status, err)
	}

	return Internal(err)
}
