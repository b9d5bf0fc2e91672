package scriptrt

import (
	"errors"
	"fmt"
	"net/http"
)

// HostNotFoundError is returned by the dispatcher when the request's Host
// header does not match any registered virtual host.
type HostNotFoundError struct {
	Host string
}

func (e *HostNotFoundError) Error() string {
	return fmt.Sprintf("scriptrt: host not found: %q", e.Host)
}

// StatusCode implements statusCoder.
func (e *HostNotFoundError) StatusCode() int { return http.StatusNotFound }

// ChannelClosedError is delivered on a job's reply channel when the worker
// pool shut down before running the job: the job was submitted after
// shutdown began, or was still queued when it began.
type ChannelClosedError struct{}

func (e *ChannelClosedError) Error() string {
	return "scriptrt: worker pool shut down before a reply was delivered"
}

// StatusCode implements statusCoder.
func (e *ChannelClosedError) StatusCode() int { return http.StatusInternalServerError }

// statusCoder is implemented by every error kind in the §7 taxonomy,
// whichever package defines it (router, jsworker, or scriptrt itself) —
// this lets the dispatcher map errors to HTTP statuses without importing
// those packages' concrete error types and without string matching.
type statusCoder interface {
	StatusCode() int
}

// statusFor maps a recognized error to the HTTP status it surfaces as. The
// second return value is false for errors that don't implement statusCoder,
// which surface as 500.
func statusFor(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return http.StatusInternalServerError, false
}
