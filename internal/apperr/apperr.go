// Package apperr defines the status-bearing application error returned when
// a failure should surface to HTTP clients with a specific status code.
//
// An Error pairs a human-readable message with a numeric status code. It is
// built once where the failure is detected and never mutated afterwards;
// WithCause returns a copy. Handlers render it through the standard error
// envelope (see handlers.writeError).
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Kind suffixes appended to the joined context labels.
const (
	KindNotFound      = "Not Found"
	KindRequestFailed = "Request Failed"
)

// labelSep joins context labels, e.g. "ATS / Candidates".
const labelSep = " / "

// Error is an immutable message + status code pair.
type Error struct {
	message    string
	statusCode int
	cause      error
}

// New returns an Error with the given status code and message.
func New(statusCode int, message string) *Error {
	return &Error{message: message, statusCode: statusCode}
}

// NotFound builds a 404 error whose message is the labels joined with " / "
// (see JoinLabels) followed by ": Not Found".
func NotFound(labels ...string) *Error {
	return New(http.StatusNotFound, Message(KindNotFound, labels...))
}

// RequestFailed builds a 500 error whose message is the labels joined with
// " / " (see JoinLabels) followed by ": Request Failed".
func RequestFailed(labels ...string) *Error {
	return New(http.StatusInternalServerError, Message(KindRequestFailed, labels...))
}

// Message formats "<label / label>: <kind>". Without labels it returns kind.
func Message(kind string, labels ...string) string {
	joined := JoinLabels(labels...)
	if joined == "" {
		return kind
	}
	return joined + ": " + kind
}

// JoinLabels joins labels with " / ". Each label is trimmed of surrounding
// whitespace and blank labels are dropped, so an optional label (an empty id,
// say) never yields "ATS /  / Jobs".
func JoinLabels(labels ...string) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, labelSep)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

// Message returns the human-readable message without the cause.
func (e *Error) Message() string { return e.message }

// StatusCode returns the HTTP status code carried by the error.
func (e *Error) StatusCode() int { return e.statusCode }

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// WithCause returns a copy of e carrying cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

// IsNotFound reports whether err carries a 404 application error.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the status code of the *Error in err's chain, or 500 when
// err carries none. A nil err yields 200.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if ae, ok := As(err); ok {
		return ae.statusCode
	}
	return http.StatusInternalServerError
}
