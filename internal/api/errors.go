package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure coarsely, independent of transport detail.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindPrecondition Kind = "precondition"
	KindUnknown      Kind = "unknown"
)

// Error is the normalized failure returned by every client call.
// Status is zero when the request never reached the server.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Body    []byte
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Kind, e.Status)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two API errors by Kind, so callers can write
// errors.Is(err, api.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Comparison targets for errors.Is.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrTimeout      = &Error{Kind: KindTimeout}
	ErrPrecondition = &Error{Kind: KindPrecondition}
)

// ErrNoSession is returned by resource services called without an
// authenticated user. It never involves a network round trip.
var ErrNoSession = &Error{Kind: KindPrecondition, Message: "not authenticated; run 'readerctl login' first"}

// classify maps an HTTP status to an error Kind.
func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest || status == http.StatusConflict:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// AsError extracts the normalized *Error, wrapping foreign errors as unknown.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: KindUnknown, cause: err}
}
