package adapter

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by [ServerAdapter] implementations. Callers match
// them with errors.Is; the concrete value is usually a *ResponseError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("server unavailable")
	ErrUnexpectedStatus    = errors.New("unexpected status")

	// ErrTransport wraps failures below HTTP: refused connections, timeouts,
	// cancelled contexts.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed server response")
)

// ResponseError is a non-2xx answer of the vault server.
type ResponseError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the envelope message, or the raw body when the response was
	// not an envelope.
	Message string
	// Fields holds per-field messages keyed by wire field name. Filled for
	// validation failures and for conflicts on username or e-mail.
	Fields map[string]string

	sentinel error
}

func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s (http %d): %s", e.sentinel, e.Status, msg)
}

// Unwrap returns the sentinel matching Status.
func (e *ResponseError) Unwrap() error {
	return e.sentinel
}
