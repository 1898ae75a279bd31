package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds returned by the client services. Every error returned to a
// consumer matches exactly one of the first six with errors.Is.
var (
	// ErrValidation means the input was rejected, locally or by the server.
	ErrValidation = errors.New("validation failed")
	// ErrAuth means the session is no longer valid. The session has been
	// invalidated by the time the caller sees it.
	ErrAuth = errors.New("authentication required")
	// ErrConflict means the server refused because of a uniqueness clash.
	ErrConflict = errors.New("conflict")
	// ErrNotFound means the item does not exist or is not visible.
	ErrNotFound = errors.New("item not found")
	// ErrNetwork means the server could not be reached in time.
	ErrNetwork = errors.New("network error")
	// ErrServer means the server failed or answered unexpectedly.
	ErrServer = errors.New("server error")

	ErrAlreadyBootstrapped = errors.New("session already bootstrapped")
	ErrNotBootstrapped     = errors.New("session not bootstrapped yet")
	ErrAuthInProgress      = errors.New("authentication already in progress")
	ErrNotAuthenticated    = errors.New("not signed in")
)

// FieldError is an ErrValidation or ErrConflict carrying per-field messages
// keyed by wire field name.
type FieldError struct {
	Kind   error
	Fields map[string]string

	cause error
}

func newFieldError(kind error, fields map[string]string, cause error) *FieldError {
	return &FieldError{Kind: kind, Fields: fields, cause: cause}
}

func (e *FieldError) Error() string {
	if len(e.Fields) == 0 {
		if e.cause != nil {
			return fmt.Sprintf("%s: %s", e.Kind, e.cause)
		}
		return e.Kind.Error()
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, "; "))
}

// Unwrap exposes both the kind and the underlying cause.
func (e *FieldError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.cause}
}

// Field returns the message recorded for field.
func (e *FieldError) Field(name string) (string, bool) {
	msg, ok := e.Fields[name]
	return msg, ok
}
