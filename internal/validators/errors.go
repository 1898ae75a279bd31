package validators

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
	ErrValidation      = errors.New("validation failed")
)

// FieldErrors collects the messages of every field that failed validation.
// It unwraps to ErrValidation.
type FieldErrors struct {
	Fields map[string]string
}

// Add records msg for field. The first message recorded for a field wins.
func (e *FieldErrors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty reports whether no field failed.
func (e *FieldErrors) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Error lists the failed fields in name order.
func (e *FieldErrors) Error() string {
	if e.Empty() {
		return ErrValidation.Error()
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	b.WriteString(": ")
	for i, name := range names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(e.Fields[name])
	}
	return b.String()
}

func (e *FieldErrors) Unwrap() error {
	return ErrValidation
}

// err returns e as an error, or nil when nothing failed.
func (e *FieldErrors) err() error {
	if e.Empty() {
		return nil
	}
	return e
}
