package helper

import (
	"errors"
	"fmt"
	"strings"
)

// Error wraps an original error with the trace of contexts it passed through.
type Error struct {
	Original error
	Trace    []string
}

// NewError wraps err with the given context. If err already is an Error,
// the context is appended to its trace instead of nesting a new one.
func NewError(context string, err error) error {
	var existing *Error
	if errors.As(err, &existing) {
		trace := make([]string, 0, len(existing.Trace)+1)
		trace = append(trace, existing.Trace...)
		trace = append(trace, context)
		return &Error{Original: existing.Original, Trace: trace}
	}
	return &Error{Original: err, Trace: []string{context}}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", strings.Join(e.Trace, ": "), e.Original)
}

// Unwrap returns the original error so errors.Is and errors.As work.
func (e *Error) Unwrap() error {
	return e.Original
}
