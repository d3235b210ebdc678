package issue

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the issue model.
var (
	ErrParse      = errors.New("parse error")
	ErrOutOfRange = errors.New("value out of range")
)

// ParseError reports text that could not be turned into a value of the
// given kind (hash, type, priority, status, title, ...).
// It matches ErrParse with errors.Is.
type ParseError struct {
	Kind string
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Text, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrParse) succeed for every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
