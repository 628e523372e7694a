package paging

import (
	"fmt"

	"github.com/friendsofgo/errors"
)

// Done is returned by Sequence.Next once the sequence is exhausted.
// Exhaustion is terminal: every later call returns Done again.
//
// Callers compare with errors.Is:
//
//	item, err := seq.Next(ctx)
//	if errors.Is(err, paging.Done) {
//	    return nil
//	}
var Done = errors.New("paging: no more items")

// ErrInvalidParameter is the sentinel wrapped by every ParameterError.
var ErrInvalidParameter = errors.New("paging: invalid parameter")

// ParameterError reports a bad argument detected while constructing a
// sequence, before any fetch is issued.
type ParameterError struct {
	// Name of the offending parameter (e.g. "limit", "size").
	Name string

	// Reason describes what was wrong with it.
	Reason string
}

// NewParameterError builds a ParameterError for the named parameter.
func NewParameterError(name, format string, args ...any) error {
	return &ParameterError{Name: name, Reason: fmt.Sprintf(format, args...)}
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Name, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidParameter) match.
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// IsParameterError reports whether err is, or wraps, a ParameterError.
func IsParameterError(err error) bool {
	var pe *ParameterError
	return errors.As(err, &pe)
}
