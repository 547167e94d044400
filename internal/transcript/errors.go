package transcript

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is wrapped by every structural transcript failure.
	ErrMalformed = errors.New("malformed transcript")
	// ErrProtocolViolation is wrapped when a transcript uses a feature its ruleset forbids.
	ErrProtocolViolation = errors.New("protocol subset violation")
)

// HeaderTurn is the Turn value of errors that concern the header.
const HeaderTurn = -1

// ValidationError locates a structural problem.
type ValidationError struct {
	Turn   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Turn == HeaderTurn {
		return fmt.Sprintf("%v: header.%s: %s", ErrMalformed, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: turn %d %s: %s", ErrMalformed, e.Turn, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrMalformed }

// ProtocolError reports use of a feature outside the ruleset's subset.
type ProtocolError struct {
	Turn   int
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Turn == HeaderTurn {
		return fmt.Sprintf("%v: %s", ErrProtocolViolation, e.Reason)
	}
	return fmt.Sprintf("%v: turn %d: %s", ErrProtocolViolation, e.Turn, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return ErrProtocolViolation }

// Malformedf builds a *ValidationError.
func Malformedf(turn int, field, format string, args ...any) error {
	return &ValidationError{Turn: turn, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Violationf builds a *ProtocolError.
func Violationf(turn int, format string, args ...any) error {
	return &ProtocolError{Turn: turn, Reason: fmt.Sprintf(format, args...)}
}
