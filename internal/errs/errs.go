// Package errs holds the failure kinds shared by repositories and the mapper.
//
// Not-found is never an error here: single-entity lookups return a nil result.
package errs

import (
	"errors"
	"fmt"
)

// InvalidStateError is a local precondition violation detected before any
// storage call completes (missing identifier, update target absent).
type InvalidStateError struct {
	Op  string
	Msg string
	// Missing is set when the precondition failed because the target record does not exist.
	Missing bool
}

func (e *InvalidStateError) Error() string {
	if e.Op == "" {
		return e.Msg
	}
	return e.Op + ": " + e.Msg
}

// InvalidState builds an *InvalidStateError with a formatted message.
func InvalidState(op, format string, args ...any) *InvalidStateError {
	return &InvalidStateError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Missing builds an *InvalidStateError for an absent target record.
func Missing(op, format string, args ...any) *InvalidStateError {
	e := InvalidState(op, format, args...)
	e.Missing = true
	return e
}

// MappingError reports a domain/storage conversion that could not be done.
type MappingError struct {
	From  string
	To    string
	Cause error
}

func (e *MappingError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("mapping %s -> %s", e.From, e.To)
	}
	return fmt.Sprintf("mapping %s -> %s: %v", e.From, e.To, e.Cause)
}

func (e *MappingError) Unwrap() error { return e.Cause }

// TechnicalError wraps any failure coming from the storage layer. The
// original cause stays reachable through errors.Unwrap.
type TechnicalError struct {
	Op    string
	Msg   string
	Cause error
}

func (e *TechnicalError) Error() string {
	s := e.Msg
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *TechnicalError) Unwrap() error { return e.Cause }

// Technical wraps cause. A cause that already is a *TechnicalError is returned as is.
func Technical(op, msg string, cause error) error {
	var te *TechnicalError
	if errors.As(cause, &te) {
		return cause
	}
	return &TechnicalError{Op: op, Msg: msg, Cause: cause}
}

func IsInvalidState(err error) bool {
	var e *InvalidStateError
	return errors.As(err, &e)
}

func IsMapping(err error) bool {
	var e *MappingError
	return errors.As(err, &e)
}

func IsTechnical(err error) bool {
	var e *TechnicalError
	return errors.As(err, &e)
}
