package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so handlers can map them to
// response codes without string matching.
type ErrorKind int

const (
	KindValidation  ErrorKind = iota // malformed or out-of-range input
	KindNotFound                     // referenced record does not exist
	KindConflict                     // operation incompatible with current status
	KindUnavailable                  // store or ledger gateway unreachable
)

// Error is the service-layer error type. Every failure surfaced by the
// credit services is one of these.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Msg: resource + " not found"}
}

func conflictError(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func unavailableError(op string, err error) *Error {
	return &Error{Kind: KindUnavailable, Msg: op + " failed", Err: err}
}

// KindOf reports the kind of a service error; unknown errors are treated
// as dependency failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

func IsValidation(err error) bool  { return isKind(err, KindValidation) }
func IsNotFound(err error) bool    { return isKind(err, KindNotFound) }
func IsConflict(err error) bool    { return isKind(err, KindConflict) }
func IsUnavailable(err error) bool { return isKind(err, KindUnavailable) }

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
