package models

import (
	"errors"
	"fmt"
)

// Error kinds shared by every engine
var (
	ErrAccessDenied           = errors.New("access denied")
	ErrNotFound               = errors.New("not found")
	ErrProtectedTarget        = errors.New("protected system path")
	ErrToolUnavailable        = errors.New("external tool unavailable")
	ErrIndeterminate          = errors.New("state could not be determined")
	ErrTerminationUnconfirmed = errors.New("termination requested but not confirmed")
)

// OpError describes a failed operation on a target
type OpError struct {
	Op     string // operation name, e.g. "quarantine"
	Target string // path, pid or key
	Kind   error  // one of the Err* kinds, may be nil
	Err    error  // underlying cause, may be nil
}

func (e *OpError) Error() string {
	msg := e.Op + " " + e.Target
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

// Is matches the error kind so callers can use errors.Is(err, ErrNotFound)
func (e *OpError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// NewOpError builds an OpError
func NewOpError(op, target string, kind, err error) *OpError {
	return &OpError{Op: op, Target: target, Kind: kind, Err: err}
}

// Errorf builds an OpError with a formatted cause
func Errorf(op, target string, kind error, format string, args ...any) *OpError {
	return &OpError{Op: op, Target: target, Kind: kind, Err: fmt.Errorf(format, args...)}
}
