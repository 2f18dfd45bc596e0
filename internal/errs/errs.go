package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers translate into HTTP status codes.
var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrMovementNotFound = errors.New("movement not found")

	// ErrInsufficientStock is returned when approving an outbound movement
	// would drive the on-hand level of the part below zero.
	ErrInsufficientStock = errors.New("insufficient stock remaining")

	// ErrInconsistentState marks a legacy remarks value that carries neither
	// a [PENDING] nor an [APPROVED] tag. Such rows must never be counted.
	ErrInconsistentState = errors.New("remarks carry no lifecycle tag")
)

// ValidationError reports a request field that failed validation before any
// statement was issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConnectivityError wraps a failure to reach the database so callers can tell
// it apart from domain errors. The driver error stays available via Unwrap.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("database unreachable during %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Connectivity wraps err as a ConnectivityError.
func Connectivity(op string, err error) error {
	return &ConnectivityError{Op: op, Err: err}
}
