package domain

import (
	"context"
	"errors"
	"fmt"
)

// Engine error kinds. Callers match them with errors.Is; services wrap them
// in an OperationError that carries the operation and offending parameter.
var (
	// ErrInvalidArgument indicates malformed or out-of-range parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates a referenced document is absent.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData indicates fewer documents than the operation needs.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrTooManyDocuments indicates the corpus-size ceiling was exceeded.
	ErrTooManyDocuments = errors.New("too many documents")

	// ErrCancelled indicates the operation honoured a cancellation signal.
	ErrCancelled = errors.New("cancelled")

	// ErrUpstreamUnavailable indicates the document store failed or timed out.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidInput indicates malformed input to an adapter (e.g. a normaliser).
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document format.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Error codes reported across adapter boundaries.
const (
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientData    = "INSUFFICIENT_DATA"
	CodeTooManyDocuments    = "TOO_MANY_DOCUMENTS"
	CodeCancelled           = "CANCELLED"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

// OperationError describes a failed engine operation.
type OperationError struct {
	// Op is the operation name (e.g. "build_knowledge_graph").
	Op string

	// Kind is one of the sentinel errors above.
	Kind error

	// Param names the offending parameter or identifier, if any.
	Param string

	// Value is the offending value rendered as a string, if any.
	Value string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *OperationError) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Param != "" {
		if e.Value != "" {
			msg += fmt.Sprintf(" (%s=%q)", e.Param, e.Value)
		} else {
			msg += fmt.Sprintf(" (%s)", e.Param)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *OperationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewOpError builds an OperationError.
func NewOpError(op string, kind error, param, value string, cause error) *OperationError {
	return &OperationError{Op: op, Kind: kind, Param: param, Value: value, Err: cause}
}

// InvalidArgument is shorthand for an ErrInvalidArgument OperationError.
func InvalidArgument(op, param, value, reason string) *OperationError {
	var cause error
	if reason != "" {
		cause = errors.New(reason)
	}
	return NewOpError(op, ErrInvalidArgument, param, value, cause)
}

// CancelledError converts a context error into an ErrCancelled OperationError.
func CancelledError(op string, ctxErr error) *OperationError {
	return NewOpError(op, ErrCancelled, "", "", ctxErr)
}

// IsContextError reports whether err stems from context cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ErrorCode maps an error to its stable code.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidInput):
		return CodeInvalidArgument
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInsufficientData):
		return CodeInsufficientData
	case errors.Is(err, ErrTooManyDocuments):
		return CodeTooManyDocuments
	case errors.Is(err, ErrCancelled), IsContextError(err):
		return CodeCancelled
	case errors.Is(err, ErrUpstreamUnavailable):
		return CodeUpstreamUnavailable
	default:
		return CodeInternal
	}
}
