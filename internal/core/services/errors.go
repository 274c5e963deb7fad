package services

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// kinds lists the sentinel errors in match order.
var kinds = []error{
	domain.ErrInvalidArgument,
	domain.ErrNotFound,
	domain.ErrInsufficientData,
	domain.ErrTooManyDocuments,
	domain.ErrCancelled,
	domain.ErrUpstreamUnavailable,
}

// wrap converts err into an OperationError for op. Errors that already are
// OperationErrors pass through unchanged; context errors become ErrCancelled.
// Errors of no known kind are wrapped with the operation name only.
func wrap(op, param, value string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *domain.OperationError
	if errors.As(err, &opErr) {
		return err
	}
	if domain.IsContextError(err) && !errors.Is(err, domain.ErrCancelled) {
		return domain.CancelledError(op, err)
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return domain.NewOpError(op, kind, param, value, err)
		}
	}
	if errors.Is(err, domain.ErrInvalidSettings) {
		return domain.NewOpError(op, domain.ErrInvalidArgument, "settings", "", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// invalid builds an ErrInvalidArgument OperationError.
func invalid(op, param string, value any, reason string) error {
	return domain.InvalidArgument(op, param, fmt.Sprint(value), reason)
}

// upstream converts a store failure: context errors become ErrCancelled and
// anything else ErrUpstreamUnavailable.
func upstream(op, param, value string, err error) error {
	if domain.IsContextError(err) || errors.Is(err, domain.ErrCancelled) {
		return domain.CancelledError(op, err)
	}
	return domain.NewOpError(op, domain.ErrUpstreamUnavailable, param, value, err)
}
