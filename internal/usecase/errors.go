package usecase

import (
	"errors"
	"fmt"

	"cinema-tickets/pkg/utils"
)

// Service-level error taxonomy. Every failure path is distinguishable from
// success and from every other failure with errors.Is / errors.As, so the
// adaptor layer can pick the retry-vs-surface behavior programmatically.

// ErrPreconditionFailed signals a stale signature token. The caller must
// re-read the entity and retry with a fresh token.
var ErrPreconditionFailed = errors.New("precondition failed: stale signature")

// ErrReferencedByTicket blocks deleting an account or showing that at least
// one surviving ticket still references.
var ErrReferencedByTicket = errors.New("referenced by at least one ticket")

// ErrAlreadyGranted is returned when granting a role the account already holds.
var ErrAlreadyGranted = errors.New("role already granted")

// ErrNotGranted is returned when revoking a role the account does not hold.
var ErrNotGranted = errors.New("role not granted")

// ValidationError reports malformed input, field by field. It is a client
// error and is never retried automatically.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", utils.FormatValidationErrors(e.Fields))
}

func newValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// RejectReason narrows a booking rejection.
type RejectReason string

const (
	RejectClientNotFound   RejectReason = "client not found"
	RejectClientInactive   RejectReason = "client inactive"
	RejectShowingNotFound  RejectReason = "showing not found"
	RejectNoSeatsAvailable RejectReason = "no seats available"
	RejectInvalidShowTime  RejectReason = "invalid show time"
)

// RejectedError is a non-retryable business rejection from the booking engine.
type RejectedError struct {
	Reason RejectReason
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("booking rejected: %s", e.Reason)
}

func rejected(reason RejectReason) *RejectedError {
	return &RejectedError{Reason: reason}
}
