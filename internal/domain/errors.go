package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ValidationError rejects malformed or policy-violating input before any
// mutation. Reported to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError signals concurrent-write contention (insufficient fractions,
// stale highest bid). The caller retries with refreshed state; the service
// never retries on its own.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UpstreamUnavailable wraps a Data API or estimator failure. Read paths
// degrade instead of propagating it; write paths surface it.
type UpstreamUnavailable struct {
	Op  string
	Err error
}

func (e *UpstreamUnavailable) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Op, e.Err)
}

func (e *UpstreamUnavailable) Unwrap() error { return e.Err }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsUpstreamUnavailable(err error) bool {
	var ue *UpstreamUnavailable
	return errors.As(err, &ue)
}

// Warning codes surfaced alongside best-effort results.
const (
	WarnConsistency       = "consistency"
	WarnValuationDegraded = "valuation_degraded"
)

// Warning is a non-fatal derived-data anomaly attached to a result.
type Warning struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	ArtworkID uuid.UUID `json:"artwork_id,omitempty"`
}
