package lifecycle

import "fmt"

// PhaseErrorKind enumerates structured phase error categories.
type PhaseErrorKind string

const (
	PhaseErrorFatal    PhaseErrorKind = "fatal"    // Run must abort.
	PhaseErrorWarning  PhaseErrorKind = "warning"  // Non-fatal; record and continue.
	PhaseErrorCanceled PhaseErrorKind = "canceled" // Context cancellation.
)

// PhaseError is a structured error carrying category and underlying cause.
type PhaseError struct {
	Kind  PhaseErrorKind
	Phase PhaseName
	Err   error
}

func (e *PhaseError) Error() string { return fmt.Sprintf("%s phase %s: %v", e.Kind, e.Phase, e.Err) }
func (e *PhaseError) Unwrap() error { return e.Err }

// Helpers to classify errors.
func NewFatal(phase PhaseName, err error) *PhaseError {
	return &PhaseError{Kind: PhaseErrorFatal, Phase: phase, Err: err}
}
func NewWarning(phase PhaseName, err error) *PhaseError {
	return &PhaseError{Kind: PhaseErrorWarning, Phase: phase, Err: err}
}
func newCanceled(phase PhaseName, err error) *PhaseError {
	return &PhaseError{Kind: PhaseErrorCanceled, Phase: phase, Err: err}
}
