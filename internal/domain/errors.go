// Package domain holds types shared across pipeline modules.
package domain

import "errors"

// FailureReason classifies expected pipeline failures so the HTTP layer can
// map them to transport status codes without string matching.
type FailureReason string

const (
	ReasonDataUnavailable     FailureReason = "data_unavailable"
	ReasonFilterExhausted     FailureReason = "filter_exhausted"
	ReasonInsufficientHistory FailureReason = "insufficient_history"
	ReasonOptimizationFailure FailureReason = "optimization_failure"
)

// PipelineError is the structured failure returned by pipeline stages for
// expected domain conditions (filter exhaustion, optimizer infeasibility,
// missing market data). Unexpected errors travel as plain wrapped errors.
type PipelineError struct {
	Reason  FailureReason
	Message string
}

// Error implements the error interface. The message is safe to surface to
// API callers verbatim.
func (e *PipelineError) Error() string {
	return e.Message
}

// NewPipelineError creates a tagged pipeline failure.
func NewPipelineError(reason FailureReason, message string) *PipelineError {
	return &PipelineError{Reason: reason, Message: message}
}

// AsPipelineError unwraps err into a PipelineError if it is one.
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
