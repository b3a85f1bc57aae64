package pipeline

import (
	"errors"
	"fmt"
)

// Failure classes for a pipeline run. Authenticity classification failures
// never surface here: they are downgraded to a safe default inside the stage.
var (
	// ErrValidation rejects a run before any stage executes.
	ErrValidation = errors.New("invalid analysis request")
	// ErrUpstreamModel marks a fatal model-service failure from the analyst,
	// extractor or drafter. No decision row is written for the run.
	ErrUpstreamModel = errors.New("model service failure")
	// ErrPersistence marks a store write failure.
	ErrPersistence = errors.New("persistence failure")
)

// StageError wraps a fatal error with the stage that produced it so the
// server-side log can locate the failure by correlation id.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func upstreamErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %v", ErrUpstreamModel, err)}
}

func persistErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %v", ErrPersistence, err)}
}
