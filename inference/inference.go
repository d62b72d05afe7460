// Package inference defines the sole conduit to the language-model backend.
//
// The Client interface exposes blocking and incremental completion against an
// opaque provider; implementations live in the groq and anthropic subpackages.
// The orchestration core treats the backend as a black box reachable only
// through these two operations.
package inference

import (
	"context"
	"fmt"
)

// Client is the minimal interface the agent stages use to drive generation.
type Client interface {
	// Complete performs blocking whole-response generation. It fails with
	// *InferenceError on transport failure, a non-success backend status or an
	// empty response. Temperature is in [0, 2] and passed through unmodified.
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)

	// CompleteStream produces a lazy, finite, non-restartable sequence of
	// incremental text fragments in delivery order. The concatenation of all
	// fragments equals what Complete would have returned for the same prompt.
	// The fragment channel is closed when the stream ends; at most one error
	// is delivered on the error channel. Cancelling ctx aborts the stream and
	// releases the underlying connection.
	CompleteStream(ctx context.Context, prompt string, temperature float64) (<-chan string, <-chan error)

	// Provider returns the backend identifier ("groq", "anthropic", "mock").
	Provider() string
}

// InferenceError reports a failed model call: backend unreachable, non-success
// status or an unusable (empty) response. It is the only error kind that is
// fatal to a whole request.
type InferenceError struct {
	Provider string // Backend identifier
	Message  string // Human-readable cause
	Err      error  // Underlying error, if any
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference error (%s): %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("inference error (%s): %s", e.Provider, e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *InferenceError) Unwrap() error { return e.Err }

// NewInferenceError creates an InferenceError for the given provider.
func NewInferenceError(provider, message string, err error) *InferenceError {
	return &InferenceError{Provider: provider, Message: message, Err: err}
}
