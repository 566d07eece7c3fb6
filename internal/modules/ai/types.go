package ai

import (
	"context"
	"fmt"
)

// GenerateOptions carries the full sampling surface for one generation call.
type GenerateOptions struct {
	Temperature      float64
	TopP             float64
	MaxTokens        int
	FrequencyPenalty float64
	PresencePenalty  float64
}

// Generator is the narrow text-generation dependency the pipeline consumes.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// GenerateError is a typed transport/provider failure. It propagates up to
// the job layer so retries and alerts are possible instead of being
// swallowed inside a pipeline stage.
type GenerateError struct {
	Provider string
	Err      error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("ai generation failed (provider %s): %v", e.Provider, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }
