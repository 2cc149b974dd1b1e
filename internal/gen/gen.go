// Package gen is the generation-service boundary: the executor hands a
// task prompt to a Generator and gets text back. Failures are task
// failures for the scheduler, never crashes.
package gen

import "context"

// Request is one generation call.
type Request struct {
	// Prompt is the task text to generate against.
	Prompt string
	// System is the optional system prompt framing the worker's role.
	System string
	// Model is the capability record name to run on. Empty uses the
	// generator's default.
	Model string
	// Temperature is the sampling temperature. Zero uses the default.
	Temperature float64
	// MaxTokens caps the output length. Zero uses the default.
	MaxTokens int
	// Category is the task category of the work being generated. It
	// feeds the quality scoring of the result.
	Category string
}

// Result is the outcome of one generation call.
type Result struct {
	// Text is the generated output.
	Text string
	// InputTokens and OutputTokens are the usage reported by the service.
	InputTokens  int64
	OutputTokens int64
	// QualityScore rates the generated output 0-1, scored against the
	// request's category; plan metrics aggregate it.
	QualityScore float64
}

// Generator executes generation requests. Implementations must be safe
// for concurrent use; the executor fans out one call per in-flight task.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
