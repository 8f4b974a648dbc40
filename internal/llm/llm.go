// Package llm sends design goals to model providers and returns their raw
// responses.
//
// Providers do no parsing of their own. Model output is returned verbatim
// and the formula package decides what, if anything, it contains. The
// pipeline consults every configured provider twice: once to suggest
// candidate formulas for a goal, and once to screen the pooled candidates
// against the same goal.
package llm

import "context"

// Provider is one model backend consulted by the pipeline.
type Provider interface {
	// Name identifies the provider in reports and progress events.
	Name() string

	// Suggest asks the model to propose candidate formulas for a design goal
	// and returns the raw response text.
	Suggest(ctx context.Context, goal string) (string, error)

	// Evaluate asks the model which of the given formulas comply with the
	// design goal and returns the raw response text.
	Evaluate(ctx context.Context, formulas []string, goal string) (string, error)
}
