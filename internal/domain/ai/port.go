package ai

import "context"

// Client interprets a natural-language question about a dataset whose
// profile text is supplied, returning a JSON interpretation.
type Client interface {
	Interpret(ctx context.Context, question, profile string) (string, error)
}
