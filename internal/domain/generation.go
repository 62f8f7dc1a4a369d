package domain

import "context"

// Generator is the text generation contract: one system instruction plus one
// user message in, the first completion's text out.
type Generator interface {
	Complete(ctx context.Context, system, user string) (GenerationResult, error)
}

// GenerationResult carries the generated text and token usage.
type GenerationResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
