package domain

import "context"

// ChatModel is the shared chat completion contract between layers.
type ChatModel interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResult, error)
}

// HealthChecker verifies availability of an external dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ChatRequest is a single-turn prompt sent to the chat model.
type ChatRequest struct {
	Prompt      string
	Temperature float32
}

// ChatResult carries the text of the single response choice and its token usage.
type ChatResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
