package recommend

import "context"

// Caller sends a prompt to the chat model with retry.
type Caller interface {
	Call(ctx context.Context, prompt string, temperature float32) (string, error)
}
