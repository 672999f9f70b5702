package completion

import (
	"context"

	"github.com/kailas-cloud/brewmatch/internal/domain"
)

// Model is the chat capability the caller retries.
type Model interface {
	Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error)
}
