package pipeline

import (
	"context"

	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
	"github.com/kailas-cloud/brewmatch/internal/domain/recommendation"
)

// Extractor interprets a request as untrusted filter text.
type Extractor interface {
	ExtractFilter(ctx context.Context, requestText string) (string, error)
}

// Resolver finds a nonempty candidate list for filter text.
type Resolver interface {
	ResolveCandidates(ctx context.Context, filterText string) ([]beer.Record, error)
}

// Recommender picks one candidate.
type Recommender interface {
	Recommend(ctx context.Context, requestText string, candidates []beer.Projected) (recommendation.Recommendation, error)
}
