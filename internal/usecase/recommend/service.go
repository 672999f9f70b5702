// Package recommend asks the model to choose one beer from the candidates.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
	"github.com/kailas-cloud/brewmatch/internal/domain/recommendation"
	"github.com/kailas-cloud/brewmatch/internal/logger"
	"github.com/kailas-cloud/brewmatch/internal/prompt"
)

// DefaultTemperature leaves the model some room for the recommendation text.
const DefaultTemperature float32 = 0.5

// Recommender picks a single beer and writes the recommendation.
type Recommender struct {
	caller      Caller
	temperature float32
	logger      *zap.Logger
}

// New creates a Recommender.
func New(caller Caller, logger *zap.Logger) *Recommender {
	return &Recommender{caller: caller, temperature: DefaultTemperature, logger: logger}
}

// WithTemperature overrides the sampling temperature.
func (r *Recommender) WithTemperature(t float32) *Recommender {
	r.temperature = t
	return r
}

// Recommend selects exactly one of candidates for requestText.
func (r *Recommender) Recommend(
	ctx context.Context, requestText string, candidates []beer.Projected,
) (recommendation.Recommendation, error) {
	if len(candidates) == 0 {
		return recommendation.Recommendation{}, domain.ErrNoCandidates
	}

	p, err := prompt.Selection(requestText, candidates)
	if err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("build selection prompt: %w", err)
	}

	out, err := r.caller.Call(ctx, p, r.temperature)
	if err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("select beer: %w", err)
	}

	log := logger.FromContextOr(ctx, r.logger)

	rec, err := recommendation.Parse(out)
	if err != nil {
		log.Warn("Model returned an unusable recommendation",
			zap.String("output", out),
			zap.Error(err),
		)
		return recommendation.Recommendation{}, fmt.Errorf("%w: %w", domain.ErrMalformedRecommendation, err)
	}

	log.Info("Beer selected",
		zap.String("name", rec.Name),
		zap.Int("candidates", len(candidates)),
	)
	return rec.Complete(candidates), nil
}
