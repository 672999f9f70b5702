// Package pipeline runs one beer request end to end.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
	"github.com/kailas-cloud/brewmatch/internal/domain/recommendation"
	"github.com/kailas-cloud/brewmatch/internal/logger"
)

// Service chains extraction, candidate resolution and selection.
type Service struct {
	extractor   Extractor
	resolver    Resolver
	recommender Recommender
}

// New creates a Service.
func New(extractor Extractor, resolver Resolver, recommender Recommender) *Service {
	return &Service{extractor: extractor, resolver: resolver, recommender: recommender}
}

// FindBeer turns a free-text request into exactly one recommendation.
func (s *Service) FindBeer(ctx context.Context, requestText string) (recommendation.Recommendation, error) {
	if strings.TrimSpace(requestText) == "" {
		return recommendation.Recommendation{}, domain.ErrEmptyRequest
	}
	log := logger.FromContext(ctx)
	start := time.Now()

	filterText, err := s.extractor.ExtractFilter(ctx, requestText)
	if err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("find beer: %w", err)
	}

	records, err := s.resolver.ResolveCandidates(ctx, filterText)
	if err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("find beer: %w", err)
	}
	candidates := beer.ProjectAll(records)

	rec, err := s.recommender.Recommend(ctx, requestText, candidates)
	if err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("find beer: %w", err)
	}

	log.Info("Beer recommended",
		zap.String("name", rec.Name),
		zap.Int("candidates", len(candidates)),
		zap.Duration("took", time.Since(start)),
	)
	return rec, nil
}

// FindBeerJSON is FindBeer serialized as JSON text.
func (s *Service) FindBeerJSON(ctx context.Context, requestText string) ([]byte, error) {
	rec, err := s.FindBeer(ctx, requestText)
	if err != nil {
		return nil, err
	}
	b, err := rec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("find beer: %w", err)
	}
	return b, nil
}
