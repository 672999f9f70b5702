package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/domain/attribute"
	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
	"github.com/kailas-cloud/brewmatch/internal/logger"
	"github.com/kailas-cloud/brewmatch/internal/metrics"
)

// MaxRounds bounds query round-trips: one per schema attribute plus the empty filter.
var MaxRounds = attribute.Len() + 1

// Resolver relaxes a filter one attribute at a time until the catalog returns candidates.
type Resolver struct {
	executor *Executor
	logger   *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(executor *Executor, logger *zap.Logger) *Resolver {
	return &Resolver{executor: executor, logger: logger}
}

// ResolveCandidates queries with the initial filter text and, while nothing matches,
// removes the highest-priority remaining attribute and queries again.
// An emptied filter falls back to a random sample. Returns domain.ErrCatalogExhausted
// if MaxRounds queries produce nothing.
func (r *Resolver) ResolveCandidates(ctx context.Context, filterText string) ([]beer.Record, error) {
	log := logger.FromContextOr(ctx, r.logger)
	parsed := r.executor.parse(ctx, filterText)
	f := parsed.Filter

	records, err := r.executor.QueryParsed(ctx, parsed)
	if err != nil {
		return nil, err
	}

	rounds := 1
	for len(records) == 0 {
		if rounds >= MaxRounds {
			log.Error("No candidates after relaxing every attribute", zap.Int("rounds", rounds))
			return nil, fmt.Errorf("%d query rounds: %w", rounds, domain.ErrCatalogExhausted)
		}

		relaxed, removed, ok := f.Relax()
		if ok {
			log.Info("No beers matched, relaxing filter",
				zap.String("removed", string(removed)),
				zap.Stringer("filter", relaxed),
			)
		}
		f = relaxed

		records, err = r.executor.QueryFilter(ctx, f)
		if err != nil {
			return nil, err
		}
		rounds++
	}

	metrics.RelaxationSteps.Observe(float64(rounds - 1))
	return records, nil
}
