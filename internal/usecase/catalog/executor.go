// Package catalog queries the beer catalog with a structured filter and relaxes it until
// candidates are found.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
	"github.com/kailas-cloud/brewmatch/internal/domain/filter"
	"github.com/kailas-cloud/brewmatch/internal/logger"
	"github.com/kailas-cloud/brewmatch/internal/metrics"
)

// DefaultRandomSampleSize is the number of random picks in a fallback sample.
const DefaultRandomSampleSize = 3

// Fallback reasons, used as metric labels and log fields.
const (
	reasonMalformed = "malformed_filter"
	reasonEmpty     = "empty_filter"
	reasonCatalog   = "catalog_error"
)

// Executor turns filters into catalog queries and falls back to a random sample.
type Executor struct {
	catalog    Catalog
	sampleSize int
	logger     *zap.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(catalog Catalog, logger *zap.Logger) *Executor {
	return &Executor{catalog: catalog, sampleSize: DefaultRandomSampleSize, logger: logger}
}

// WithSampleSize overrides the number of random picks. Non-positive values keep the default.
func (e *Executor) WithSampleSize(n int) *Executor {
	if n > 0 {
		e.sampleSize = n
	}
	return e
}

// Query parses untrusted filter text and queries the catalog.
// Malformed text, an empty filter and a failing catalog all yield a random sample.
// The result may be empty only when the catalog itself matched nothing.
// Errors are returned only when ctx is done.
func (e *Executor) Query(ctx context.Context, filterText string) ([]beer.Record, error) {
	return e.QueryParsed(ctx, e.parse(ctx, filterText))
}

// QueryParsed is Query for text that was already parsed.
func (e *Executor) QueryParsed(ctx context.Context, p filter.Parsed) ([]beer.Record, error) {
	if p.IsMalformed() {
		logger.FromContextOr(ctx, e.logger).Info(
			"Beer request inference returned a wrong format, using random beers",
			zap.Error(p.Err),
		)
		return e.fallback(ctx, reasonMalformed)
	}
	return e.QueryFilter(ctx, p.Filter)
}

// QueryFilter queries the catalog with a validated filter.
func (e *Executor) QueryFilter(ctx context.Context, f filter.Filter) ([]beer.Record, error) {
	log := logger.FromContextOr(ctx, e.logger)
	if f.IsEmpty() {
		log.Info("The request cannot be inferred, using random beers")
		return e.fallback(ctx, reasonEmpty)
	}

	records, err := e.catalog.Query(ctx, f.Params())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("query catalog: %w", ctxErr)
		}
		log.Warn("Catalog did not respond correctly, using random beers",
			zap.Stringer("filter", f),
			zap.Error(err),
		)
		return e.fallback(ctx, reasonCatalog)
	}

	log.Debug("Catalog query finished",
		zap.Stringer("filter", f),
		zap.Int("results", len(records)),
	)
	return records, nil
}

// RandomSample issues separate random picks and concatenates them. Failed picks are skipped.
func (e *Executor) RandomSample(ctx context.Context) ([]beer.Record, error) {
	out := make([]beer.Record, 0, e.sampleSize)
	for i := 0; i < e.sampleSize; i++ {
		records, err := e.catalog.Random(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("random sample: %w", ctxErr)
			}
			logger.FromContextOr(ctx, e.logger).Warn("Random pick failed", zap.Int("pick", i+1), zap.Error(err))
			continue
		}
		out = append(out, records...)
	}
	return out, nil
}

func (e *Executor) fallback(ctx context.Context, reason string) ([]beer.Record, error) {
	metrics.CatalogFallbacksTotal.WithLabelValues(reason).Inc()
	return e.RandomSample(ctx)
}

func (e *Executor) parse(ctx context.Context, filterText string) filter.Parsed {
	p := filter.Parse(filterText)
	if len(p.Ignored) > 0 {
		logger.FromContextOr(ctx, e.logger).Warn(
			"Ignoring filter keys outside the attribute schema",
			zap.Strings("keys", p.Ignored),
		)
	}
	return p
}
