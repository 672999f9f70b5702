// Package preference turns a free-text beer request into raw filter text.
package preference

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain/attribute"
	"github.com/kailas-cloud/brewmatch/internal/logger"
	"github.com/kailas-cloud/brewmatch/internal/prompt"
)

// Extractor asks the model to interpret a request as a structured filter.
type Extractor struct {
	caller      Caller
	temperature float32
	logger      *zap.Logger
}

// New creates an Extractor. Extraction runs at temperature 0 unless overridden.
func New(caller Caller, logger *zap.Logger) *Extractor {
	return &Extractor{caller: caller, logger: logger}
}

// WithTemperature overrides the sampling temperature.
func (e *Extractor) WithTemperature(t float32) *Extractor {
	e.temperature = t
	return e
}

// ExtractFilter returns the model's filter text. The text is untrusted and not parsed here.
func (e *Extractor) ExtractFilter(ctx context.Context, requestText string) (string, error) {
	p := prompt.Filter(requestText, attribute.Schema())

	out, err := e.caller.Call(ctx, p, e.temperature)
	if err != nil {
		return "", fmt.Errorf("extract filter: %w", err)
	}

	logger.FromContextOr(ctx, e.logger).Debug("Beer request inferred", zap.String("filter_text", out))
	return out, nil
}
