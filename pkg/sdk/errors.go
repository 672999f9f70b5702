package brewmatch

import "github.com/kailas-cloud/brewmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyRequest            = domain.ErrEmptyRequest
	ErrExhaustedRetries        = domain.ErrExhaustedRetries
	ErrModelProviderError      = domain.ErrModelProviderError
	ErrMalformedRecommendation = domain.ErrMalformedRecommendation
	ErrCatalogExhausted        = domain.ErrCatalogExhausted
	ErrNoCandidates            = domain.ErrNoCandidates
)
