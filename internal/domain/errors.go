package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable signals a transient "service unavailable" answer from the chat model.
	ErrModelUnavailable = errors.New("model temporarily unavailable")
	// ErrModelProviderError signals a non-transient chat model failure.
	ErrModelProviderError = errors.New("model provider error")
	// ErrExhaustedRetries signals that every attempt against the chat model was unavailable.
	ErrExhaustedRetries = errors.New("all retries failed, model is not responding")
	// ErrMalformedRecommendation signals a selection answer that is not a usable record.
	ErrMalformedRecommendation = errors.New("malformed recommendation")
	// ErrCatalogExhausted signals that relaxation ran out of query round-trips with no candidates.
	ErrCatalogExhausted = errors.New("catalog returned no candidates")
	// ErrNoCandidates signals an empty candidate set handed to the recommender.
	ErrNoCandidates = errors.New("no candidates to choose from")
	// ErrEmptyRequest signals a blank preference request.
	ErrEmptyRequest = errors.New("empty request")
)

// ExhaustedRetriesError wraps ErrExhaustedRetries with the attempt count and the last failure.
type ExhaustedRetriesError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("%s: %d attempts, last error: %v", ErrExhaustedRetries.Error(), e.Attempts, e.Last)
}

func (e *ExhaustedRetriesError) Unwrap() []error { return []error{ErrExhaustedRetries, e.Last} }

// NewExhaustedRetries creates an exhausted retries error.
func NewExhaustedRetries(attempts int, last error) error {
	return &ExhaustedRetriesError{Attempts: attempts, Last: last}
}
