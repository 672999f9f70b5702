package catalog

import (
	"context"
	"net/url"

	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
)

// Catalog is the beer catalog capability.
type Catalog interface {
	// Query returns matching records; the list may be empty. Non-success answers are errors.
	Query(ctx context.Context, params url.Values) ([]beer.Record, error)
	// Random returns a single random record.
	Random(ctx context.Context) ([]beer.Record, error)
}
