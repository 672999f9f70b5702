package brewmatch

import (
	"encoding/json"

	"github.com/kailas-cloud/brewmatch/internal/domain/recommendation"
)

// Recommendation is the single beer chosen for a request.
// Measures are nil when the catalog does not know them.
type Recommendation struct {
	Name               string
	Title              string // the beer's tagline
	FirstBrewed        string
	ABV                *float64
	IBU                *float64
	EBC                *float64
	FoodPairing        []string
	ImageURL           string
	RecommendationText string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

func recommendationFromDomain(r recommendation.Recommendation) Recommendation {
	return Recommendation{
		Name:               r.Name,
		Title:              r.Title,
		FirstBrewed:        r.FirstBrewed,
		ABV:                measure(r.ABV),
		IBU:                measure(r.IBU),
		EBC:                measure(r.EBC),
		FoodPairing:        r.FoodPairing,
		ImageURL:           r.ImageURL,
		RecommendationText: r.RecommendationText,
	}
}

func measure(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}
