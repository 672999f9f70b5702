package chi

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest              ErrorCode = "bad_request"
	ErrorCodeEmptyRequest            ErrorCode = "empty_request"
	ErrorCodeModelUnavailable        ErrorCode = "model_unavailable"
	ErrorCodeModelProviderError      ErrorCode = "model_provider_error"
	ErrorCodeMalformedRecommendation ErrorCode = "malformed_recommendation"
	ErrorCodeCatalogUnavailable      ErrorCode = "catalog_unavailable"
	ErrorCodeNoCandidates            ErrorCode = "no_candidates"
	ErrorCodeInternalError           ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RecommendationRequest is the body of POST /recommendations.
type RecommendationRequest struct {
	Request string `json:"request"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}
