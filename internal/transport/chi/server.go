package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/logger"
	healthuc "github.com/kailas-cloud/brewmatch/internal/usecase/health"
	"github.com/kailas-cloud/brewmatch/internal/version"
)

const (
	// maxBodyBytes bounds the POST /recommendations body.
	maxBodyBytes = 64 << 10
	// retryAfterSec is the client hint after the model stayed unavailable.
	retryAfterSec = 60
)

// BeerFinder runs one recommendation request.
type BeerFinder interface {
	FindBeerJSON(ctx context.Context, requestText string) ([]byte, error)
}

// HealthChecker aggregates dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the brewmatch HTTP API.
type Server struct {
	finder        BeerFinder
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(finder BeerFinder, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		finder: finder,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		exhaustedRetriesHandler,
		sentinelHandler(domain.ErrEmptyRequest, http.StatusBadRequest, ErrorCodeEmptyRequest),
		sentinelHandler(domain.ErrModelProviderError, http.StatusBadGateway, ErrorCodeModelProviderError),
		sentinelHandler(domain.ErrMalformedRecommendation,
			http.StatusBadGateway, ErrorCodeMalformedRecommendation),
		sentinelHandler(domain.ErrCatalogExhausted, http.StatusBadGateway, ErrorCodeCatalogUnavailable),
		sentinelHandler(domain.ErrNoCandidates, http.StatusInternalServerError, ErrorCodeNoCandidates),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/recommendations", s.Recommend)
	r.Get("/health", s.HealthCheck)
	r.Get("/version", s.Version)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// Recommend handles POST /recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	out, err := s.finder.FindBeerJSON(r.Context(), req.Request)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Version handles GET /version.
func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version.Version,
		Commit:  version.Commit,
		Date:    version.Date,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrExhaustedRetries,
		domain.ErrEmptyRequest,
		domain.ErrModelProviderError,
		domain.ErrMalformedRecommendation,
		domain.ErrCatalogExhausted,
		domain.ErrNoCandidates,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// exhaustedRetriesHandler handles ErrExhaustedRetries with a Retry-After hint and the attempt count.
func exhaustedRetriesHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrExhaustedRetries) {
		return false
	}
	var ere *domain.ExhaustedRetriesError
	if errors.As(err, &ere) {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"code":     ErrorCodeModelUnavailable,
			"message":  msg,
			"attempts": ere.Attempts,
		})
		return true
	}
	writeError(w, http.StatusServiceUnavailable, ErrorCodeModelUnavailable, msg)
	return true
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logger.FromContextOr(ctx, s.logger)
	if errors.Is(err, context.Canceled) {
		log.Info("request cancelled", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, ErrorCodeInternalError, "request cancelled")
		return
	}

	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
