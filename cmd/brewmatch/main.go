package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/config"
	logpkg "github.com/kailas-cloud/brewmatch/internal/logger"
	"github.com/kailas-cloud/brewmatch/internal/metrics"
	"github.com/kailas-cloud/brewmatch/internal/prompt"
	chiTransport "github.com/kailas-cloud/brewmatch/internal/transport/chi"
	openaiChat "github.com/kailas-cloud/brewmatch/internal/transport/openai"
	"github.com/kailas-cloud/brewmatch/internal/transport/punkapi"
	catalogUC "github.com/kailas-cloud/brewmatch/internal/usecase/catalog"
	"github.com/kailas-cloud/brewmatch/internal/usecase/completion"
	healthUC "github.com/kailas-cloud/brewmatch/internal/usecase/health"
	"github.com/kailas-cloud/brewmatch/internal/usecase/pipeline"
	"github.com/kailas-cloud/brewmatch/internal/usecase/preference"
	"github.com/kailas-cloud/brewmatch/internal/usecase/recommend"
	"github.com/kailas-cloud/brewmatch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, version.Version)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting brewmatch API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model", cfg.LLM.Model),
		zap.String("catalog", cfg.Catalog.BaseURL),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()
	metrics.RegisterHTTPMetrics()

	// External capabilities
	chat := openaiChat.NewChat(&openaiChat.Config{
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		System:   prompt.System,
		JSONMode: cfg.LLM.JSONMode,
		Timeout:  cfg.LLM.RequestTimeout(),
		Logger:   logger,
	})
	beers := punkapi.NewClient(&punkapi.Config{
		BaseURL:  cfg.Catalog.BaseURL,
		PageSize: cfg.Catalog.PageSize,
		Pacing:   cfg.Catalog.Pacing(),
		Timeout:  cfg.Catalog.Timeout(),
		Logger:   logger,
	})

	// Use cases: one retrying caller shared by both model stages
	caller := completion.New(chat, logger).
		WithPolicy(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay())
	extractor := preference.New(caller, logger).WithTemperature(cfg.LLM.ExtractTemp())
	executor := catalogUC.NewExecutor(beers, logger).WithSampleSize(cfg.Catalog.RandomSampleSize)
	resolver := catalogUC.NewResolver(executor, logger)
	recommender := recommend.New(caller, logger).WithTemperature(cfg.LLM.RecommendTemp())
	finder := pipeline.New(extractor, resolver, recommender)

	healthSvc := healthUC.New().
		With("model", chat).
		With("catalog", beers)

	server := chiTransport.NewServer(finder, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logpkg.FromContextOr(r.Context(), logger).Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
