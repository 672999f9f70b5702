package brewmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/config"
	"github.com/kailas-cloud/brewmatch/internal/domain/recommendation"
	"github.com/kailas-cloud/brewmatch/internal/prompt"
	openaiChat "github.com/kailas-cloud/brewmatch/internal/transport/openai"
	"github.com/kailas-cloud/brewmatch/internal/transport/punkapi"
	catalogUC "github.com/kailas-cloud/brewmatch/internal/usecase/catalog"
	"github.com/kailas-cloud/brewmatch/internal/usecase/completion"
	healthuc "github.com/kailas-cloud/brewmatch/internal/usecase/health"
	"github.com/kailas-cloud/brewmatch/internal/usecase/pipeline"
	"github.com/kailas-cloud/brewmatch/internal/usecase/preference"
	"github.com/kailas-cloud/brewmatch/internal/usecase/recommend"
)

const (
	defaultModelTimeout   = 60 * time.Second
	defaultCatalogTimeout = 10 * time.Second
	defaultPacing         = time.Second
)

// Internal interfaces for substitution in tests.
type finderUseCase interface {
	FindBeer(ctx context.Context, requestText string) (recommendation.Recommendation, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the brewmatch SDK entry point.
type Client struct {
	finder    finderUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. WithOpenAI is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		catalogURL: config.DefaultCatalogBaseURL,
		pacing:     defaultPacing,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.apiKey == "" {
		return nil, errors.New("brewmatch: model api key required (use WithOpenAI)")
	}
	if cfg.model == "" {
		return nil, errors.New("brewmatch: model name required (use WithOpenAI)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, obs), nil
}

func wireClient(cfg *clientConfig, obs *observer) *Client {
	// Internal components log through zap; the SDK reports through its own observer.
	nop := zap.NewNop()

	chat := openaiChat.NewChat(&openaiChat.Config{
		APIKey:   cfg.apiKey,
		BaseURL:  cfg.baseURL,
		Model:    cfg.model,
		System:   prompt.System,
		JSONMode: cfg.jsonMode,
		Timeout:  defaultModelTimeout,
		Logger:   nop,
	})
	beers := punkapi.NewClient(&punkapi.Config{
		BaseURL:    cfg.catalogURL,
		Pacing:     cfg.pacing,
		Timeout:    defaultCatalogTimeout,
		HTTPClient: cfg.httpClient,
		Logger:     nop,
	})

	caller := completion.New(chat, nop).WithPolicy(cfg.maxAttempts, cfg.baseDelay)
	resolver := catalogUC.NewResolver(catalogUC.NewExecutor(beers, nop), nop)
	finder := pipeline.New(preference.New(caller, nop), resolver, recommend.New(caller, nop))

	return &Client{
		finder:    finder,
		healthSvc: healthuc.New().With("model", chat).With("catalog", beers),
		obs:       obs,
	}
}

// FindBeer recommends exactly one beer for a free-text request.
func (c *Client) FindBeer(ctx context.Context, request string) (_ Recommendation, err error) {
	start := time.Now()
	var beer string
	defer func() { c.obs.observe("find_beer", start, err, "request_len", len(request), "beer", beer) }()

	rec, err := c.finder.FindBeer(ctx, request)
	if err != nil {
		return Recommendation{}, fmt.Errorf("find beer: %w", err)
	}
	beer = rec.Name
	return recommendationFromDomain(rec), nil
}

// Health checks the chat model and the catalog.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	c.obs.observe("health", start, nil, "health", string(report.Status))
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
