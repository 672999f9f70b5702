package brewmatch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	apiKey   string
	model    string
	baseURL  string
	jsonMode bool

	catalogURL string
	pacing     time.Duration
	httpClient *http.Client

	maxAttempts int
	baseDelay   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithOpenAI sets the chat model credentials and model name.
// Required.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.model = model
	})
}

// WithModelBaseURL points the client at an OpenAI-compatible endpoint.
func WithModelBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithJSONMode asks the model for a JSON object response format.
func WithJSONMode() Option {
	return optionFunc(func(c *clientConfig) {
		c.jsonMode = true
	})
}

// WithCatalog sets the beer catalog base URL.
// Default: https://api.punkapi.com/v2/beers.
func WithCatalog(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogURL = url
	})
}

// WithCatalogPacing sets the delay before every catalog call.
// Default: 1s. Zero disables pacing.
func WithCatalogPacing(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.pacing = d
	})
}

// WithHTTPClient sets the HTTP client used for catalog calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRetry sets the retry policy for transient model failures.
// Defaults: 5 attempts, 5s base delay doubling after each failure.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
