package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/metrics"
)

// Chat is a chat model using the OpenAI-compatible chat completions API.
type Chat struct {
	client   *openai.Client
	model    string
	system   string
	jsonMode bool
	timeout  time.Duration
	logger   *zap.Logger
}

// Config holds the chat provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	System   string
	JSONMode bool
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewChat creates an OpenAI-compatible chat model.
func NewChat(cfg *Config) *Chat {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Chat{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		system:   cfg.System,
		jsonMode: cfg.JSONMode,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
}

// Complete implements domain.ChatModel. Returns the content of the single response choice.
func (c *Chat) Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResult, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.system},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: wireTemperature(req.Temperature),
		N:           1,
	}
	if c.jsonMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)

	duration := time.Since(start)

	if err != nil {
		mapped := parseAPIError(err)
		errType := "api_error"
		if errors.Is(mapped, domain.ErrModelUnavailable) {
			errType = "unavailable"
		}
		metrics.ChatRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.ChatErrorsTotal.WithLabelValues(c.model, errType).Inc()
		return domain.ChatResult{}, mapped
	}

	if len(resp.Choices) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues(c.model, "error").Inc()
		metrics.ChatErrorsTotal.WithLabelValues(c.model, "empty_response").Inc()
		return domain.ChatResult{}, fmt.Errorf("empty chat response: %w", domain.ErrModelProviderError)
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.ChatRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.ChatTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ChatTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	c.logger.Debug("Chat completion finished",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return domain.ChatResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Chat) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// wireTemperature keeps a requested 0 on the wire: go-openai omits a zero temperature,
// which the API would read as its default of 1.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// parseAPIError maps a client error to a domain error.
// 503 becomes domain.ErrModelUnavailable (retryable); everything else domain.ErrModelProviderError.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrap := classify(reqErr.HTTPStatusCode)
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("chat API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, classify(apiErr.HTTPStatusCode))
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat request aborted: %w: %w", err, domain.ErrModelProviderError)
	}

	return fmt.Errorf("chat request failed: %v: %w", err, domain.ErrModelProviderError)
}

func classify(status int) error {
	if status == http.StatusServiceUnavailable {
		return domain.ErrModelUnavailable
	}
	return domain.ErrModelProviderError
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
