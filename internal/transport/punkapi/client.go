// Package punkapi is an HTTP client for a Punk API shaped beer catalog.
package punkapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
	"github.com/kailas-cloud/brewmatch/internal/metrics"
)

// ErrUnexpectedStatus signals a non-200 catalog response.
var ErrUnexpectedStatus = errors.New("unexpected catalog status")

// maxBodyBytes bounds a catalog response body.
const maxBodyBytes = 4 << 20

// Config holds the catalog client settings.
type Config struct {
	BaseURL  string
	PageSize int
	// Pacing is slept before every catalog call.
	Pacing     time.Duration
	Timeout    time.Duration
	HTTPClient *http.Client
	Sleep      domain.SleepFunc
	Logger     *zap.Logger
}

// Client queries the beer catalog.
type Client struct {
	baseURL  string
	pageSize int
	pacing   time.Duration
	http     *http.Client
	sleep    domain.SleepFunc
	logger   *zap.Logger
}

// NewClient creates a catalog client.
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = domain.Sleep
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		pageSize: pageSize,
		pacing:   cfg.Pacing,
		http:     httpClient,
		sleep:    sleep,
		logger:   logger,
	}
}

// Query issues GET <base>?per_page=N&<params>. The result may be empty.
// A non-200 answer returns an error wrapping ErrUnexpectedStatus.
func (c *Client) Query(ctx context.Context, params url.Values) ([]beer.Record, error) {
	q := make(url.Values, len(params)+1)
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("per_page", strconv.Itoa(c.pageSize))

	records, err := c.get(ctx, "query", c.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	return records, nil
}

// Random issues GET <base>/random, which answers with a single record.
func (c *Client) Random(ctx context.Context) ([]beer.Record, error) {
	records, err := c.get(ctx, "random", c.baseURL+"/random")
	if err != nil {
		return nil, fmt.Errorf("random pick: %w", err)
	}
	return records, nil
}

// HealthCheck verifies the catalog answers a one-record page.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?per_page=1", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog health %d: %w", resp.StatusCode, ErrUnexpectedStatus)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, rawURL string) ([]beer.Record, error) {
	if err := c.sleep(ctx, c.pacing); err != nil {
		return nil, fmt.Errorf("pacing: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	status := strconv.Itoa(resp.StatusCode)
	metrics.CatalogRequestsTotal.WithLabelValues(endpoint, status).Inc()

	c.logger.Debug("Catalog request finished",
		zap.String("endpoint", endpoint),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog status %d: %s: %w", resp.StatusCode, extractMessage(body), ErrUnexpectedStatus)
	}

	var records []beer.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// extractMessage extracts the "message" field of a catalog error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return "no message"
}
