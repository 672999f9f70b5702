package preference

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/brewmatch/internal/domain"
	"github.com/kailas-cloud/brewmatch/internal/logger"
)

type mockCaller struct {
	out         string
	err         error
	prompt      string
	temperature float32
	calls       int
}

func (m *mockCaller) Call(_ context.Context, prompt string, temperature float32) (string, error) {
	m.calls++
	m.prompt = prompt
	m.temperature = temperature
	return m.out, m.err
}

func TestExtractFilter_ReturnsRawText(t *testing.T) {
	// Untrusted output is returned as-is, even when it is not JSON.
	for _, out := range []string{`{"abv_gt":5, "brewed_before": "05-2020"}`, "not json", "{}"} {
		c := &mockCaller{out: out}
		got, err := New(c, zap.NewNop()).ExtractFilter(context.Background(), "Find me a strong beer")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != out {
			t.Errorf("ExtractFilter = %q, want %q", got, out)
		}
	}
}

func TestExtractFilter_PromptAndTemperature(t *testing.T) {
	c := &mockCaller{out: "{}"}
	req := "Find me a strong beer that was brewed before May 2020 with an ABV above 5"

	if _, err := New(c, zap.NewNop()).ExtractFilter(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls != 1 {
		t.Errorf("expected 1 call, got %d", c.calls)
	}
	if c.temperature != 0 {
		t.Errorf("temperature = %v, want 0", c.temperature)
	}
	if !strings.Contains(c.prompt, "```"+req+"```") {
		t.Error("prompt must embed the request text")
	}
	if !strings.Contains(c.prompt, `"abv_lt"`) {
		t.Error("prompt must list the attribute schema")
	}
}

func TestExtractFilter_WithTemperature(t *testing.T) {
	c := &mockCaller{out: "{}"}
	if _, err := New(c, zap.NewNop()).WithTemperature(0.2).ExtractFilter(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if c.temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", c.temperature)
	}
}

func TestExtractFilter_PropagatesError(t *testing.T) {
	c := &mockCaller{err: domain.NewExhaustedRetries(5, domain.ErrModelUnavailable)}
	_, err := New(c, zap.NewNop()).ExtractFilter(context.Background(), "x")
	if !errors.Is(err, domain.ErrExhaustedRetries) {
		t.Fatalf("expected ErrExhaustedRetries, got %v", err)
	}
}

func TestExtractFilter_LogsWithRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "req-7")))

	c := &mockCaller{out: `{"abv_gt": 5}`}
	if _, err := New(c, zap.NewNop()).ExtractFilter(ctx, "strong"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("Beer request inferred").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != "req-7" {
		t.Errorf("log line lost request_id: %v", entries[0].ContextMap())
	}
}
