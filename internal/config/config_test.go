package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		LLM:  LLMConfig{APIKey: "sk-test"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func float32Ptr(v float32) *float32 { return &v }

func intPtr(v int) *int { return &v }

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	expected := "llm.api_key is required"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_Temperature(t *testing.T) {
	tests := []struct {
		name    string
		temp    float32
		wantErr bool
	}{
		{"zero", 0, false},
		{"default", 0.5, false},
		{"max", 2, false},
		{"negative", -0.1, true},
		{"too high", 2.5, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LLM.RecommendTemperature = float32Ptr(tc.temp)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_MaxAttempts(t *testing.T) {
	tests := []struct {
		attempts int
		wantErr  bool
	}{
		{1, false},
		{5, false},
		{MaxRetryAttempts, false},
		{0, true},
		{MaxRetryAttempts + 1, true},
		{64, true},
	}
	for _, tc := range tests {
		cfg := validConfig()
		cfg.Retry.MaxAttempts = tc.attempts
		err := cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("max_attempts=%d: Validate() error = %v, wantErr %v", tc.attempts, err, tc.wantErr)
		}
	}
}

func TestValidate_URLs(t *testing.T) {
	for _, raw := range []string{"not a url", "ftp://example.com", "https://"} {
		cfg := validConfig()
		cfg.Catalog.BaseURL = raw
		if err := cfg.Validate(); err == nil {
			t.Errorf("catalog.base_url %q: expected error", raw)
		}

		cfg = validConfig()
		cfg.LLM.BaseURL = raw
		if err := cfg.Validate(); err == nil {
			t.Errorf("llm.base_url %q: expected error", raw)
		}
	}
}

func TestValidate_NegativePacing(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.PacingMS = intPtr(-1)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative pacing")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 300 {
		t.Errorf("expected WriteTimeoutSec=300, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.LLM.ExtractTemp() != 0 {
		t.Errorf("expected extract temperature 0, got %v", cfg.LLM.ExtractTemp())
	}
	if cfg.LLM.RecommendTemp() != 0.5 {
		t.Errorf("expected recommend temperature 0.5, got %v", cfg.LLM.RecommendTemp())
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected MaxAttempts=5, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay() != 5*time.Second {
		t.Errorf("expected BaseDelay=5s, got %v", cfg.Retry.BaseDelay())
	}
	if cfg.Catalog.BaseURL != DefaultCatalogBaseURL {
		t.Errorf("expected catalog base url %q, got %q", DefaultCatalogBaseURL, cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.PageSize != 5 {
		t.Errorf("expected PageSize=5, got %d", cfg.Catalog.PageSize)
	}
	if cfg.Catalog.RandomSampleSize != 3 {
		t.Errorf("expected RandomSampleSize=3, got %d", cfg.Catalog.RandomSampleSize)
	}
	if cfg.Catalog.Pacing() != time.Second {
		t.Errorf("expected Pacing=1s, got %v", cfg.Catalog.Pacing())
	}
	if cfg.Catalog.Timeout() != 10*time.Second {
		t.Errorf("expected catalog Timeout=10s, got %v", cfg.Catalog.Timeout())
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		LLM: LLMConfig{
			ExtractTemperature:   float32Ptr(0.1),
			RecommendTemperature: float32Ptr(0),
		},
		Retry:   RetryConfig{MaxAttempts: 2, BaseDelaySec: 1},
		Catalog: CatalogConfig{PageSize: 10, PacingMS: intPtr(0)},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.LLM.RecommendTemp() != 0 {
		t.Errorf("explicit zero temperature must survive, got %v", cfg.LLM.RecommendTemp())
	}
	if cfg.LLM.ExtractTemp() != 0.1 {
		t.Errorf("expected extract temperature 0.1, got %v", cfg.LLM.ExtractTemp())
	}
	if cfg.Retry.MaxAttempts != 2 {
		t.Errorf("expected MaxAttempts=2, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Catalog.PageSize != 10 {
		t.Errorf("expected PageSize=10, got %d", cfg.Catalog.PageSize)
	}
	if cfg.Catalog.Pacing() != 0 {
		t.Errorf("explicit zero pacing must survive, got %v", cfg.Catalog.Pacing())
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("BREWMATCH_TEST_SET", "value")

	tests := []struct {
		in, want string
	}{
		{"a: ${BREWMATCH_TEST_SET}", "a: value"},
		{"a: ${BREWMATCH_TEST_SET:-other}", "a: value"},
		{"a: ${BREWMATCH_TEST_UNSET:-fallback}", "a: fallback"},
		{"a: ${BREWMATCH_TEST_UNSET}", "a: "},
		{"a: plain", "a: plain"},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("BREWMATCH_TEST_KEY", "sk-from-env")
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := `
http:
  port: 9090
llm:
  api_key: ${BREWMATCH_TEST_KEY}
  extract_temperature: 0
  json_mode: true
catalog:
  pacing_ms: 0
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.LLM.APIKey != "sk-from-env" {
		t.Errorf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
	if !cfg.LLM.JSONMode {
		t.Error("expected json_mode true")
	}
	if cfg.Catalog.Pacing() != 0 {
		t.Errorf("expected pacing 0, got %v", cfg.Catalog.Pacing())
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("expected default MaxAttempts=5, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error for missing api key")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_Local(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Catalog.PageSize != 5 {
		t.Errorf("expected PageSize=5, got %d", cfg.Catalog.PageSize)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}
