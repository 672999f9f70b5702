package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to empty fields.
const (
	DefaultExtractTemperature   float32 = 0
	DefaultRecommendTemperature float32 = 0.5
	DefaultCatalogBaseURL               = "https://api.punkapi.com/v2/beers"
)

// MaxRetryAttempts bounds retry.max_attempts.
const MaxRetryAttempts = 10

// Config holds the brewmatch service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Retry   RetryConfig   `yaml:"retry"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
// The write timeout must cover a full retry budget on both model calls.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LLMConfig holds chat model settings.
// Temperatures are pointers so that an explicit 0 survives ApplyDefaults.
type LLMConfig struct {
	APIKey               string   `yaml:"api_key"`
	BaseURL              string   `yaml:"base_url"` // empty = OpenAI
	Model                string   `yaml:"model"`
	ExtractTemperature   *float32 `yaml:"extract_temperature"`
	RecommendTemperature *float32 `yaml:"recommend_temperature"`
	JSONMode             bool     `yaml:"json_mode"`
	RequestTimeoutSec    int      `yaml:"request_timeout_sec"`
}

// RetryConfig holds the transient-failure retry policy for model calls.
type RetryConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	BaseDelaySec int `yaml:"base_delay_sec"`
}

// CatalogConfig holds beer catalog settings.
type CatalogConfig struct {
	BaseURL          string `yaml:"base_url"`
	PageSize         int    `yaml:"page_size"`
	RandomSampleSize int    `yaml:"random_sample_size"`
	PacingMS         *int   `yaml:"pacing_ms"` // delay before every catalog call; 0 disables
	TimeoutSec       int    `yaml:"timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 300
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.ExtractTemperature == nil {
		t := DefaultExtractTemperature
		c.LLM.ExtractTemperature = &t
	}
	if c.LLM.RecommendTemperature == nil {
		t := DefaultRecommendTemperature
		c.LLM.RecommendTemperature = &t
	}
	if c.LLM.RequestTimeoutSec <= 0 {
		c.LLM.RequestTimeoutSec = 60
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 5
	}
	if c.Retry.BaseDelaySec <= 0 {
		c.Retry.BaseDelaySec = 5
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = DefaultCatalogBaseURL
	}
	if c.Catalog.PageSize <= 0 {
		c.Catalog.PageSize = 5
	}
	if c.Catalog.RandomSampleSize <= 0 {
		c.Catalog.RandomSampleSize = 3
	}
	if c.Catalog.PacingMS == nil {
		ms := 1000
		c.Catalog.PacingMS = &ms
	}
	if c.Catalog.TimeoutSec <= 0 {
		c.Catalog.TimeoutSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.LLM.BaseURL != "" {
		if err := validateURL(c.LLM.BaseURL); err != nil {
			return fmt.Errorf("llm.base_url: %w", err)
		}
	}
	for name, t := range map[string]*float32{
		"extract_temperature":   c.LLM.ExtractTemperature,
		"recommend_temperature": c.LLM.RecommendTemperature,
	} {
		if t != nil && (*t < 0 || *t > 2) {
			return fmt.Errorf("llm.%s must be between 0 and 2, got %v", name, *t)
		}
	}
	if err := validateURL(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if c.Retry.MaxAttempts < 1 || c.Retry.MaxAttempts > MaxRetryAttempts {
		return fmt.Errorf("retry.max_attempts must be between 1 and %d, got %d",
			MaxRetryAttempts, c.Retry.MaxAttempts)
	}
	if c.Catalog.PacingMS != nil && *c.Catalog.PacingMS < 0 {
		return fmt.Errorf("catalog.pacing_ms must not be negative, got %d", *c.Catalog.PacingMS)
	}
	return nil
}

// ExtractTemp returns the filter extraction temperature.
func (c LLMConfig) ExtractTemp() float32 { return deref(c.ExtractTemperature, DefaultExtractTemperature) }

// RecommendTemp returns the selection temperature.
func (c LLMConfig) RecommendTemp() float32 {
	return deref(c.RecommendTemperature, DefaultRecommendTemperature)
}

// RequestTimeout returns the per-call chat timeout.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// BaseDelay returns the first backoff delay.
func (c RetryConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySec) * time.Second
}

// Pacing returns the delay before every catalog call.
func (c CatalogConfig) Pacing() time.Duration {
	if c.PacingMS == nil {
		return time.Second
	}
	return time.Duration(*c.PacingMS) * time.Millisecond
}

// Timeout returns the catalog HTTP client timeout.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func deref(t *float32, def float32) float32 {
	if t == nil {
		return def
	}
	return *t
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: host is required", raw)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
