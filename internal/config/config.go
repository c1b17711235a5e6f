// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Host string `envconfig:"SLEUTH_HOST" yaml:"host"`
	Port int    `envconfig:"SLEUTH_PORT" yaml:"port"`

	// Elasticsearch configuration
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`

	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Translation cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Tracing configuration
	Tracing TracingConfig `yaml:"tracing"`
}

// ElasticsearchConfig holds search backend connection settings.
type ElasticsearchConfig struct {
	Addresses string `envconfig:"SLEUTH_ES_ADDRESSES" yaml:"addresses"`
	Username  string `envconfig:"SLEUTH_ES_USERNAME" yaml:"username"`
	Password  string `envconfig:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	// InsecureSkipVerify disables TLS certificate verification, for local
	// clusters with self-signed certificates.
	InsecureSkipVerify bool `envconfig:"SLEUTH_ES_INSECURE_SKIP_VERIFY" yaml:"insecure_skip_verify"`
}

// LLMConfig holds query transformation model settings. The API key is read
// from the provider's own environment variable, never from a config file.
type LLMConfig struct {
	Provider       string  `envconfig:"SLEUTH_LLM_PROVIDER" yaml:"provider"`
	Model          string  `envconfig:"SLEUTH_LLM_MODEL" yaml:"model"`
	BaseURL        string  `envconfig:"SLEUTH_LLM_BASE_URL" yaml:"base_url"`
	Temperature    float64 `envconfig:"SLEUTH_LLM_TEMPERATURE" yaml:"temperature"`
	TimeoutSeconds int     `envconfig:"SLEUTH_LLM_TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// CacheConfig holds translation cache settings.
type CacheConfig struct {
	Enabled     bool  `envconfig:"SLEUTH_CACHE_ENABLED" yaml:"enabled"`
	NumCounters int64 `envconfig:"SLEUTH_CACHE_NUM_COUNTERS" yaml:"num_counters"`
	MaxCost     int64 `envconfig:"SLEUTH_CACHE_MAX_COST" yaml:"max_cost"`
}

// TracingConfig holds request tracing settings.
type TracingConfig struct {
	Enabled bool `envconfig:"SLEUTH_TRACING_ENABLED" yaml:"enabled"`
	// SlowThresholdMs is the total request duration above which a finalized
	// trace is logged. 0 disables slow trace logging.
	SlowThresholdMs int `envconfig:"SLEUTH_TRACING_SLOW_THRESHOLD_MS" yaml:"slow_threshold_ms"`
}

// Load reads configuration from an optional YAML file, then applies
// environment variable overrides and validates the result. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from defaults and environment only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Host = "0.0.0.0"
	cfg.Port = 8081

	cfg.Elasticsearch = ElasticsearchConfig{
		Addresses: "https://localhost:9200",
		Username:  "elastic",
	}

	cfg.LLM = LLMConfig{
		Provider:       "openai",
		Temperature:    0,
		TimeoutSeconds: 30,
	}

	cfg.Cache = CacheConfig{
		Enabled:     true,
		NumCounters: 1 << 16,
		MaxCost:     1 << 14,
	}

	cfg.Tracing = TracingConfig{
		Enabled:         true,
		SlowThresholdMs: 2000,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	if c.Elasticsearch.Addresses == "" {
		errs = append(errs, "elasticsearch addresses must not be empty")
	}

	validProviders := map[string]bool{"openai": true, "anthropic": true, "google": true}
	if !validProviders[c.LLM.Provider] {
		errs = append(errs, fmt.Sprintf("invalid LLM provider: %s (must be openai, anthropic, or google)", c.LLM.Provider))
	}

	if c.LLM.TimeoutSeconds < 1 {
		errs = append(errs, "llm timeout_seconds must be positive")
	}

	if c.Cache.Enabled && (c.Cache.NumCounters < 1 || c.Cache.MaxCost < 1) {
		errs = append(errs, "cache num_counters and max_cost must be positive")
	}

	if c.Tracing.SlowThresholdMs < 0 {
		errs = append(errs, "tracing slow_threshold_ms must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// EsAddresses splits the comma-separated address list.
func (c *Config) EsAddresses() []string {
	var addresses []string
	for _, address := range strings.Split(c.Elasticsearch.Addresses, ",") {
		if trimmed := strings.TrimSpace(address); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}
	return addresses
}
