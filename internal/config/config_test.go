package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Run("Applies defaults", func(t *testing.T) {
		cfg, err := LoadFromEnv()
		require.Nil(t, err)
		assert.Equal(t, 8081, cfg.Port)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.True(t, cfg.Tracing.Enabled)
	})

	t.Run("Applies environment overrides", func(t *testing.T) {
		t.Setenv("SLEUTH_PORT", "9090")
		t.Setenv("SLEUTH_LLM_PROVIDER", "google")
		t.Setenv("SLEUTH_TRACING_SLOW_THRESHOLD_MS", "500")
		cfg, err := LoadFromEnv()
		require.Nil(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "google", cfg.LLM.Provider)
		assert.Equal(t, 500, cfg.Tracing.SlowThresholdMs)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Loads values from a YAML file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")
		configContent := `
host: "127.0.0.1"
port: 8888
elasticsearch:
  addresses: "https://es1:9200,https://es2:9200"
  insecure_skip_verify: true
llm:
  provider: anthropic
tracing:
  enabled: false
`
		require.Nil(t, os.WriteFile(configPath, []byte(configContent), 0644))

		cfg, err := Load(configPath)
		require.Nil(t, err)
		assert.Equal(t, "127.0.0.1", cfg.Host)
		assert.Equal(t, 8888, cfg.Port)
		assert.Equal(t, "anthropic", cfg.LLM.Provider)
		assert.True(t, cfg.Elasticsearch.InsecureSkipVerify)
		assert.False(t, cfg.Tracing.Enabled)
		assert.Equal(t, []string{"https://es1:9200", "https://es2:9200"}, cfg.EsAddresses())
	})

	t.Run("Environment overrides file values", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")
		require.Nil(t, os.WriteFile(configPath, []byte("port: 8888\n"), 0644))
		t.Setenv("SLEUTH_PORT", "9999")

		cfg, err := Load(configPath)
		require.Nil(t, err)
		assert.Equal(t, 9999, cfg.Port)
	})

	t.Run("Fails on a missing file", func(t *testing.T) {
		_, err := Load("does-not-exist.yaml")
		assert.NotNil(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Rejects an invalid provider", func(t *testing.T) {
		cfg := &Config{}
		setDefaults(cfg)
		cfg.LLM.Provider = "cohere"
		err := cfg.Validate()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "invalid LLM provider")
	})

	t.Run("Rejects an out of range port", func(t *testing.T) {
		cfg := &Config{}
		setDefaults(cfg)
		cfg.Port = 70000
		err := cfg.Validate()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "port must be between")
	})
}
