package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/newsum/internal/models"
)

func TestLoadConfig(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "newsum.yaml")

	configData := `
llm:
  backend: "ollama"
  base_url: "http://localhost:11434"
  model: "llama3"
  temperature: 0.2
  rate_limit: 1.5

database:
  driver: "postgres"
  url: "postgres://localhost:5432/test"
  table_name: "articles"

cache:
  path: "/tmp/summaries.json"

search:
  top_k: 5
  threshold: 0.3

summarizer:
  max_length: 200
  early_stopping: false

ui:
  verbose: true
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434", config.LLM.BaseURL)
	assert.Equal(t, "llama3", config.LLM.Model)
	assert.Equal(t, 0.2, config.LLM.Temperature)
	assert.Equal(t, 1.5, config.LLM.RateLimit)
	assert.Equal(t, "postgres", config.Database.Driver)
	assert.Equal(t, "postgres://localhost:5432/test", config.Database.URL)
	assert.Equal(t, "/tmp/summaries.json", config.Cache.Path)
	assert.Equal(t, 5, config.Search.TopK)
	require.NotNil(t, config.Search.Threshold)
	assert.Equal(t, 0.3, *config.Search.Threshold)
	assert.Equal(t, 0.9, config.Search.MaxDF)
	assert.True(t, config.UI.Verbose)

	policy := config.Summarizer.Policy()
	assert.Equal(t, 200, policy.MaxLength)
	assert.Equal(t, 80, policy.MinLength)
	assert.False(t, policy.EarlyStopping)
	assert.Empty(t, config.Validate())
}

func TestLoadConfig_TOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "newsum.toml")
	configData := `
[llm]
backend = "extractive"

[database]
driver = "sqlite"
url = "corpus.db"

[search]
top_k = 3
`
	require.NoError(t, os.WriteFile(configPath, []byte(configData), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "extractive", config.LLM.Backend)
	assert.Equal(t, "corpus.db", config.Database.URL)
	assert.Equal(t, 3, config.Search.TopK)
	require.NotNil(t, config.Search.Threshold)
	assert.Equal(t, 0.45, *config.Search.Threshold)
	assert.Empty(t, config.Validate())
}

func TestLoadConfig_ZeroThreshold(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "newsum.yaml")
	configData := `
search:
  threshold: 0
`
	require.NoError(t, os.WriteFile(configPath, []byte(configData), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	require.NotNil(t, config.Search.Threshold)
	assert.Zero(t, *config.Search.Threshold)
	assert.Empty(t, config.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("llm: [unclosed"), 0644))
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	config := &Config{}
	applyDefaults(config)

	assert.Equal(t, "ollama", config.LLM.Backend)
	assert.Equal(t, "sqlite", config.Database.Driver)
	assert.Equal(t, "scraped_data.db", config.Database.URL)
	assert.Equal(t, "summaries.json", config.Cache.Path)
	assert.Equal(t, 10, config.Search.TopK)
	require.NotNil(t, config.Search.Threshold)
	assert.Equal(t, 0.45, *config.Search.Threshold)
	assert.Equal(t, models.DefaultGenerationPolicy(), config.Summarizer.Policy())
	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		var c Config
		applyDefaults(&c)
		return c
	}

	tests := []struct {
		name          string
		mutate        func(c *Config)
		errorMessages []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "invalid llm",
			mutate: func(c *Config) {
				c.LLM.BaseURL = "invalid-url"
				c.LLM.Temperature = 3.0
			},
			errorMessages: []string{
				"llm.base_url: invalid Ollama base URL",
				"llm.temperature: temperature must be between 0 and 1",
			},
		},
		{
			name: "extractive backend needs no url",
			mutate: func(c *Config) {
				c.LLM.Backend = "extractive"
				c.LLM.BaseURL = ""
			},
		},
		{
			name: "invalid database",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.URL = ""
				c.Database.TableName = "bad name"
			},
			errorMessages: []string{
				"database.url: url is required for postgres",
				"database.table_name: invalid table name",
			},
		},
		{
			name: "invalid search",
			mutate: func(c *Config) {
				c.Search.TopK = -1
				threshold := 1.5
				c.Search.Threshold = &threshold
				c.Search.MaxDF = 2
			},
			errorMessages: []string{
				"search.top_k: top_k must be positive",
				"search.threshold: threshold must be in [0, 1)",
				"search.max_df: max_df must be in (0, 1]",
			},
		},
		{
			name: "unknown backend and driver",
			mutate: func(c *Config) {
				c.LLM.Backend = "openai"
				c.Database.Driver = "cassandra"
			},
			errorMessages: []string{
				"llm.backend: unknown backend",
				"database.driver: unknown driver",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(&config)

			errors := config.Validate()
			require.Len(t, errors, len(tt.errorMessages))
			for i, msg := range tt.errorMessages {
				assert.Contains(t, errors[i].Error(), msg)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")
	t.Setenv("DATABASE_URL", "postgres://env-db:5432/test")
	t.Setenv("NEWSUM_DB_DRIVER", "postgres")
	t.Setenv("NEWSUM_CACHE_PATH", "/var/cache/newsum.json")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "http://env-ollama:11434", config.LLM.BaseURL)
	assert.Equal(t, "postgres://env-db:5432/test", config.Database.URL)
	assert.Equal(t, "postgres", config.Database.Driver)
	assert.Equal(t, "/var/cache/newsum.json", config.Cache.Path)
}
