package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/xhad/newsum/internal/models"
)

type LLMConfig struct {
	// Backend is ollama (abstractive) or extractive (offline).
	Backend     string  `yaml:"backend" toml:"backend"`
	BaseURL     string  `yaml:"base_url" toml:"base_url"`
	Model       string  `yaml:"model" toml:"model"`
	Temperature float64 `yaml:"temperature" toml:"temperature"`
	// RateLimit is model calls per second, zero for unlimited.
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit"`
}

type DatabaseConfig struct {
	// Driver is sqlite, postgres or mongo.
	Driver    string `yaml:"driver" toml:"driver"`
	URL       string `yaml:"url" toml:"url"`
	TableName string `yaml:"table_name" toml:"table_name"`
	// Name is the mongo database.
	Name      string `yaml:"name" toml:"name"`
	BatchSize int    `yaml:"batch_size" toml:"batch_size"`
}

type CacheConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type SearchConfig struct {
	TopK      int      `yaml:"top_k" toml:"top_k"`
	Threshold *float64 `yaml:"threshold" toml:"threshold"`
	MinDF     int      `yaml:"min_df" toml:"min_df"`
	MaxDF     float64  `yaml:"max_df" toml:"max_df"`
}

type SummarizerConfig struct {
	MaxInputTokens int     `yaml:"max_input_tokens" toml:"max_input_tokens"`
	NumBeams       int     `yaml:"num_beams" toml:"num_beams"`
	MinLength      int     `yaml:"min_length" toml:"min_length"`
	MaxLength      int     `yaml:"max_length" toml:"max_length"`
	LengthPenalty  float64 `yaml:"length_penalty" toml:"length_penalty"`
	EarlyStopping  *bool   `yaml:"early_stopping" toml:"early_stopping"`
}

// Policy converts the section into a generation policy.
func (s SummarizerConfig) Policy() models.GenerationPolicy {
	early := true
	if s.EarlyStopping != nil {
		early = *s.EarlyStopping
	}
	return models.GenerationPolicy{
		MaxInputTokens: s.MaxInputTokens,
		NumBeams:       s.NumBeams,
		MinLength:      s.MinLength,
		MaxLength:      s.MaxLength,
		LengthPenalty:  s.LengthPenalty,
		EarlyStopping:  early,
	}
}

type UIConfig struct {
	Verbose bool `yaml:"verbose" toml:"verbose"`
	NoColor bool `yaml:"no_color" toml:"no_color"`
}

type Config struct {
	LLM        LLMConfig        `yaml:"llm" toml:"llm"`
	Database   DatabaseConfig   `yaml:"database" toml:"database"`
	Cache      CacheConfig      `yaml:"cache" toml:"cache"`
	Search     SearchConfig     `yaml:"search" toml:"search"`
	Summarizer SummarizerConfig `yaml:"summarizer" toml:"summarizer"`
	UI         UIConfig         `yaml:"ui" toml:"ui"`
}

// LoadConfig reads path, or the first config file found in the default
// locations, then applies .env, environment overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		locations := []string{
			"newsum.yaml",
			"newsum.yml",
			"newsum.toml",
			filepath.Join(os.Getenv("HOME"), ".config/newsum/config.yaml"),
			"/etc/newsum/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &config)
	} else {
		err = yaml.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Backend == "" {
		config.LLM.Backend = "ollama"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "mistral"
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Database.Driver == "" {
		config.Database.Driver = "sqlite"
	}
	if config.Database.URL == "" && config.Database.Driver == "sqlite" {
		config.Database.URL = "scraped_data.db"
	}
	if config.Database.Name == "" {
		config.Database.Name = "newsum"
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if config.Cache.Path == "" {
		config.Cache.Path = "summaries.json"
	}

	if config.Search.TopK == 0 {
		config.Search.TopK = 10
	}
	if config.Search.Threshold == nil {
		threshold := 0.45
		config.Search.Threshold = &threshold
	}
	if config.Search.MinDF == 0 {
		config.Search.MinDF = 1
	}
	if config.Search.MaxDF == 0 {
		config.Search.MaxDF = 0.9
	}

	if config.Summarizer.MaxInputTokens == 0 {
		config.Summarizer.MaxInputTokens = 1024
	}
	if config.Summarizer.NumBeams == 0 {
		config.Summarizer.NumBeams = 4
	}
	if config.Summarizer.MinLength == 0 {
		config.Summarizer.MinLength = 80
	}
	if config.Summarizer.MaxLength == 0 {
		config.Summarizer.MaxLength = 300
	}
	if config.Summarizer.LengthPenalty == 0 {
		config.Summarizer.LengthPenalty = 1.0
	}
	if config.Summarizer.EarlyStopping == nil {
		early := true
		config.Summarizer.EarlyStopping = &early
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if driver := os.Getenv("NEWSUM_DB_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if cachePath := os.Getenv("NEWSUM_CACHE_PATH"); cachePath != "" {
		config.Cache.Path = cachePath
	}
	if verbose, err := strconv.ParseBool(os.Getenv("NEWSUM_VERBOSE")); err == nil {
		config.UI.Verbose = verbose
	}
}
