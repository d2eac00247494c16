package config

import (
	"fmt"
	"net/url"

	"github.com/xhad/newsum/pkg/store"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	switch c.LLM.Backend {
	case "ollama":
		if c.LLM.BaseURL == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "Ollama base URL is required",
			})
		} else if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid Ollama base URL",
			})
		}
	case "extractive":
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.backend",
			Message: fmt.Sprintf("unknown backend %q (want ollama or extractive)", c.LLM.Backend),
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 1",
		})
	}

	if c.LLM.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.rate_limit",
			Message: "rate_limit must not be negative",
		})
	}

	// Validate Database config
	switch c.Database.Driver {
	case "sqlite":
	case "postgres", "mongo":
		if c.Database.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: fmt.Sprintf("url is required for %s", c.Database.Driver),
			})
		} else if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unknown driver %q (want sqlite, postgres or mongo)", c.Database.Driver),
		})
	}

	if c.Database.TableName != "" && !store.ValidIdentifier(c.Database.TableName) {
		errors = append(errors, ValidationError{
			Field:   "database.table_name",
			Message: fmt.Sprintf("invalid table name %q", c.Database.TableName),
		})
	}

	if c.Database.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.batch_size",
			Message: "batch_size must be positive",
		})
	}

	if c.Cache.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "cache.path",
			Message: "cache path is required",
		})
	}

	// Validate Search config
	if c.Search.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.top_k",
			Message: "top_k must be positive",
		})
	}

	if t := c.Search.Threshold; t != nil && (*t < 0 || *t >= 1) {
		errors = append(errors, ValidationError{
			Field:   "search.threshold",
			Message: "threshold must be in [0, 1)",
		})
	}

	if c.Search.MinDF < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.min_df",
			Message: "min_df must be positive",
		})
	}

	if c.Search.MaxDF <= 0 || c.Search.MaxDF > 1 {
		errors = append(errors, ValidationError{
			Field:   "search.max_df",
			Message: "max_df must be in (0, 1]",
		})
	}

	// Validate Summarizer config
	if c.Summarizer.MaxInputTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "summarizer.max_input_tokens",
			Message: "max_input_tokens must be positive",
		})
	}

	if c.Summarizer.NumBeams < 1 {
		errors = append(errors, ValidationError{
			Field:   "summarizer.num_beams",
			Message: "num_beams must be positive",
		})
	}

	if c.Summarizer.MinLength < 0 || c.Summarizer.MinLength > c.Summarizer.MaxLength {
		errors = append(errors, ValidationError{
			Field:   "summarizer.min_length",
			Message: "min_length must be non-negative and not above max_length",
		})
	}

	return errors
}
