package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
)

// SummaryConfig represents the configuration for a summary engine.
type SummaryConfig struct {
	Model          string
	Temperature    float64
	SystemTemplate string
	BaseURL        string // Ollama server URL
}

// SummaryEngine generates abstractive article summaries with an LLM.
// Beam search parameters of the policy are expressed as instructions; the
// length bounds are passed as call options.
type SummaryEngine struct {
	config SummaryConfig
	llm    llms.Model
}

var _ types.Generator = (*SummaryEngine)(nil)

const defaultSystemTemplate = "You are a news editor. Write a faithful abstractive summary of the article " +
	"the user sends, in the article's own language. Use between %d and %d words. " +
	"Reply with the summary text only."

// NewWithConfig creates a SummaryEngine backed by an Ollama server.
func NewWithConfig(config SummaryConfig) (*SummaryEngine, error) {
	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &SummaryEngine{
		config: config,
		llm:    llm,
	}, nil
}

// NewWithModel creates a SummaryEngine over an existing model.
func NewWithModel(model llms.Model, config SummaryConfig) (*SummaryEngine, error) {
	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}
	return &SummaryEngine{config: config, llm: model}, nil
}

func withDefaults(config SummaryConfig) (SummaryConfig, error) {
	if config.Model == "" {
		config.Model = "mistral" // Default Ollama model
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return config, fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = defaultSystemTemplate
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}
	return config, nil
}

// Generate summarizes text according to policy.
func (se *SummaryEngine) Generate(ctx context.Context, text string, policy models.GenerationPolicy) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, se.systemPrompt(policy)),
		llms.TextParts(schema.ChatMessageTypeHuman, text),
	}

	response, err := se.llm.GenerateContent(ctx, content,
		llms.WithTemperature(se.config.Temperature),
		llms.WithMaxTokens(policy.MaxLength),
		llms.WithMinLength(policy.MinLength),
		llms.WithMaxLength(policy.MaxLength),
	)
	if err != nil {
		return "", fmt.Errorf("summary error: %w", err)
	}
	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return "", errors.New("summary error: no response from LLM")
	}

	summary := strings.TrimSpace(response.Choices[0].Content)
	if summary == "" {
		return "", errors.New("summary error: empty response from LLM")
	}
	return summary, nil
}

func (se *SummaryEngine) systemPrompt(policy models.GenerationPolicy) string {
	prompt := se.config.SystemTemplate
	if strings.Count(prompt, "%d") == 2 {
		prompt = fmt.Sprintf(prompt, policy.MinLength, policy.MaxLength)
	}
	if policy.NumBeams > 1 {
		prompt += fmt.Sprintf(" Consider %d alternative phrasings and return the best one.", policy.NumBeams)
	}
	if policy.EarlyStopping {
		prompt += " Stop as soon as the summary is complete."
	}
	return prompt
}
