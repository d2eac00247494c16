package processor

import (
	"strings"
)

type ProcessorConfig struct {
	// MaxTokens bounds the text handed to the generator. Zero means 1024.
	MaxTokens int
	// MinSentenceLength drops fragments shorter than this many bytes.
	MinSentenceLength int
}

// Processor prepares article bodies for summarization.
type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if config.MinSentenceLength == 0 {
		config.MinSentenceLength = 3
	}

	return Processor{
		config: config,
	}
}

// Prepare normalizes whitespace and truncates the body to the token budget.
func (p *Processor) Prepare(text string) string {
	return p.Truncate(p.cleanText(text), p.config.MaxTokens)
}

// Truncate keeps at most maxTokens whitespace-separated tokens.
func (p *Processor) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxTokens {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxTokens], " ")
}

// Tokens counts whitespace-separated tokens.
func (p *Processor) Tokens(text string) int {
	return len(strings.Fields(text))
}

func (p *Processor) cleanText(text string) string {
	// Replace multiple spaces with single space
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}

// Sentences splits text on sentence terminators, keeping the terminator.
func (p *Processor) Sentences(text string) []string {
	text = p.cleanText(text)
	sentenceEnders := []string{". ", "! ", "? "}
	var sentences []string

	current := strings.Builder{}
	flush := func() {
		s := strings.TrimSpace(current.String())
		if len(s) >= p.config.MinSentenceLength {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for i := 0; i < len(text); i++ {
		current.WriteByte(text[i])

		for _, ender := range sentenceEnders {
			if strings.HasSuffix(current.String(), ender) {
				flush()
				break
			}
		}
	}

	// Add any remaining text
	if current.Len() > 0 {
		flush()
	}

	return sentences
}
