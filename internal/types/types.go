package types

import (
	"context"

	"github.com/xhad/newsum/internal/models"
)

// Core interfaces

// CorpusStore is the durable record store the pipeline reads at startup and
// writes summaries back to.
type CorpusStore interface {
	LoadAll(ctx context.Context) ([]models.Article, error)
	UpdateSummary(ctx context.Context, title, summary string) error
}

// ArticleStore is a CorpusStore that can also be filled and closed.
type ArticleStore interface {
	CorpusStore
	Insert(ctx context.Context, articles []models.Article) error
	Close() error
}

// Generator runs one summarization model call.
type Generator interface {
	Generate(ctx context.Context, text string, policy models.GenerationPolicy) (string, error)
}

// Summarizer returns a (possibly cached) summary for an article body.
type Summarizer interface {
	Summarize(ctx context.Context, body string) (string, error)
}
