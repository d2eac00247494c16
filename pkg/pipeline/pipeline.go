// Package pipeline answers queries: rank titles, keep the close matches,
// summarize them and write the summaries back to the corpus store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
	"github.com/xhad/newsum/pkg/index"
	"github.com/xhad/newsum/pkg/logger"
)

const (
	DefaultTopK      = 10
	DefaultThreshold = 0.45
)

type Config struct {
	// TopK bounds how many rows are considered per query.
	TopK int
	// Threshold is exclusive: a row must score strictly above it. Nil means
	// DefaultThreshold; zero keeps every row with any overlap.
	Threshold *float64
	Index     index.Options
}

// DefaultConfig returns top 10, threshold 0.45 and the default index options.
func DefaultConfig() Config {
	threshold := DefaultThreshold
	return Config{
		TopK:      DefaultTopK,
		Threshold: &threshold,
		Index:     index.DefaultOptions(),
	}
}

type snapshot struct {
	articles []models.Article
	index    *index.Index
}

// Pipeline is safe for concurrent queries. Store writes are serialized.
type Pipeline struct {
	config     Config
	threshold  float64
	store      types.CorpusStore
	summarizer types.Summarizer

	current atomic.Pointer[snapshot]
	writeMu sync.Mutex
}

// New loads the corpus and builds the title index. It fails if the store
// cannot be read or holds no articles. Zero config fields take defaults.
func New(ctx context.Context, store types.CorpusStore, summarizer types.Summarizer, config Config) (*Pipeline, error) {
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	threshold := DefaultThreshold
	if config.Threshold != nil {
		threshold = *config.Threshold
	}
	if config.Index.StopWords == nil && config.Index.MinDF == 0 && config.Index.MaxDF == 0 {
		config.Index = index.DefaultOptions()
	}

	p := &Pipeline{
		config:     config,
		threshold:  threshold,
		store:      store,
		summarizer: summarizer,
	}
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload reads the corpus again and swaps in a freshly built index. Queries
// in flight keep the snapshot they started with.
func (p *Pipeline) Reload(ctx context.Context) error {
	start := time.Now()

	articles, err := p.store.LoadAll(ctx)
	if err != nil {
		if errors.Is(err, types.ErrStoreRead) {
			return err
		}
		return fmt.Errorf("%w: %v", types.ErrStoreRead, err)
	}

	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}
	ix, err := index.Build(titles, p.config.Index)
	if err != nil {
		return err
	}

	p.current.Store(&snapshot{articles: articles, index: ix})
	logger.Info("indexed %d titles (%d terms) in %s", ix.Len(), ix.Vocabulary(), time.Since(start).Round(time.Millisecond))
	return nil
}

// Size returns the number of indexed articles.
func (p *Pipeline) Size() int {
	if s := p.current.Load(); s != nil {
		return len(s.articles)
	}
	return 0
}

// Query ranks titles against text and summarizes every row in the top K
// that scores above the threshold, in descending similarity order. A query
// that matches nothing returns an empty response and no error. The first
// summarization error aborts the query.
func (p *Pipeline) Query(ctx context.Context, text string) (*models.SearchResponse, error) {
	snap := p.current.Load()
	resp := &models.SearchResponse{Query: text}

	matches := snap.index.Score(text)
	if len(matches) > p.config.TopK {
		matches = matches[:p.config.TopK]
	}

	for _, m := range matches {
		if m.Similarity <= p.threshold {
			// sorted, nothing after this can pass
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		article := snap.articles[m.Row]
		summary, err := p.summarizer.Summarize(ctx, article.Body)
		if err != nil {
			return nil, fmt.Errorf("summarizing %q: %w", article.Title, err)
		}

		if err := p.persist(ctx, article.Title, summary); err != nil {
			logger.Warn("summary for %q not saved: %v", article.Title, err)
			resp.PersistFailures = append(resp.PersistFailures, models.PersistFailure{
				Title: article.Title,
				Err:   err,
			})
		}

		resp.Results = append(resp.Results, models.RankedResult{
			Title:      article.Title,
			Link:       article.Link,
			Source:     article.Source,
			Summary:    summary,
			Similarity: m.Similarity,
		})
	}

	logger.Debug("query %q: %d results", text, len(resp.Results))
	return resp, nil
}

func (p *Pipeline) persist(ctx context.Context, title, summary string) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if err := p.store.UpdateSummary(ctx, title, summary); err != nil {
		if errors.Is(err, types.ErrStoreWrite) {
			return err
		}
		return fmt.Errorf("%w: %v", types.ErrStoreWrite, err)
	}
	return nil
}
