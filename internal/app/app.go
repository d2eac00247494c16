// Package app wires the configured store, cache, summarizer and pipeline
// into one value built at process start.
package app

import (
	"context"
	"fmt"

	"github.com/xhad/newsum/internal/types"
	"github.com/xhad/newsum/pkg/cache"
	"github.com/xhad/newsum/pkg/config"
	"github.com/xhad/newsum/pkg/index"
	"github.com/xhad/newsum/pkg/llm"
	"github.com/xhad/newsum/pkg/logger"
	"github.com/xhad/newsum/pkg/pipeline"
	"github.com/xhad/newsum/pkg/store"
	"github.com/xhad/newsum/pkg/summarizer"
)

type App struct {
	Config     *config.Config
	Store      types.ArticleStore
	Cache      *cache.Cache
	Summarizer *summarizer.Summarizer
	Pipeline   *pipeline.Pipeline
}

// OpenStore connects to the configured corpus store.
func OpenStore(ctx context.Context, cfg *config.Config) (types.ArticleStore, error) {
	return store.Open(ctx, store.StoreConfig{
		Driver:     cfg.Database.Driver,
		ConnString: cfg.Database.URL,
		TableName:  cfg.Database.TableName,
		Database:   cfg.Database.Name,
	})
}

// NewGenerator returns the summarization backend named by llm.backend.
func NewGenerator(cfg *config.Config) (types.Generator, error) {
	switch cfg.LLM.Backend {
	case "extractive":
		return summarizer.NewFrequencyGenerator(), nil
	case "ollama", "":
		return llm.NewWithConfig(llm.SummaryConfig{
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			BaseURL:     cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown llm backend: %s", cfg.LLM.Backend)
	}
}

// New builds everything a query needs. The corpus is loaded and indexed
// once; Close releases the store.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summarizer backend: %w", err)
	}

	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus store: %w", err)
	}

	c := cache.Open(cfg.Cache.Path)
	logger.Debug("summary cache %s holds %d entries", c.Path(), c.Len())

	s := summarizer.NewWithConfig(summarizer.SummarizerConfig{
		Policy:    cfg.Summarizer.Policy(),
		RateLimit: cfg.LLM.RateLimit,
	}, c, gen)

	opts := index.DefaultOptions()
	opts.MinDF = cfg.Search.MinDF
	opts.MaxDF = cfg.Search.MaxDF

	p, err := pipeline.New(ctx, st, s, pipeline.Config{
		TopK:      cfg.Search.TopK,
		Threshold: cfg.Search.Threshold,
		Index:     opts,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		Store:      st,
		Cache:      c,
		Summarizer: s,
		Pipeline:   p,
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
