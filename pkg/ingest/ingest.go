// Package ingest loads scraped article exports into a corpus store.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
	"github.com/xhad/newsum/pkg/logger"
)

const defaultBatchSize = 100

// record accepts both the scraper's "content" key and a plain "body" key.
type record struct {
	Source  string `json:"source" yaml:"source"`
	Title   string `json:"title" yaml:"title"`
	Link    string `json:"link" yaml:"link"`
	Content string `json:"content" yaml:"content"`
	Body    string `json:"body" yaml:"body"`
}

func (r record) article() models.Article {
	body := r.Content
	if body == "" {
		body = r.Body
	}
	return models.Article{
		Source: strings.TrimSpace(r.Source),
		Title:  strings.TrimSpace(r.Title),
		Link:   strings.TrimSpace(r.Link),
		Body:   body,
	}
}

// Load reads a JSON array or a YAML list of articles. Records without a
// title are dropped.
func Load(path string) ([]models.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var records []record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	articles := make([]models.Article, 0, len(records))
	for i, r := range records {
		a := r.article()
		if a.Title == "" {
			logger.Warn("skipping record %d in %s: missing title", i, path)
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// Config controls how articles are written.
type Config struct {
	BatchSize int
	// OnProgress is called with the number of articles written so far.
	OnProgress func(done, total int)
}

// Run inserts articles into the store in batches.
func Run(ctx context.Context, store types.ArticleStore, articles []models.Article, config Config) (int, error) {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}

	written := 0
	for i := 0; i < len(articles); i += config.BatchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := i + config.BatchSize
		if end > len(articles) {
			end = len(articles)
		}
		batch := articles[i:end]

		if err := store.Insert(ctx, batch); err != nil {
			return written, fmt.Errorf("failed to store batch: %w", err)
		}
		written += len(batch)
		logger.Debug("stored %d/%d articles", written, len(articles))
		if config.OnProgress != nil {
			config.OnProgress(written, len(articles))
		}
	}
	return written, nil
}
