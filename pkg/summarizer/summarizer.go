package summarizer

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
	"github.com/xhad/newsum/pkg/cache"
	"github.com/xhad/newsum/pkg/logger"
	"github.com/xhad/newsum/pkg/processor"
)

type SummarizerConfig struct {
	Policy models.GenerationPolicy
	// RateLimit is the maximum number of generator calls per second; zero
	// disables limiting.
	RateLimit float64
}

// Summarizer memoizes generator output per exact article body.
type Summarizer struct {
	config    SummarizerConfig
	cache     *cache.Cache
	generator types.Generator
	processor processor.Processor
	limiter   *rate.Limiter
	group     singleflight.Group
}

var _ types.Summarizer = (*Summarizer)(nil)

func NewWithConfig(config SummarizerConfig, c *cache.Cache, gen types.Generator) *Summarizer {
	if config.Policy == (models.GenerationPolicy{}) {
		config.Policy = models.DefaultGenerationPolicy()
	}

	s := &Summarizer{
		config:    config,
		cache:     c,
		generator: gen,
		processor: processor.NewWithConfig(processor.ProcessorConfig{
			MaxTokens: config.Policy.MaxInputTokens,
		}),
	}
	if config.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	return s
}

// Summarize returns the cached summary for body, or generates, caches and
// returns a new one. Concurrent misses on the same body share one call.
func (s *Summarizer) Summarize(ctx context.Context, body string) (string, error) {
	if summary, ok := s.cache.Get(body); ok {
		logger.Debug("summary cache hit (%d bytes)", len(body))
		return summary, nil
	}

	// The shared call outlives any single caller; each caller stops waiting
	// on its own ctx.
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(body, func() (interface{}, error) {
		if summary, ok := s.cache.Get(body); ok {
			return summary, nil
		}
		return s.generate(detached, body)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", types.ErrSummarization, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (s *Summarizer) generate(ctx context.Context, body string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: waiting for rate limiter: %v", types.ErrSummarization, err)
		}
	}

	input := s.processor.Prepare(body)
	logger.Debug("generating summary from %d tokens", s.processor.Tokens(input))

	summary, err := s.generator.Generate(ctx, input, s.config.Policy)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrSummarization, err)
	}

	if err := s.cache.Put(body, summary); err != nil {
		logger.Warn("summary cached in memory only: %v", err)
	}
	return summary, nil
}
