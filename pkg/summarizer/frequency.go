package summarizer

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
	"github.com/xhad/newsum/pkg/index"
	"github.com/xhad/newsum/pkg/processor"
)

// FrequencyGenerator is an offline extractive generator: it ranks sentences
// by normalized term frequency and keeps the best ones, in original order,
// until the policy's MaxLength in words is reached.
type FrequencyGenerator struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
	processor    processor.Processor
}

var _ types.Generator = (*FrequencyGenerator)(nil)

func NewFrequencyGenerator() *FrequencyGenerator {
	return &FrequencyGenerator{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    index.EnglishStopWords(),
		processor:    processor.NewWithConfig(processor.ProcessorConfig{}),
	}
}

func (g *FrequencyGenerator) Generate(ctx context.Context, text string, policy models.GenerationPolicy) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sentences := g.processor.Sentences(text)
	if len(sentences) == 0 {
		return g.processor.Truncate(text, policy.MaxLength), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range g.tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		toks := g.tokens(sent)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok]
		}
		// Normalize by sentence length to avoid bias
		if len(toks) > 0 {
			score /= math.Sqrt(float64(len(toks)))
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	var selected []int
	words := 0
	for _, p := range scores {
		n := g.processor.Tokens(sentences[p.idx])
		if policy.MaxLength > 0 && words+n > policy.MaxLength && len(selected) > 0 {
			continue
		}
		selected = append(selected, p.idx)
		words += n
	}
	sort.Ints(selected)

	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return g.processor.Truncate(strings.Join(out, " "), policy.MaxLength), nil
}

func (g *FrequencyGenerator) tokens(text string) []string {
	raw := g.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, ok := g.stopwords[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
