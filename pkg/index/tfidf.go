// Package index implements the lexical title index: a TF-IDF vector space
// fitted once over the corpus titles and scored with cosine similarity.
package index

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/xhad/newsum/internal/types"
)

// Options configures vocabulary pruning.
type Options struct {
	StopWords map[string]struct{}
	// MinDF is the minimum number of titles a term must appear in.
	MinDF int
	// MaxDF is the maximum share of titles a term may appear in.
	MaxDF float64
}

// DefaultOptions returns English stop words, min_df 1 and max_df 0.9.
func DefaultOptions() Options {
	return Options{
		StopWords: EnglishStopWords(),
		MinDF:     1,
		MaxDF:     0.9,
	}
}

// Match is the similarity of one title row to a query.
type Match struct {
	Row        int
	Similarity float64
}

type sparseVector struct {
	terms   []int
	weights []float64
}

// Index is immutable once built; row i corresponds to titles[i].
type Index struct {
	vocabulary map[string]int
	idf        []float64
	rows       []sparseVector
	stopwords  map[string]struct{}
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// Build fits the vectorizer and the title matrix together.
func Build(titles []string, opts Options) (*Index, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: cannot build index over zero titles", types.ErrEmptyCorpus)
	}
	if opts.MinDF < 1 {
		opts.MinDF = 1
	}
	if opts.MaxDF <= 0 || opts.MaxDF > 1 {
		opts.MaxDF = 1
	}

	ix := &Index{stopwords: opts.StopWords}
	if ix.stopwords == nil {
		ix.stopwords = map[string]struct{}{}
	}

	docs := make([][]string, len(titles))
	df := make(map[string]int)
	for i, title := range titles {
		docs[i] = ix.tokenize(title)
		seen := make(map[string]struct{})
		for _, tok := range docs[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(titles))
	terms := prune(df, opts, n)

	// Create stable ordering for vocabulary
	sort.Strings(terms)
	ix.vocabulary = make(map[string]int, len(terms))
	ix.idf = make([]float64, len(terms))
	for i, term := range terms {
		ix.vocabulary[term] = i
		// Smoothed IDF
		ix.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	ix.rows = make([]sparseVector, len(docs))
	for i, tokens := range docs {
		ix.rows[i] = ix.vectorize(tokens)
	}
	return ix, nil
}

// prune applies min_df and max_df. max_df is skipped when it would leave no
// term at all, which happens for a single title.
func prune(df map[string]int, opts Options, n float64) []string {
	maxCount := opts.MaxDF * n
	var kept, minOnly []string
	for term, count := range df {
		if count < opts.MinDF {
			continue
		}
		minOnly = append(minOnly, term)
		if float64(count) <= maxCount {
			kept = append(kept, term)
		}
	}
	if len(kept) == 0 {
		return minOnly
	}
	return kept
}

// Len returns the number of rows.
func (ix *Index) Len() int { return len(ix.rows) }

// Vocabulary returns the number of retained terms.
func (ix *Index) Vocabulary() int { return len(ix.idf) }

// Score returns every row ordered by descending cosine similarity to query.
// Ties keep row order. Unknown terms are ignored.
func (ix *Index) Score(query string) []Match {
	q := ix.vectorize(ix.tokenize(query))
	weights := make(map[int]float64, len(q.terms))
	for i, t := range q.terms {
		weights[t] = q.weights[i]
	}

	matches := make([]Match, len(ix.rows))
	for row, vec := range ix.rows {
		sim := 0.0
		for i, t := range vec.terms {
			sim += vec.weights[i] * weights[t]
		}
		if sim > 1 {
			sim = 1
		}
		matches[row] = Match{Row: row, Similarity: sim}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// vectorize builds an L2-normalized tf*idf vector over known terms.
func (ix *Index) vectorize(tokens []string) sparseVector {
	tf := make(map[int]int)
	for _, tok := range tokens {
		if idx, ok := ix.vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	vec := sparseVector{
		terms:   make([]int, 0, len(tf)),
		weights: make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		vec.terms = append(vec.terms, idx)
	}
	sort.Ints(vec.terms)

	norm := 0.0
	for _, idx := range vec.terms {
		w := float64(tf[idx]) * ix.idf[idx]
		vec.weights = append(vec.weights, w)
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.weights {
			vec.weights[i] /= norm
		}
	}
	return vec
}

func (ix *Index) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := ix.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}
