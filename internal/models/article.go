package models

// Article is one scraped record of the corpus. Body keeps the original text;
// a generated summary is stored next to it and never replaces it.
type Article struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Title   string `json:"title" yaml:"title"`
	Link    string `json:"link" yaml:"link"`
	Body    string `json:"content" yaml:"content"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// RankedResult is a single surfaced search hit. It is built per query and
// never persisted.
type RankedResult struct {
	Title      string  `json:"title"`
	Link       string  `json:"link"`
	Source     string  `json:"source,omitempty"`
	Summary    string  `json:"summary"`
	Similarity float64 `json:"similarity"`
}

// PersistFailure records a summary that was produced but could not be written
// back to the corpus store.
type PersistFailure struct {
	Title string
	Err   error
}

// SearchResponse is the outcome of one query. PersistFailures never turn a
// successful query into a failed one.
type SearchResponse struct {
	Query           string
	Results         []RankedResult
	PersistFailures []PersistFailure
}

// Empty reports whether nothing matched above the similarity threshold.
func (r *SearchResponse) Empty() bool {
	return r == nil || len(r.Results) == 0
}

// GenerationPolicy controls a single summarization call.
type GenerationPolicy struct {
	MaxInputTokens int
	NumBeams       int
	MinLength      int
	MaxLength      int
	LengthPenalty  float64
	EarlyStopping  bool
}

// DefaultGenerationPolicy returns the fixed policy used for article summaries.
func DefaultGenerationPolicy() GenerationPolicy {
	return GenerationPolicy{
		MaxInputTokens: 1024,
		NumBeams:       4,
		MinLength:      80,
		MaxLength:      300,
		LengthPenalty:  1.0,
		EarlyStopping:  true,
	}
}
