package types

import "errors"

var (
	// ErrEmptyCorpus means an index was requested over zero titles.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrStoreRead means the corpus could not be loaded.
	ErrStoreRead = errors.New("corpus store read failed")

	// ErrStoreWrite means a summary could not be written back.
	ErrStoreWrite = errors.New("corpus store write failed")

	// ErrArticleNotFound means an update matched no record.
	ErrArticleNotFound = errors.New("article not found")

	// ErrSummarization means the generator failed for a body.
	ErrSummarization = errors.New("summarization failed")

	// ErrCacheCorruption means the on-disk summary cache could not be parsed.
	ErrCacheCorruption = errors.New("summary cache corrupted")
)
