// Package cache holds generated summaries keyed by the original article body.
// The whole mapping is rewritten to a JSON file after every new entry.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xhad/newsum/internal/types"
	"github.com/xhad/newsum/pkg/logger"
)

// Cache is safe for concurrent use. Entries are never replaced or evicted.
type Cache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

// Open loads the cache at path. A missing file yields an empty cache; an
// unreadable or malformed file is logged and also yields an empty cache.
func Open(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]string)}
	entries, err := load(path)
	if err != nil {
		logger.Warn("starting with empty summary cache: %v", err)
		return c
	}
	c.entries = entries
	logger.Debug("loaded %d cached summaries from %s", len(entries), path)
	return c
}

func load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", types.ErrCacheCorruption, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]string{}, nil
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", types.ErrCacheCorruption, path, err)
	}
	return entries, nil
}

// Get returns the cached summary for body.
func (c *Cache) Get(body string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	summary, ok := c.entries[body]
	return summary, ok
}

// Put stores summary under body and flushes the cache to disk. If body is
// already cached the existing value is kept and nothing is written. The entry
// stays in memory even when the flush fails.
func (c *Cache) Put(body, summary string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[body]; ok {
		return nil
	}
	c.entries[body] = summary
	return c.flush()
}

// Len returns the number of cached summaries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// flush writes a temp file next to the target and renames it into place.
func (c *Cache) flush() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(c.entries); err != nil {
		return fmt.Errorf("encoding summary cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing summary cache: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing summary cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing summary cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replacing summary cache: %w", err)
	}
	return nil
}
