// Package store provides the corpus store backends: sqlite (default, the
// scraper's schema), postgres and mongo.
package store

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/xhad/newsum/internal/types"
)

type StoreConfig struct {
	// Driver is one of sqlite, postgres or mongo.
	Driver     string
	ConnString string
	TableName  string
	// Database is the mongo database name.
	Database string
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name can be used as a table name.
func ValidIdentifier(name string) bool {
	return identifier.MatchString(name)
}

// Open connects to the configured backend.
func Open(ctx context.Context, config StoreConfig) (types.ArticleStore, error) {
	switch config.Driver {
	case "sqlite", "":
		return NewSQLite(config)
	case "postgres":
		return NewPostgres(ctx, config)
	case "mongo":
		return NewMongo(ctx, config)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", config.Driver)
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
