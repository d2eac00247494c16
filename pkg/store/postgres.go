package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
)

type PostgresStore struct {
	config StoreConfig
	pool   *pgxpool.Pool
}

func NewPostgres(ctx context.Context, config StoreConfig) (*PostgresStore, error) {
	if config.TableName == "" {
		config.TableName = "articles"
	}
	if !ValidIdentifier(config.TableName) {
		return nil, fmt.Errorf("invalid table name: %q", config.TableName)
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ps := &PostgresStore{
		config: config,
		pool:   pool,
	}

	if err := ps.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return ps, nil
}

func (ps *PostgresStore) initialize(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			source TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			link TEXT NOT NULL,
			content TEXT,
			summary TEXT
		)`, ps.config.TableName)

	if _, err := ps.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_title_idx ON %s (title)`,
		ps.config.TableName, ps.config.TableName)
	if _, err := ps.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

func (ps *PostgresStore) LoadAll(ctx context.Context) ([]models.Article, error) {
	query := fmt.Sprintf(`
		SELECT id, source, title, link, content, COALESCE(summary, '')
		FROM %s
		WHERE content IS NOT NULL AND content <> ''
		ORDER BY seq`,
		ps.config.TableName)

	rows, err := ps.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreRead, err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Source, &a.Title, &a.Link, &a.Body, &a.Summary); err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %v", types.ErrStoreRead, err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreRead, err)
	}

	return articles, nil
}

func (ps *PostgresStore) UpdateSummary(ctx context.Context, title, summary string) error {
	stmt := fmt.Sprintf(`UPDATE %s SET summary = $1 WHERE title = $2`, ps.config.TableName)
	tag, err := ps.pool.Exec(ctx, stmt, sanitizeUTF8(summary), title)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrStoreWrite, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %w: %q", types.ErrStoreWrite, types.ErrArticleNotFound, title)
	}
	return nil
}

func (ps *PostgresStore) Insert(ctx context.Context, articles []models.Article) error {
	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, source, title, link, content, summary)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			link = EXCLUDED.link,
			content = EXCLUDED.content`,
		ps.config.TableName)

	for _, a := range articles {
		id := a.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.Exec(ctx, stmt,
			id,
			sanitizeUTF8(a.Source),
			sanitizeUTF8(a.Title),
			a.Link,
			sanitizeUTF8(a.Body),
			sanitizeUTF8(a.Summary),
		)
		if err != nil {
			return fmt.Errorf("failed to insert article %q: %w", a.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	if ps.pool != nil {
		ps.pool.Close()
	}
	return nil
}
