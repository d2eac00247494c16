package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
)

// SQLiteStore keeps articles in the scraper's scraped_data table.
type SQLiteStore struct {
	config StoreConfig
	db     *sql.DB
}

func NewSQLite(config StoreConfig) (*SQLiteStore, error) {
	if config.ConnString == "" {
		config.ConnString = "scraped_data.db"
	}
	if config.TableName == "" {
		config.TableName = "scraped_data"
	}
	if !ValidIdentifier(config.TableName) {
		return nil, fmt.Errorf("invalid table name: %q", config.TableName)
	}

	db, err := sql.Open("sqlite", config.ConnString+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite has a single writer
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{config: config, db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			link TEXT NOT NULL,
			content TEXT,
			summary TEXT
		)`, s.config.TableName)
	if _, err := s.db.Exec(createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	// Tables written by the scraper have no summary column yet.
	hasSummary, err := s.hasColumn("summary")
	if err != nil {
		return err
	}
	if !hasSummary {
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN summary TEXT", s.config.TableName)
		if _, err := s.db.Exec(alter); err != nil {
			return fmt.Errorf("failed to add summary column: %w", err)
		}
	}

	createIndex := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_title_idx ON %s (title)",
		s.config.TableName, s.config.TableName)
	if _, err := s.db.Exec(createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

func (s *SQLiteStore) hasColumn(name string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", s.config.TableName))
	if err != nil {
		return false, fmt.Errorf("reading table info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			col, typ   string
			notNull    int
			dflt       sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &col, &typ, &notNull, &dflt, &primaryKey); err != nil {
			return false, fmt.Errorf("scanning table info: %w", err)
		}
		if col == name {
			return true, nil
		}
	}
	return false, rows.Err()
}

// LoadAll returns every article with a non-empty body in insertion order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.Article, error) {
	query := fmt.Sprintf(`
		SELECT id, COALESCE(source, ''), title, link, content, COALESCE(summary, '')
		FROM %s
		WHERE content IS NOT NULL AND content <> ''
		ORDER BY id`, s.config.TableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreRead, err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var (
			id int64
			a  models.Article
		)
		if err := rows.Scan(&id, &a.Source, &a.Title, &a.Link, &a.Body, &a.Summary); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", types.ErrStoreRead, err)
		}
		a.ID = fmt.Sprint(id)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreRead, err)
	}
	return articles, nil
}

// UpdateSummary sets the summary of every row with the given title.
func (s *SQLiteStore) UpdateSummary(ctx context.Context, title, summary string) error {
	stmt := fmt.Sprintf("UPDATE %s SET summary = ? WHERE title = ?", s.config.TableName)
	res, err := s.db.ExecContext(ctx, stmt, summary, title)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrStoreWrite, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrStoreWrite, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %w: %q", types.ErrStoreWrite, types.ErrArticleNotFound, title)
	}
	return nil
}

// Insert appends articles in one transaction.
func (s *SQLiteStore) Insert(ctx context.Context, articles []models.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (source, title, link, content, summary) VALUES (?, ?, ?, ?, NULLIF(?, ''))",
		s.config.TableName))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		if _, err := stmt.ExecContext(ctx, a.Source, a.Title, a.Link, a.Body, a.Summary); err != nil {
			return fmt.Errorf("failed to insert article %q: %w", a.Title, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
