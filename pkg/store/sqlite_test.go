package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
	"github.com/xhad/newsum/pkg/store"
)

func testArticles() []models.Article {
	return []models.Article{
		{Source: "Carsome", Title: "Mobil Baru Dirilis", Link: "https://example.com/1", Body: "isi artikel satu"},
		{Source: "Oto", Title: "Harga Spare Part Naik", Link: "https://example.com/2", Body: "isi artikel dua"},
		{Source: "Oto", Title: "Tanpa Isi", Link: "https://example.com/3"},
	}
}

func newSQLite(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(store.StoreConfig{ConnString: filepath.Join(t.TempDir(), "scraped_data.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_InsertAndLoadAll(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, testArticles()))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)

	// empty bodies are skipped, order is preserved
	require.Len(t, got, 2)
	assert.Equal(t, "Mobil Baru Dirilis", got[0].Title)
	assert.Equal(t, "Carsome", got[0].Source)
	assert.Equal(t, "isi artikel satu", got[0].Body)
	assert.Equal(t, "Harga Spare Part Naik", got[1].Title)
	assert.NotEmpty(t, got[0].ID)
}

func TestSQLiteStore_UpdateSummaryKeepsBody(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, testArticles()))

	require.NoError(t, s.UpdateSummary(ctx, "Mobil Baru Dirilis", "ringkasan satu"))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "isi artikel satu", got[0].Body)
	assert.Equal(t, "ringkasan satu", got[0].Summary)
	assert.Empty(t, got[1].Summary)
}

func TestSQLiteStore_UpdateUnknownTitle(t *testing.T) {
	s := newSQLite(t)

	err := s.UpdateSummary(context.Background(), "tidak ada", "x")

	assert.ErrorIs(t, err, types.ErrStoreWrite)
	assert.ErrorIs(t, err, types.ErrArticleNotFound)
}

func TestSQLiteStore_MigratesScraperTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraped_data.db")

	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`CREATE TABLE scraped_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		content TEXT
	)`)
	require.NoError(t, err)
	_, err = legacy.Exec(`INSERT INTO scraped_data (source, title, link, content)
		VALUES ('Autopedia', 'Tips Merawat Aki', 'https://example.com/aki', 'isi aki')`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	s, err := store.NewSQLite(store.StoreConfig{ConnString: path})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.UpdateSummary(ctx, "Tips Merawat Aki", "ringkasan aki"))
	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ringkasan aki", got[0].Summary)
	assert.Equal(t, "isi aki", got[0].Body)
}

func TestSQLiteStore_InvalidTableName(t *testing.T) {
	_, err := store.NewSQLite(store.StoreConfig{
		ConnString: filepath.Join(t.TempDir(), "x.db"),
		TableName:  "drop table;",
	})
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := store.Open(context.Background(), store.StoreConfig{Driver: "cassandra"})
	assert.Error(t, err)
}
