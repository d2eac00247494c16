package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/newsum/internal/models"
)

func init() {
	color.NoColor = true
}

func TestRender_NoResults(t *testing.T) {
	var buf bytes.Buffer
	render(&buf, &models.SearchResponse{Query: "xyz"})
	assert.Equal(t, "No results.\n", buf.String())
}

func TestRender_Results(t *testing.T) {
	var buf bytes.Buffer
	render(&buf, &models.SearchResponse{Results: []models.RankedResult{
		{Title: "Mobil Baru Dirilis", Link: "https://example.com/1", Source: "Carsome", Summary: "ringkasan", Similarity: 0.8165},
	}})

	out := buf.String()
	assert.Contains(t, out, "1. Mobil Baru Dirilis")
	assert.Contains(t, out, "Source: Carsome")
	assert.Contains(t, out, "Link: https://example.com/1")
	assert.Contains(t, out, "Summary: ringkasan")
	assert.Contains(t, out, "Similarity: 0.82")
}

func TestRenderJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, &models.SearchResponse{}))

	var results []models.RankedResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestIngestThenSearch(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "articles.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
		{"source": "Carsome", "title": "Mobil Baru Dirilis", "link": "https://example.com/1",
		 "content": "Mobil baru resmi dirilis hari ini. Mobil baru ini hemat bahan bakar."},
		{"source": "Oto", "title": "Harga Spare Part Naik", "link": "https://example.com/2",
		 "content": "Harga suku cadang naik bulan ini."}
	]`), 0644))

	common := []string{
		"--backend", "extractive",
		"--db-driver", "sqlite",
		"--db-url", filepath.Join(dir, "scraped_data.db"),
		"--cache", filepath.Join(dir, "summaries.json"),
	}

	root := newRootCmd()
	root.SetArgs(append([]string{"ingest", input}, common...))
	require.NoError(t, root.Execute())

	var out bytes.Buffer
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs(append([]string{"search", "--json", "mobil baru"}, common...))
	require.NoError(t, root.Execute())

	var results []models.RankedResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Mobil Baru Dirilis", results[0].Title)
	assert.NotEmpty(t, results[0].Summary)

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs(append([]string{"cache", "stats"}, common...))
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Entries: 1")
}
