package summarizer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/pkg/summarizer"
)

func TestFrequencyGenerator_RespectsMaxLength(t *testing.T) {
	g := summarizer.NewFrequencyGenerator()
	text := strings.Repeat("Mobil listrik baru dirilis di Jakarta minggu ini. ", 50) +
		"Harga spare part naik tajam. "

	got, err := g.Generate(context.Background(), text, models.GenerationPolicy{MaxLength: 20})
	require.NoError(t, err)

	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(strings.Fields(got)), 20)
}

func TestFrequencyGenerator_PrefersFrequentTerms(t *testing.T) {
	g := summarizer.NewFrequencyGenerator()
	text := "Mobil listrik makin populer. Mobil listrik hemat energi. Cuaca cerah hari ini. Mobil listrik dijual murah."

	got, err := g.Generate(context.Background(), text, models.GenerationPolicy{MaxLength: 8})
	require.NoError(t, err)

	assert.Contains(t, got, "Mobil listrik")
	assert.NotContains(t, got, "Cuaca")
}

func TestFrequencyGenerator_NoSentences(t *testing.T) {
	g := summarizer.NewFrequencyGenerator()

	got, err := g.Generate(context.Background(), "", models.DefaultGenerationPolicy())
	require.NoError(t, err)
	assert.Empty(t, got)
}
