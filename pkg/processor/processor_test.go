package processor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/newsum/pkg/processor"
)

func TestProcessor_Prepare(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{MaxTokens: 4})

	got := p.Prepare("  Harga   mobil\nbaru naik  lagi tahun ini ")

	assert.Equal(t, "Harga mobil baru naik", got)
}

func TestProcessor_DefaultBudget(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})
	long := strings.Repeat("kata ", 2000)

	assert.Equal(t, 1024, p.Tokens(p.Prepare(long)))
}

func TestProcessor_TruncateShortText(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	assert.Equal(t, "satu dua", p.Truncate("satu dua", 10))
	assert.Equal(t, "satu dua", p.Truncate("satu dua", 0))
}

func TestProcessor_Sentences(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	got := p.Sentences("Mobil baru dirilis. Harganya naik! Apa kabar? sisa teks")

	assert.Equal(t, []string{"Mobil baru dirilis.", "Harganya naik!", "Apa kabar?", "sisa teks"}, got)
}
