package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTickers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "aapl", []string{"AAPL"}},
		{"comma", "aapl,msft", []string{"AAPL", "MSFT"}},
		{"space", "aapl msft", []string{"AAPL", "MSFT"}},
		{"comma and space", "aapl, msft ,goog", []string{"AAPL", "MSFT", "GOOG"}},
		{"keeps order and duplicates", "msft,aapl,msft", []string{"MSFT", "AAPL", "MSFT"}},
		{"empty", " , ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTickers(tt.input))
		})
	}
}

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeTicker("  aApl "))
	assert.Equal(t, "", NormalizeTicker("   "))
}
