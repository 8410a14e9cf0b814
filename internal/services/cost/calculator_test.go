package cost

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_EstimateCost(t *testing.T) {
	tests := []struct {
		name         string
		provider     string
		model        string
		inputTokens  int
		outputTokens int
		want         float64
	}{
		{
			name:         "Gemini 2.5 Flash - exact match",
			provider:     "gemini",
			model:        "gemini-2.5-flash",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         0.30 + 2.50,
		},
		{
			name:         "Gemini 2.5 Flash - case insensitive",
			provider:     "GEMINI",
			model:        "Gemini-2.5-Flash",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         0.30 + 2.50,
		},
		{
			name:         "Versioned lite model resolves to the lite price",
			provider:     "gemini",
			model:        "gemini-2.5-flash-lite-001",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         0.10 + 0.40,
		},
		{
			name:         "Small call",
			provider:     "gemini",
			model:        "gemini-2.5-pro",
			inputTokens:  2_000,
			outputTokens: 500,
			want:         0.0025 + 0.005,
		},
		{
			name:         "Unknown provider",
			provider:     "acme",
			model:        "gemini-2.5-pro",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         0,
		},
		{
			name:         "Unknown model",
			provider:     "gemini",
			model:        "gemini-0.1-nano",
			inputTokens:  1_000_000,
			outputTokens: 1_000_000,
			want:         0,
		},
	}

	calc := NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.EstimateCost(tt.provider, tt.model, tt.inputTokens, tt.outputTokens)
			assert.True(t, math.Abs(got-tt.want) < 1e-9, "EstimateCost() = %v, want %v", got, tt.want)
		})
	}
}

func TestCalculator_GetPricing(t *testing.T) {
	calc := NewCalculator()

	table, err := calc.GetPricing("gemini", "gemini-2.5-pro")
	require.NoError(t, err)
	assert.Equal(t, 1.25, table.InputPricePerMillion)

	_, err = calc.GetPricing("openai", "gpt-4o")
	assert.ErrorContains(t, err, "provider openai not found")

	_, err = calc.GetPricing("gemini", "gemini-9")
	assert.ErrorContains(t, err, "model gemini-9 not found")
}

func TestCalculator_AddPricing(t *testing.T) {
	calc := NewCalculator()
	calc.AddPricing("Local", "Tiny", PricingTable{InputPricePerMillion: 1, OutputPricePerMillion: 2})

	assert.InDelta(t, 3.0, calc.EstimateCost("local", "tiny", 1_000_000, 1_000_000), 1e-9)

	other := NewCalculator()
	assert.Zero(t, other.EstimateCost("local", "tiny", 1_000_000, 1_000_000), "pricing must not leak between calculators")
}
