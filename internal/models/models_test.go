package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepositoryRef(t *testing.T) {
	ref := RepositoryRef{Host: "github.com", Owner: "Octo", Name: "Hello"}

	assert.Equal(t, "octo/hello", ref.Key())
	assert.Equal(t, "github.com/Octo/Hello", ref.String())
	assert.Equal(t, "https://github.com/Octo/Hello", ref.URL())
}

func TestContentSnapshot_Presence(t *testing.T) {
	readme := ""
	snapshot := ContentSnapshot{Readme: &readme}

	assert.True(t, snapshot.HasReadme(), "an empty readme is still present")
	assert.False(t, snapshot.HasManifest())
	assert.False(t, snapshot.HasTree())
	assert.False(t, snapshot.Empty())
	assert.True(t, ContentSnapshot{}.Empty())
	assert.True(t, ContentSnapshot{FileTree: []string{}}.HasTree())
}

func TestDimensionScores_Validate(t *testing.T) {
	valid := DimensionScores{CodeQuality: 0, ProjectStructure: 100, Documentation: 50, TestCoverage: 1, RealWorldRelevance: 99, CommitConsistency: 75}
	assert.NoError(t, valid.Validate())

	invalid := DimensionScores{CodeQuality: -1, TestCoverage: 101}
	err := invalid.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "codeQuality=-1")
		assert.Contains(t, err.Error(), "testCoverage=101")
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  Priority
		ok    bool
	}{
		{"High", PriorityHigh, true},
		{"  medium ", PriorityMedium, true},
		{"LOW", PriorityLow, true},
		{"urgent", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePriority(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenUsage_Add(t *testing.T) {
	total := &TokenUsage{}
	total.Add(&TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, CostUSD: 0.01, Model: "gemini-2.5-flash", DurationMs: 100})
	total.Add(nil)
	total.Add(&TokenUsage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3, Model: "other"})

	assert.Equal(t, 11, total.InputTokens)
	assert.Equal(t, 7, total.OutputTokens)
	assert.Equal(t, 18, total.TotalTokens)
	assert.Equal(t, "gemini-2.5-flash", total.Model)
	assert.Equal(t, int64(100), total.DurationMs)
}

func TestPipelineState_Terminal(t *testing.T) {
	assert.True(t, StateAssembled.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateGeneratingOutputs.Terminal())
	assert.False(t, StateIdle.Terminal())
}
