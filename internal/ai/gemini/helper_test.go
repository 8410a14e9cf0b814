package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/repograde/internal/ai"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"google.golang.org/genai"
)

func TestExtractUsage(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		assert.Nil(t, extractUsage(nil))
	})

	t.Run("nil UsageMetadata", func(t *testing.T) {
		assert.Nil(t, extractUsage(&genai.GenerateContentResponse{}))
	})

	t.Run("valid UsageMetadata", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     10,
				CandidatesTokenCount: 20,
				TotalTokenCount:      30,
			},
		}
		usage := extractUsage(resp)
		require.NotNil(t, usage)
		assert.Equal(t, 10, usage.InputTokens)
		assert.Equal(t, 20, usage.OutputTokens)
		assert.Equal(t, 30, usage.TotalTokens)
	})
}

func TestGetGenerateConfig(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		cfg := GetGenerateConfig("gemini-2.5-pro", "", nil)
		assert.Equal(t, float32(0.3), *cfg.Temperature)
		assert.Empty(t, cfg.ResponseMIMEType)
		assert.Nil(t, cfg.ResponseSchema)
		assert.Nil(t, cfg.ThinkingConfig)
	})

	t.Run("json response with schema", func(t *testing.T) {
		schema := &genai.Schema{Type: genai.TypeObject}
		cfg := GetGenerateConfig("gemini-2.5-pro", "application/json", schema)
		assert.Equal(t, "application/json", cfg.ResponseMIMEType)
		assert.Same(t, schema, cfg.ResponseSchema)
	})

	t.Run("flash models disable thinking", func(t *testing.T) {
		cfg := GetGenerateConfig("gemini-2.5-flash-lite", "", nil)
		require.NotNil(t, cfg.ThinkingConfig)
		assert.Equal(t, int32(0), *cfg.ThinkingConfig.ThinkingBudget)
	})
}

func TestToGenaiSchema(t *testing.T) {
	assert.Nil(t, toGenaiSchema(nil))

	schema := toGenaiSchema(ai.RoadmapSchema())

	assert.Equal(t, genai.TypeObject, schema.Type)
	roadmap := schema.Properties["roadmap"]
	require.NotNil(t, roadmap)
	assert.Equal(t, genai.TypeArray, roadmap.Type)
	assert.Equal(t, int64(3), *roadmap.MinItems)
	assert.Equal(t, int64(5), *roadmap.MaxItems)
	assert.Equal(t, genai.TypeString, roadmap.Items.Properties["priority"].Type)
	assert.Equal(t, []string{"High", "Medium", "Low"}, roadmap.Items.Properties["priority"].Enum)

	dimensions := toGenaiSchema(ai.DimensionScoresSchema())
	assert.Equal(t, genai.TypeInteger, dimensions.Properties["codeQuality"].Type)
	assert.Equal(t, 100.0, *dimensions.Properties["codeQuality"].Maximum)
	assert.Equal(t, ai.DimensionFields, dimensions.PropertyOrdering)
}

func TestFormatResponse(t *testing.T) {
	assert.Empty(t, formatResponse(nil))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking about it", Thought: true},
				{Text: `{"summary":`},
				{Text: `"ok"}`},
			}},
		}},
	}
	assert.Equal(t, `{"summary":"ok"}`, formatResponse(resp))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain object", `{"summary":"ok"}`, `{"summary":"ok"}`},
		{"markdown block", "Here you go:\n```json\n{\"summary\":\"ok\"}\n```", `{"summary":"ok"}`},
		{"surrounding prose", `Sure! {"codeQuality": 80} hope it helps`, `{"codeQuality": 80}`},
		{"braces inside strings", `{"step":"use {} wisely"}`, `{"step":"use {} wisely"}`},
		{"largest block wins", `{"a":1} and {"roadmap":[{"step":"x"}]}`, `{"roadmap":[{"step":"x"}]}`},
		{"raw newline in string", "{\"summary\":\"line one\nline two\"}", `{"summary":"line one\nline two"}`},
		{"no json", "not json at all", "not json at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.input))
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"quota", errors.New("Error 429: Resource exhausted"), domainErrors.ErrGeminiQuotaExceeded},
		{"api key", errors.New("API key not valid"), domainErrors.ErrGeminiAPIKeyInvalid},
		{"other", errors.New("connection reset"), domainErrors.ErrAIGeneration},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyError(tt.err), tt.want)
		})
	}
}
