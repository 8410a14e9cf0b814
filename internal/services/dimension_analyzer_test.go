package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/repograde/internal/ai"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/models"
)

func operation(op ai.Operation) interface{} {
	return mock.MatchedBy(func(req ai.GenerationRequest) bool {
		return req.Operation == op
	})
}

func TestDimensionAnalyzer_Analyze(t *testing.T) {
	t.Run("should keep model scores backed by evidence", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req ai.GenerationRequest) bool {
			return req.Operation == ai.OperationDimensions &&
				req.Schema != nil &&
				strings.Contains(req.Instruction, "src/greet.test.js") &&
				strings.Contains(req.Instruction, "Manifest (package.json)")
		})).Return(response(validScoresJSON), nil).Once()

		scores, err := NewDimensionAnalyzer(gen).Analyze(context.Background(), fullSnapshot())

		require.NoError(t, err)
		assert.Equal(t, models.DimensionScores{
			CodeQuality:        90,
			ProjectStructure:   80,
			Documentation:      70,
			TestCoverage:       60,
			RealWorldRelevance: 50,
			CommitConsistency:  75,
		}, scores)
		gen.AssertExpectations(t)
	})

	t.Run("should apply every fallback to an empty snapshot", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, operation(ai.OperationDimensions)).
			Return(response(`{"codeQuality":95,"projectStructure":95,"documentation":95,"testCoverage":95,"realWorldRelevance":95,"commitConsistency":95}`), nil)

		scores, err := NewDimensionAnalyzer(gen).Analyze(context.Background(), models.ContentSnapshot{})

		require.NoError(t, err)
		assert.Equal(t, models.DimensionScores{
			CodeQuality:        20,
			ProjectStructure:   20,
			Documentation:      10,
			TestCoverage:       0,
			RealWorldRelevance: 50,
			CommitConsistency:  50,
		}, scores)
	})

	t.Run("should retry once with a correction", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, operation(ai.OperationDimensions)).
			Return(response(`{"codeQuality":"high","projectStructure":80}`), nil).Once()
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req ai.GenerationRequest) bool {
			return strings.Contains(req.Instruction, "# Correction") &&
				strings.Contains(req.Instruction, "codeQuality is not a number") &&
				strings.Contains(req.Instruction, "documentation is missing")
		})).Return(response(validScoresJSON), nil).Once()

		scores, err := NewDimensionAnalyzer(gen).Analyze(context.Background(), fullSnapshot())

		require.NoError(t, err)
		assert.Equal(t, 90, scores.CodeQuality)
		gen.AssertNumberOfCalls(t, "Generate", 2)
	})

	t.Run("should fail after two schema violations", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, operation(ai.OperationDimensions)).
			Return(response(`{"codeQuality":140,"projectStructure":80,"documentation":70,"testCoverage":60,"realWorldRelevance":50,"commitConsistency":75}`), nil)

		_, err := NewDimensionAnalyzer(gen).Analyze(context.Background(), fullSnapshot())

		require.Error(t, err)
		assert.ErrorIs(t, err, domainErrors.ErrAnalysisSchemaViolation)
		assert.Contains(t, err.Error(), "codeQuality is 140")
		gen.AssertNumberOfCalls(t, "Generate", 2)
	})

	t.Run("should not retry a generation failure", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, operation(ai.OperationDimensions)).
			Return(nil, domainErrors.ErrGeminiQuotaExceeded)

		_, err := NewDimensionAnalyzer(gen).Analyze(context.Background(), fullSnapshot())

		assert.ErrorIs(t, err, domainErrors.ErrGenerationFailure)
		assert.ErrorIs(t, err, domainErrors.ErrGeminiQuotaExceeded)
		gen.AssertNumberOfCalls(t, "Generate", 1)
	})

	t.Run("should fail when the corrective call errors", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, operation(ai.OperationDimensions)).
			Return(response(`not json`), nil).Once()
		gen.On("Generate", mock.Anything, operation(ai.OperationDimensions)).
			Return(nil, errors.New("connection reset")).Once()

		_, err := NewDimensionAnalyzer(gen).Analyze(context.Background(), fullSnapshot())

		assert.ErrorIs(t, err, domainErrors.ErrGenerationFailure)
	})

	t.Run("should score a trivial readme as minimal documentation", func(t *testing.T) {
		snapshot := fullSnapshot()
		snapshot.Readme = strPtr("# hello")
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, operation(ai.OperationDimensions)).Return(response(validScoresJSON), nil)

		scores, err := NewDimensionAnalyzer(gen).Analyze(context.Background(), snapshot)

		require.NoError(t, err)
		assert.Equal(t, 10, scores.Documentation)
		assert.Equal(t, 50, scores.RealWorldRelevance, "a present readme keeps the model's relevance score")
	})

	t.Run("should render the prompt in spanish", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", mock.Anything, mock.MatchedBy(func(req ai.GenerationRequest) bool {
			return strings.Contains(req.Instruction, "# Tarea")
		})).Return(response(validScoresJSON), nil)

		_, err := NewDimensionAnalyzer(gen, WithAnalyzerLanguage("es")).Analyze(context.Background(), fullSnapshot())

		require.NoError(t, err)
	})
}

func TestParseDimensionScores(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       models.DimensionScores
		violations []string
	}{
		{
			name: "rounds fractional values",
			raw:  `{"codeQuality":79.6,"projectStructure":0.4,"documentation":100,"testCoverage":0,"realWorldRelevance":50.5,"commitConsistency":75}`,
			want: models.DimensionScores{CodeQuality: 80, ProjectStructure: 0, Documentation: 100, TestCoverage: 0, RealWorldRelevance: 51, CommitConsistency: 75},
		},
		{
			name:       "not an object",
			raw:        `[1,2,3]`,
			violations: []string{"response is not a JSON object"},
		},
		{
			name:       "null and missing fields",
			raw:        `{"codeQuality":null,"projectStructure":80,"documentation":70,"testCoverage":60,"realWorldRelevance":50}`,
			violations: []string{"codeQuality is missing", "commitConsistency is missing"},
		},
		{
			name:       "out of range",
			raw:        `{"codeQuality":-1,"projectStructure":101,"documentation":70,"testCoverage":60,"realWorldRelevance":50,"commitConsistency":75}`,
			violations: []string{"codeQuality is -1", "projectStructure is 101"},
		},
		{
			name:       "string value",
			raw:        `{"codeQuality":"80","projectStructure":80,"documentation":70,"testCoverage":60,"realWorldRelevance":50,"commitConsistency":75}`,
			violations: []string{"codeQuality is not a number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, violations := ParseDimensionScores([]byte(tt.raw))

			if len(tt.violations) == 0 {
				assert.Empty(t, violations)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Len(t, violations, len(tt.violations))
			for i, want := range tt.violations {
				assert.Contains(t, violations[i], want)
			}
		})
	}
}

func TestApplyFallbacks_CommitConsistency(t *testing.T) {
	all := Signals{HasReadme: true, HasManifest: true, HasTree: true, HasTestPaths: true}

	above := ApplyFallbacks(models.DimensionScores{CodeQuality: 41, ProjectStructure: 41, Documentation: 41, TestCoverage: 41, RealWorldRelevance: 41, CommitConsistency: 3}, all)
	assert.Equal(t, 75, above.CommitConsistency)

	atCutoff := ApplyFallbacks(models.DimensionScores{CodeQuality: 40, ProjectStructure: 40, Documentation: 40, TestCoverage: 40, RealWorldRelevance: 40, CommitConsistency: 99}, all)
	assert.Equal(t, 50, atCutoff.CommitConsistency)
}
