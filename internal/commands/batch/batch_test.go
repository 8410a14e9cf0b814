package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/repograde/internal/commands/pipeline"
	"github.com/thomas-vilte/repograde/internal/config"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/services"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) AnalyzeRepository(ctx context.Context, repoURL string, progress services.ProgressFunc) (*models.AnalysisResult, error) {
	args := m.Called(ctx, repoURL, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

func resultFor(owner, name string, score int) *models.AnalysisResult {
	return &models.AnalysisResult{
		RepoURL:    "https://github.com/" + owner + "/" + name,
		Repository: models.RepositoryRef{Host: "github.com", Owner: owner, Name: name},
		Score:      models.Verdict{NumericalScore: score, SkillLevel: models.SkillBeginner, Badge: models.BadgeBronze},
		Summary:    "Summary of " + name + ".",
		Roadmap: []models.RoadmapStep{
			{Step: "a", Priority: models.PriorityHigh, EffortEstimate: "1h"},
			{Step: "b", Priority: models.PriorityLow, EffortEstimate: "1h"},
			{Step: "c", Priority: models.PriorityLow, EffortEstimate: "1h"},
		},
		AnalyzedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func runCommand(t *testing.T, analyzer pipeline.Analyzer, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	translations, err := i18n.NewTranslations("en")
	require.NoError(t, err)

	factory := func(context.Context) (pipeline.Analyzer, error) { return analyzer, nil }
	cmd := NewBatchCommandFactory(factory).CreateCommand(translations, config.Default())

	var stdout, stderr bytes.Buffer
	cmd.Writer = &stdout
	cmd.ErrWriter = &stderr

	err = cmd.Run(context.Background(), append([]string{"batch"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestRun_KeepsOrderAndIsolatesFailures(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("AnalyzeRepository", mock.Anything, "octo/one", mock.Anything).Return(resultFor("octo", "one", 10), nil)
	analyzer.On("AnalyzeRepository", mock.Anything, "octo/two", mock.Anything).Return(nil, domainErrors.ErrUpstreamHostFailure)
	analyzer.On("AnalyzeRepository", mock.Anything, "octo/three", mock.Anything).Return(resultFor("octo", "three", 30), nil)

	var finished atomic.Int32
	items := Run(context.Background(), analyzer, []string{"octo/one", "octo/two", "octo/three"}, 2, func() { finished.Add(1) })

	require.Len(t, items, 3)
	assert.Equal(t, "octo/one", items[0].RepoURL)
	assert.Equal(t, 10, items[0].Result.Score.NumericalScore)
	assert.Nil(t, items[1].Result)
	assert.ErrorIs(t, items[1].err, domainErrors.ErrUpstreamHostFailure)
	assert.Contains(t, items[1].Error, "UPSTREAM")
	assert.Equal(t, 30, items[2].Result.Score.NumericalScore)
	assert.Equal(t, int32(3), finished.Load())
}

func TestRun_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	analyzer := new(MockAnalyzer)
	analyzer.On("AnalyzeRepository", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
		}).
		Return(resultFor("octo", "x", 1), nil)

	urls := []string{"a/1", "a/2", "a/3", "a/4", "a/5", "a/6"}
	items := Run(context.Background(), analyzer, urls, 2, nil)

	assert.Len(t, items, len(urls))
	assert.LessOrEqual(t, peak.Load(), int32(2))
	analyzer.AssertNumberOfCalls(t, "AnalyzeRepository", len(urls))
}

func TestBatchCommand(t *testing.T) {
	t.Run("should report every repository", func(t *testing.T) {
		// Arrange
		analyzer := new(MockAnalyzer)
		analyzer.On("AnalyzeRepository", mock.Anything, "octo/one", mock.Anything).Return(resultFor("octo", "one", 10), nil)
		analyzer.On("AnalyzeRepository", mock.Anything, "octo/two", mock.Anything).Return(resultFor("octo", "two", 20), nil)

		// Act
		stdout, stderr, err := runCommand(t, analyzer, "octo/one", "octo/two")

		// Assert
		require.NoError(t, err)
		assert.Contains(t, stdout, "Repository report: octo/one")
		assert.Contains(t, stdout, "Repository report: octo/two")
		assert.Contains(t, stderr, "2 of 2 repositories analyzed")
	})

	t.Run("should read URLs from a file", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "repos.txt")
		require.NoError(t, os.WriteFile(path, []byte("# team repos\nocto/one\n\n  octo/two  \n"), 0644))

		analyzer := new(MockAnalyzer)
		analyzer.On("AnalyzeRepository", mock.Anything, "octo/one", mock.Anything).Return(resultFor("octo", "one", 10), nil)
		analyzer.On("AnalyzeRepository", mock.Anything, "octo/two", mock.Anything).Return(resultFor("octo", "two", 20), nil)

		// Act
		stdout, _, err := runCommand(t, analyzer, "--file", path, "--format", "json")

		// Assert
		require.NoError(t, err)
		var items []Item
		require.NoError(t, json.Unmarshal([]byte(stdout), &items))
		require.Len(t, items, 2)
		assert.Equal(t, "octo/one", items[0].RepoURL)
		assert.Equal(t, 20, items[1].Result.Score.NumericalScore)
		analyzer.AssertExpectations(t)
	})

	t.Run("should fail when some analyses fail", func(t *testing.T) {
		// Arrange
		analyzer := new(MockAnalyzer)
		analyzer.On("AnalyzeRepository", mock.Anything, "octo/one", mock.Anything).Return(resultFor("octo", "one", 10), nil)
		analyzer.On("AnalyzeRepository", mock.Anything, "octo/bad", mock.Anything).Return(nil, errors.New("boom"))

		// Act
		stdout, stderr, err := runCommand(t, analyzer, "--format", "json", "octo/one", "octo/bad")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 analyses failed")
		assert.Contains(t, stderr, "octo/bad failed: boom")
		assert.Contains(t, stderr, "1 of 2 repositories analyzed")

		var items []Item
		require.NoError(t, json.Unmarshal([]byte(stdout), &items))
		assert.Equal(t, "boom", items[1].Error)
	})

	t.Run("should require URLs", func(t *testing.T) {
		// Act
		_, _, err := runCommand(t, new(MockAnalyzer))

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "No repository URLs given")
	})

	t.Run("should report an unreadable file", func(t *testing.T) {
		// Act
		_, _, err := runCommand(t, new(MockAnalyzer), "--file", filepath.Join(t.TempDir(), "missing.txt"))

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Could not read URL file")
	})
}
