package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thomas-vilte/repograde/internal/ai"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/services/scoring"
	"github.com/thomas-vilte/repograde/internal/vcs"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc receives every pipeline state transition. It must not block.
type ProgressFunc func(models.ProgressEvent)

// The orchestrator depends only on the operations it calls.
type (
	contentFetcher interface {
		Fetch(ctx context.Context, ref models.RepositoryRef) (models.ContentSnapshot, error)
	}
	dimensionAnalyzer interface {
		Analyze(ctx context.Context, snapshot models.ContentSnapshot) (models.DimensionScores, error)
	}
	narrativeGenerator interface {
		Summarize(ctx context.Context, scores models.DimensionScores) (string, error)
	}
	roadmapGenerator interface {
		Roadmap(ctx context.Context, scores models.DimensionScores) ([]models.RoadmapStep, error)
	}
)

// AnalysisService drives one repository through fetch, analysis and generation.
type AnalysisService struct {
	fetcher   contentFetcher
	analyzer  dimensionAnalyzer
	narrative narrativeGenerator
	roadmap   roadmapGenerator
	host      string
	now       func() time.Time
}

type AnalysisOption func(*AnalysisService)

func WithRepositoryHost(host string) AnalysisOption {
	return func(s *AnalysisService) {
		s.host = host
	}
}

func WithClock(now func() time.Time) AnalysisOption {
	return func(s *AnalysisService) {
		s.now = now
	}
}

func NewAnalysisService(
	fetcher contentFetcher,
	analyzer dimensionAnalyzer,
	narrative narrativeGenerator,
	roadmap roadmapGenerator,
	opts ...AnalysisOption,
) *AnalysisService {
	s := &AnalysisService{
		fetcher:   fetcher,
		analyzer:  analyzer,
		narrative: narrative,
		roadmap:   roadmap,
		host:      vcs.DefaultHost,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pipelineRun tracks the state of one request.
type pipelineRun struct {
	state    models.PipelineState
	progress ProgressFunc
	started  time.Time
}

func (r *pipelineRun) transition(ctx context.Context, to models.PipelineState, message string, data map[string]interface{}) {
	logger.Info(ctx, "pipeline state changed",
		"from", string(r.state),
		"state", string(to),
		"duration", time.Since(r.started))

	r.state = to
	if r.progress != nil {
		r.progress(models.ProgressEvent{Type: to, Message: message, Data: data})
	}
}

func (r *pipelineRun) fail(ctx context.Context, err error) error {
	logger.Error(ctx, "analysis failed", err,
		"state", string(r.state),
		"kind", string(domainErrors.KindOf(err)))

	r.transition(ctx, models.StateFailed, err.Error(), map[string]interface{}{
		"kind": string(domainErrors.KindOf(err)),
	})
	return err
}

// AnalyzeRepository runs the full pipeline. It returns a complete result or one typed error.
func (s *AnalysisService) AnalyzeRepository(ctx context.Context, repoURL string, progress ProgressFunc) (*models.AnalysisResult, error) {
	run := &pipelineRun{state: models.StateIdle, progress: progress, started: time.Now()}

	ref, err := vcs.ParseRepositoryURL(repoURL, s.host)
	if err != nil {
		return nil, run.fail(ctx, err)
	}

	ctx = logger.With(ctx, "repo", ref.Key())
	ctx, usage := ai.WithUsageTracker(ctx)

	run.transition(ctx, models.StateFetchingContent, ref.String(), nil)
	snapshot, err := s.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, run.fail(ctx, err)
	}

	run.transition(ctx, models.StateAnalyzingDimensions, "", map[string]interface{}{
		"warnings": len(snapshot.Warnings),
	})
	scores, err := s.analyzer.Analyze(ctx, snapshot)
	if err != nil {
		return nil, run.fail(ctx, err)
	}
	if err := scores.Validate(); err != nil {
		return nil, run.fail(ctx, domainErrors.ErrAnalysisSchemaViolation.WithError(err))
	}

	run.transition(ctx, models.StateGeneratingOutputs, "", nil)
	verdict := scoring.Aggregate(scores)

	var (
		summary string
		steps   []models.RoadmapStep
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.narrative.Summarize(gctx, scores)
		return err
	})
	g.Go(func() error {
		var err error
		steps, err = s.roadmap.Roadmap(gctx, scores)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, run.fail(ctx, err)
	}

	result := &models.AnalysisResult{
		RepoURL:    repoURL,
		Repository: ref,
		Analysis:   scores,
		Score:      verdict,
		Summary:    summary,
		Roadmap:    steps,
		Usage:      usage.Total(),
		AnalyzedAt: s.now().UTC(),
	}

	run.transition(ctx, models.StateAssembled, fmt.Sprintf("%d/100", verdict.NumericalScore), map[string]interface{}{
		"score": verdict.NumericalScore,
		"badge": string(verdict.Badge),
	})

	return result, nil
}
