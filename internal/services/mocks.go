package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/repograde/internal/ai"
	"github.com/thomas-vilte/repograde/internal/models"
)

type (
	MockGenerator struct {
		mock.Mock
	}

	MockContentHost struct {
		mock.Mock
	}

	MockContentFetcher struct {
		mock.Mock
	}

	MockDimensionAnalyzer struct {
		mock.Mock
	}

	MockNarrativeGenerator struct {
		mock.Mock
	}

	MockRoadmapGenerator struct {
		mock.Mock
	}
)

func (m *MockGenerator) Generate(ctx context.Context, req ai.GenerationRequest) (*ai.GenerationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.GenerationResponse), args.Error(1)
}

func (m *MockContentHost) GetReadme(ctx context.Context, owner, name string) (string, error) {
	args := m.Called(ctx, owner, name)
	return args.String(0), args.Error(1)
}

func (m *MockContentHost) GetFile(ctx context.Context, owner, name, path string) (string, error) {
	args := m.Called(ctx, owner, name, path)
	return args.String(0), args.Error(1)
}

func (m *MockContentHost) GetDefaultBranch(ctx context.Context, owner, name string) (string, error) {
	args := m.Called(ctx, owner, name)
	return args.String(0), args.Error(1)
}

func (m *MockContentHost) GetRecursiveTree(ctx context.Context, owner, name, branch string) ([]string, error) {
	args := m.Called(ctx, owner, name, branch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContentFetcher) Fetch(ctx context.Context, ref models.RepositoryRef) (models.ContentSnapshot, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(models.ContentSnapshot), args.Error(1)
}

func (m *MockDimensionAnalyzer) Analyze(ctx context.Context, snapshot models.ContentSnapshot) (models.DimensionScores, error) {
	args := m.Called(ctx, snapshot)
	return args.Get(0).(models.DimensionScores), args.Error(1)
}

func (m *MockNarrativeGenerator) Summarize(ctx context.Context, scores models.DimensionScores) (string, error) {
	args := m.Called(ctx, scores)
	return args.String(0), args.Error(1)
}

func (m *MockRoadmapGenerator) Roadmap(ctx context.Context, scores models.DimensionScores) ([]models.RoadmapStep, error) {
	args := m.Called(ctx, scores)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoadmapStep), args.Error(1)
}
