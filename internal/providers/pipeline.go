package providers

import (
	"context"

	"github.com/thomas-vilte/repograde/internal/cache"
	"github.com/thomas-vilte/repograde/internal/config"
	"github.com/thomas-vilte/repograde/internal/services"
)

// NewAnalysisService wires the whole pipeline from cfg. Services built over the same store share snapshots.
func NewAnalysisService(ctx context.Context, cfg *config.Config, store cache.SnapshotStore) (*services.AnalysisService, error) {
	generator, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher := services.NewContentFetcher(NewContentHost(cfg),
		services.WithSnapshotStore(store),
		services.WithFetchTimeout(cfg.Timeouts.Fetch.Std()),
		services.WithContentLimits(cfg.Limits.MaxReadmeBytes, cfg.Limits.MaxManifestBytes, cfg.Limits.MaxTreeEntries),
		services.WithManifestCandidates(cfg.Analysis.ManifestCandidates),
	)

	return services.NewAnalysisService(
		fetcher,
		services.NewDimensionAnalyzer(generator, services.WithAnalyzerLanguage(cfg.Language)),
		services.NewNarrativeGenerator(generator, cfg.Language),
		services.NewRoadmapGenerator(generator, cfg.Language),
		services.WithRepositoryHost(cfg.GitHub.Host),
	), nil
}
