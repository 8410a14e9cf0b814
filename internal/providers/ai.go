package providers

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/repograde/internal/ai"
	"github.com/thomas-vilte/repograde/internal/ai/gemini"
	"github.com/thomas-vilte/repograde/internal/config"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
)

// NewGenerator creates the configured provider's Generator, metered and bounded by the generation timeout.
func NewGenerator(ctx context.Context, cfg *config.Config) (ai.Generator, error) {
	if cfg.AIConfig.ActiveAI == "" {
		return nil, domainErrors.ErrProviderNotSupported.WithContext("reason", "no AI provider configured")
	}

	switch cfg.AIConfig.ActiveAI {
	case config.AIGemini:
		generator, err := gemini.NewGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return ai.NewMeteredGenerator(ai.MeteredConfig{
			Generator: generator,
			Info:      generator,
			Timeout:   cfg.Timeouts.Generation.Std(),
		}), nil
	default:
		return nil, domainErrors.ErrProviderNotSupported.WithContext("reason", fmt.Sprintf("AI provider '%s' not supported", cfg.AIConfig.ActiveAI))
	}
}
