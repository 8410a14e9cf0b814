package gemini

import (
	"context"

	"github.com/thomas-vilte/repograde/internal/ai"
	"google.golang.org/genai"
)

var (
	_ ai.ModelInfo    = (*GeminiProvider)(nil)
	_ ai.TokenCounter = (*GeminiProvider)(nil)
)

// GeminiProvider is a shared base for Gemini services that implements ai.ModelInfo
type GeminiProvider struct {
	Client *genai.Client
	model  string
}

func NewGeminiProvider(client *genai.Client, model string) *GeminiProvider {
	return &GeminiProvider{
		Client: client,
		model:  model,
	}
}

// CountTokens implements ai.TokenCounter
func (g *GeminiProvider) CountTokens(ctx context.Context, prompt string) (int, error) {
	resp, err := g.Client.Models.CountTokens(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

// GetModelName implements ai.ModelInfo
func (g *GeminiProvider) GetModelName() string {
	return g.model
}

// GetProviderName implements ai.ModelInfo
func (g *GeminiProvider) GetProviderName() string {
	return "gemini"
}
