package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/thomas-vilte/repograde/internal/ai"
	"github.com/thomas-vilte/repograde/internal/config"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
	"google.golang.org/genai"
)

var _ ai.Generator = (*GeminiGenerator)(nil)

type generateFunc func(ctx context.Context, model string, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiGenerator answers generation requests with JSON constrained by the request schema.
type GeminiGenerator struct {
	*GeminiProvider
	temperature float32
	maxTokens   int32
	generateFn  generateFunc
}

func NewGeminiGenerator(ctx context.Context, cfg *config.Config) (*GeminiGenerator, error) {
	providerCfg, exists := cfg.AIProviders[string(config.AIGemini)]
	if !exists || providerCfg.APIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  providerCfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "invalid") ||
			strings.Contains(errMsg, "unauthorized") ||
			strings.Contains(errMsg, "api key") ||
			strings.Contains(errMsg, "authentication") {
			return nil, domainErrors.ErrGeminiAPIKeyInvalid.WithError(err)
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err)
	}

	service := &GeminiGenerator{
		GeminiProvider: NewGeminiProvider(client, cfg.ActiveModel()),
		temperature:    providerCfg.Temperature,
		maxTokens:      int32(providerCfg.MaxTokens),
	}
	service.generateFn = service.defaultGenerate

	return service, nil
}

func (g *GeminiGenerator) defaultGenerate(ctx context.Context, model string, prompt string, genConfig *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.Client.Models.GenerateContent(ctx, model, genai.Text(prompt), genConfig)
}

func (g *GeminiGenerator) Generate(ctx context.Context, req ai.GenerationRequest) (*ai.GenerationResponse, error) {
	log := logger.FromContext(ctx)

	genConfig := GetGenerateConfig(g.model, jsonMIMEType, toGenaiSchema(req.Schema))
	if g.temperature > 0 {
		genConfig.Temperature = float32Ptr(g.temperature)
	}
	if g.maxTokens > 0 {
		genConfig.MaxOutputTokens = g.maxTokens
	}

	log.Debug("calling gemini API",
		"operation", req.Operation,
		"model", g.model,
		"prompt_length", len(req.Instruction))

	resp, err := g.generateFn(ctx, g.model, req.Instruction, genConfig)
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"operation", req.Operation,
			"model", g.model)
		return nil, classifyError(err)
	}

	responseText := formatResponse(resp)
	if strings.TrimSpace(responseText) == "" {
		log.Error("gemini returned empty response",
			"operation", req.Operation)
		return nil, domainErrors.ErrInvalidAIOutput.WithContext("reason", "empty response")
	}

	raw := ExtractJSON(responseText)
	log.Debug("gemini response received",
		"operation", req.Operation,
		"response_length", len(raw))

	return &ai.GenerationResponse{
		Raw:   json.RawMessage(raw),
		Usage: extractUsage(resp),
	}, nil
}
