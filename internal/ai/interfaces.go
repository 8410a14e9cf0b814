package ai

import (
	"context"
	"encoding/json"

	"github.com/thomas-vilte/repograde/internal/models"
)

// Operation names a generation step. It is used for logging and metering only.
type Operation string

const (
	OperationDimensions Operation = "dimensions"
	OperationSummary    Operation = "summary"
	OperationRoadmap    Operation = "roadmap"
)

// GenerationRequest is one call to the generation service.
type GenerationRequest struct {
	Operation   Operation
	Instruction string
	// Schema constrains the shape of the JSON the model answers with.
	Schema *Schema
}

// GenerationResponse carries the raw JSON returned by the model. Callers validate it.
type GenerationResponse struct {
	Raw   json.RawMessage
	Usage *models.TokenUsage
}

// Generator is an interface that defines the service that turns an instruction into structured JSON.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
}

// ModelInfo describes the provider behind a Generator so its calls can be priced.
type ModelInfo interface {
	// GetModelName returns the name of the current model (e.g.: "gemini-2.5-flash")
	GetModelName() string

	// GetProviderName returns the name of the provider (e.g.: "gemini")
	GetProviderName() string
}

// TokenCounter is implemented by providers that can count prompt tokens without generating.
type TokenCounter interface {
	CountTokens(ctx context.Context, content string) (int, error)
}
