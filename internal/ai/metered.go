package ai

import (
	"context"
	"time"

	"github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/services/cost"
)

// MeteredGenerator wraps a Generator with a per-call timeout and usage accounting.
type MeteredGenerator struct {
	next       Generator
	info       ModelInfo
	calculator *cost.Calculator
	timeout    time.Duration
}

type MeteredConfig struct {
	Generator Generator
	Info      ModelInfo
	Timeout   time.Duration
}

func NewMeteredGenerator(cfg MeteredConfig) *MeteredGenerator {
	return &MeteredGenerator{
		next:       cfg.Generator,
		info:       cfg.Info,
		calculator: cost.NewCalculator(),
		timeout:    cfg.Timeout,
	}
}

type generateResult struct {
	resp *GenerationResponse
	err  error
}

// Generate runs the wrapped call under the configured timeout. A call that outlives it
// fails with ErrGenerationTimeout even if the provider ignores cancellation.
func (m *MeteredGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error) {
	log := logger.FromContext(ctx)
	startTime := time.Now()

	callCtx := ctx
	cancel := func() {}
	if m.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, m.timeout)
	}
	defer cancel()

	done := make(chan generateResult, 1)
	go func() {
		resp, err := m.next.Generate(callCtx, req)
		done <- generateResult{resp: resp, err: err}
	}()

	var result generateResult
	select {
	case result = <-done:
	case <-callCtx.Done():
		result = generateResult{err: callCtx.Err()}
	}

	if result.err != nil {
		if ctx.Err() == nil && callCtx.Err() == context.DeadlineExceeded {
			log.Warn("generation timed out",
				"operation", req.Operation,
				"timeout", m.timeout,
				"duration", time.Since(startTime))
			return nil, errors.ErrGenerationTimeout.
				WithError(result.err).
				WithContext("operation", string(req.Operation)).
				WithContext("timeout", m.timeout.String())
		}
		return nil, result.err
	}

	resp := result.resp
	if resp == nil {
		return nil, errors.ErrInvalidAIOutput.WithContext("reason", "empty response")
	}

	usage := resp.Usage
	if usage == nil {
		usage = m.countedUsage(ctx, req)
	}

	providerName, modelName := "", ""
	if m.info != nil {
		providerName = m.info.GetProviderName()
		modelName = m.info.GetModelName()
	}
	if usage.Model == "" {
		usage.Model = modelName
	}
	usage.CostUSD = m.calculator.EstimateCost(providerName, usage.Model, usage.InputTokens, usage.OutputTokens)
	usage.DurationMs = time.Since(startTime).Milliseconds()
	resp.Usage = usage
	RecordUsage(ctx, usage)

	log.Debug("generation completed",
		"operation", req.Operation,
		"model", usage.Model,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"cost_usd", usage.CostUSD,
		"duration", time.Since(startTime))

	return resp, nil
}

// countedUsage estimates input tokens for providers that returned no usage metadata.
func (m *MeteredGenerator) countedUsage(ctx context.Context, req GenerationRequest) *models.TokenUsage {
	usage := &models.TokenUsage{}
	counter, ok := m.info.(TokenCounter)
	if !ok {
		return usage
	}
	tokens, err := counter.CountTokens(ctx, req.Instruction)
	if err != nil {
		logger.Debug(ctx, "token count unavailable", "operation", req.Operation, "error", err)
		return usage
	}
	usage.InputTokens = tokens
	usage.TotalTokens = tokens
	return usage
}
