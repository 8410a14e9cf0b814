package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomas-vilte/repograde/internal/ai"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/models"
)

type RoadmapGenerator struct {
	generator ai.Generator
	lang      string
}

func NewRoadmapGenerator(generator ai.Generator, lang string) *RoadmapGenerator {
	return &RoadmapGenerator{
		generator: generator,
		lang:      lang,
	}
}

type roadmapJSON struct {
	Roadmap []struct {
		Step           string `json:"step"`
		Priority       string `json:"priority"`
		EffortEstimate string `json:"effortEstimate"`
	} `json:"roadmap"`
}

// Roadmap returns 3 to 5 prioritized improvement steps in the order the model gave them.
func (r *RoadmapGenerator) Roadmap(ctx context.Context, scores models.DimensionScores) ([]models.RoadmapStep, error) {
	log := logger.FromContext(ctx)

	instruction, err := ai.RenderPrompt("roadmap", ai.GetRoadmapPromptTemplate(r.lang), scoresPromptData(scores))
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeInternal, "error rendering roadmap prompt", err)
	}

	resp, err := r.generator.Generate(ctx, ai.GenerationRequest{
		Operation:   ai.OperationRoadmap,
		Instruction: instruction,
		Schema:      ai.RoadmapSchema(),
	})
	if err != nil {
		return nil, generationFailure(ai.OperationRoadmap, err)
	}

	steps, err := ParseRoadmap(resp.Raw)
	if err != nil {
		log.Warn("roadmap rejected", "error", err)
		return nil, generationFailure(ai.OperationRoadmap, err)
	}

	log.Debug("roadmap generated", "count", len(steps))
	return steps, nil
}

// ParseRoadmap validates and normalizes a roadmap response.
func ParseRoadmap(raw []byte) ([]models.RoadmapStep, error) {
	var parsed roadmapJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, domainErrors.ErrInvalidAIOutput.WithError(err).WithContext("reason", "roadmap is not valid JSON")
	}

	count := len(parsed.Roadmap)
	if count < ai.RoadmapMinSteps || count > ai.RoadmapMaxSteps {
		return nil, domainErrors.ErrInvalidAIOutput.WithContext("reason",
			fmt.Sprintf("roadmap has %d steps, expected %d to %d", count, ai.RoadmapMinSteps, ai.RoadmapMaxSteps))
	}

	steps := make([]models.RoadmapStep, 0, count)
	var violations []string
	for i, item := range parsed.Roadmap {
		step := strings.TrimSpace(item.Step)
		effort := strings.TrimSpace(item.EffortEstimate)
		priority, ok := models.ParsePriority(item.Priority)

		if step == "" {
			violations = append(violations, fmt.Sprintf("step %d has no description", i+1))
		}
		if effort == "" {
			violations = append(violations, fmt.Sprintf("step %d has no effort estimate", i+1))
		}
		if !ok {
			violations = append(violations, fmt.Sprintf("step %d has unknown priority %q", i+1, item.Priority))
		}

		steps = append(steps, models.RoadmapStep{
			Step:           step,
			Priority:       priority,
			EffortEstimate: effort,
		})
	}

	if len(violations) > 0 {
		return nil, domainErrors.ErrInvalidAIOutput.WithContext("reason", strings.Join(violations, "; "))
	}

	return steps, nil
}
