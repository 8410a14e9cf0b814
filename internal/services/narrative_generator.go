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
	"github.com/thomas-vilte/repograde/internal/regex"
)

// The prompt asks for 2 or 3 sentences; one either side is tolerated.
const (
	minSummarySentences = 1
	maxSummarySentences = 4
)

type NarrativeGenerator struct {
	generator ai.Generator
	lang      string
}

func NewNarrativeGenerator(generator ai.Generator, lang string) *NarrativeGenerator {
	return &NarrativeGenerator{
		generator: generator,
		lang:      lang,
	}
}

type summaryJSON struct {
	Summary string `json:"summary"`
}

// Summarize returns a short prose assessment of the scores.
func (n *NarrativeGenerator) Summarize(ctx context.Context, scores models.DimensionScores) (string, error) {
	log := logger.FromContext(ctx)

	instruction, err := ai.RenderPrompt("summary", ai.GetSummaryPromptTemplate(n.lang), scoresPromptData(scores))
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeInternal, "error rendering summary prompt", err)
	}

	resp, err := n.generator.Generate(ctx, ai.GenerationRequest{
		Operation:   ai.OperationSummary,
		Instruction: instruction,
		Schema:      ai.SummarySchema(),
	})
	if err != nil {
		return "", generationFailure(ai.OperationSummary, err)
	}

	var parsed summaryJSON
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return "", generationFailure(ai.OperationSummary,
			domainErrors.ErrInvalidAIOutput.WithError(err).WithContext("reason", "summary is not valid JSON"))
	}

	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		return "", generationFailure(ai.OperationSummary,
			domainErrors.ErrInvalidAIOutput.WithContext("reason", "summary is empty"))
	}

	sentences := countSentences(summary)
	if sentences < minSummarySentences || sentences > maxSummarySentences {
		return "", generationFailure(ai.OperationSummary,
			domainErrors.ErrInvalidAIOutput.
				WithContext("reason", fmt.Sprintf("summary has %d sentences, want %d to %d", sentences, minSummarySentences, maxSummarySentences)))
	}

	log.Debug("summary generated",
		"length", len(summary),
		"sentences", sentences)

	return summary, nil
}

// countSentences counts terminated sentences plus a trailing unterminated one.
func countSentences(text string) int {
	ends := regex.SentenceEnd.FindAllStringIndex(text, -1)
	count := len(ends)
	if count == 0 || ends[count-1][1] < len(text) {
		count++
	}
	return count
}

func generationFailure(op ai.Operation, err error) error {
	return domainErrors.ErrGenerationFailure.
		WithError(err).
		WithContext("operation", string(op))
}
