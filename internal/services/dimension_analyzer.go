package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"strings"

	"github.com/thomas-vilte/repograde/internal/ai"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/models"
)

// Fallback scores for missing evidence.
const (
	fallbackCodeQuality         = 20
	fallbackProjectStructure    = 20
	fallbackDocumentation       = 10
	fallbackTestCoverage        = 0
	fallbackRealWorldRelevance  = 50
	commitConsistencyHigh       = 75
	commitConsistencyLow        = 50
	commitConsistencyMeanCutoff = 40
)

// DimensionAnalyzer scores a snapshot on the six quality dimensions.
type DimensionAnalyzer struct {
	generator ai.Generator
	lang      string
}

type AnalyzerOption func(*DimensionAnalyzer)

func WithAnalyzerLanguage(lang string) AnalyzerOption {
	return func(a *DimensionAnalyzer) {
		a.lang = lang
	}
}

func NewDimensionAnalyzer(generator ai.Generator, opts ...AnalyzerOption) *DimensionAnalyzer {
	a := &DimensionAnalyzer{
		generator: generator,
		lang:      "en",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze asks the generator for scores, retries once with a correction when the answer
// breaks the schema, then applies the fallback policy for missing evidence.
func (a *DimensionAnalyzer) Analyze(ctx context.Context, snapshot models.ContentSnapshot) (models.DimensionScores, error) {
	log := logger.FromContext(ctx)
	signals := DetectSignals(snapshot)

	data := dimensionsPromptData(snapshot, signals)
	instruction, err := ai.RenderPrompt("dimensions", ai.GetDimensionsPromptTemplate(a.lang), data)
	if err != nil {
		return models.DimensionScores{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error rendering dimensions prompt", err)
	}

	scores, violations, err := a.attempt(ctx, instruction)
	if err != nil {
		return models.DimensionScores{}, err
	}

	if len(violations) > 0 {
		log.Warn("dimension scores rejected, retrying with correction",
			"violations", strings.Join(violations, "; "),
			"attempt", 1)

		data.Violations = violations
		correction, err := ai.RenderPrompt("correction", ai.GetCorrectionPromptTemplate(a.lang), data)
		if err != nil {
			return models.DimensionScores{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error rendering correction prompt", err)
		}

		scores, violations, err = a.attempt(ctx, instruction+correction)
		if err != nil {
			return models.DimensionScores{}, err
		}
		if len(violations) > 0 {
			log.Warn("dimension scores rejected twice",
				"violations", strings.Join(violations, "; "),
				"attempt", 2)
			return models.DimensionScores{}, domainErrors.ErrAnalysisSchemaViolation.
				WithError(stderrors.New(strings.Join(violations, "; "))).
				WithContext("attempts", 2).
				WithContext("violations", violations)
		}
	}

	scores = ApplyFallbacks(scores, signals)

	log.Debug("dimension scores computed",
		"code_quality", scores.CodeQuality,
		"project_structure", scores.ProjectStructure,
		"documentation", scores.Documentation,
		"test_coverage", scores.TestCoverage,
		"real_world_relevance", scores.RealWorldRelevance,
		"commit_consistency", scores.CommitConsistency)

	return scores, nil
}

func (a *DimensionAnalyzer) attempt(ctx context.Context, instruction string) (models.DimensionScores, []string, error) {
	resp, err := a.generator.Generate(ctx, ai.GenerationRequest{
		Operation:   ai.OperationDimensions,
		Instruction: instruction,
		Schema:      ai.DimensionScoresSchema(),
	})
	if err != nil {
		return models.DimensionScores{}, nil, domainErrors.ErrGenerationFailure.
			WithError(err).
			WithContext("operation", string(ai.OperationDimensions))
	}

	scores, violations := ParseDimensionScores(resp.Raw)
	return scores, violations, nil
}

// ParseDimensionScores reads the six fields as nullable numbers. It returns every schema
// violation found; scores are only meaningful when there are none.
func ParseDimensionScores(raw []byte) (models.DimensionScores, []string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.DimensionScores{}, []string{fmt.Sprintf("response is not a JSON object: %v", err)}
	}

	values := make(map[string]int, len(ai.DimensionFields))
	var violations []string
	for _, name := range ai.DimensionFields {
		value, violation := parseScoreField(name, fields[name])
		if violation != "" {
			violations = append(violations, violation)
			continue
		}
		values[name] = value
	}
	if len(violations) > 0 {
		return models.DimensionScores{}, violations
	}

	return models.DimensionScores{
		CodeQuality:        values["codeQuality"],
		ProjectStructure:   values["projectStructure"],
		Documentation:      values["documentation"],
		TestCoverage:       values["testCoverage"],
		RealWorldRelevance: values["realWorldRelevance"],
		CommitConsistency:  values["commitConsistency"],
	}, nil
}

func parseScoreField(name string, raw json.RawMessage) (int, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Sprintf("%s is missing", name)
	}

	var value *float64
	if err := json.Unmarshal(raw, &value); err != nil || value == nil {
		return 0, fmt.Sprintf("%s is not a number: %s", name, string(raw))
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return 0, fmt.Sprintf("%s is not a finite number", name)
	}
	if *value < models.MinScore || *value > models.MaxScore {
		return 0, fmt.Sprintf("%s is %v, outside [%d,%d]", name, *value, models.MinScore, models.MaxScore)
	}

	return clampScore(int(math.Round(*value))), ""
}

// ApplyFallbacks overrides the dimensions whose evidence is missing. Commit consistency is
// never measured, it always follows the mean of the other five.
func ApplyFallbacks(scores models.DimensionScores, signals Signals) models.DimensionScores {
	if !signals.HasManifest {
		scores.CodeQuality = fallbackCodeQuality
	}
	if !signals.HasTree {
		scores.ProjectStructure = fallbackProjectStructure
	}
	if !signals.HasReadme || signals.ReadmeTrivial {
		scores.Documentation = fallbackDocumentation
	}
	if !signals.HasTests() {
		scores.TestCoverage = fallbackTestCoverage
	}
	if !signals.HasReadme {
		scores.RealWorldRelevance = fallbackRealWorldRelevance
	}

	sum := scores.CodeQuality + scores.ProjectStructure + scores.Documentation +
		scores.TestCoverage + scores.RealWorldRelevance
	if float64(sum)/5 > commitConsistencyMeanCutoff {
		scores.CommitConsistency = commitConsistencyHigh
	} else {
		scores.CommitConsistency = commitConsistencyLow
	}

	return scores
}

func dimensionsPromptData(snapshot models.ContentSnapshot, signals Signals) ai.PromptData {
	data := ai.PromptData{
		HasReadme:    snapshot.HasReadme(),
		HasManifest:  snapshot.HasManifest(),
		ManifestPath: snapshot.ManifestPath,
		HasTree:      snapshot.HasTree(),
		TreeCount:    len(snapshot.FileTree),
		Signals:      signals.Describe(),
	}
	if snapshot.HasReadme() {
		data.Readme = *snapshot.Readme
	}
	if snapshot.HasManifest() {
		data.Manifest = *snapshot.Manifest
	}
	if snapshot.HasTree() {
		data.FileTree = strings.Join(snapshot.FileTree, "\n")
	}
	return data
}

func clampScore(v int) int {
	if v < models.MinScore {
		return models.MinScore
	}
	if v > models.MaxScore {
		return models.MaxScore
	}
	return v
}

func scoresPromptData(scores models.DimensionScores) ai.PromptData {
	return ai.PromptData{
		CodeQuality:        scores.CodeQuality,
		ProjectStructure:   scores.ProjectStructure,
		Documentation:      scores.Documentation,
		TestCoverage:       scores.TestCoverage,
		RealWorldRelevance: scores.RealWorldRelevance,
		CommitConsistency:  scores.CommitConsistency,
	}
}
