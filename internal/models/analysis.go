package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinScore = 0
	MaxScore = 100
)

// DimensionScores are the six independently scored quality axes.
type DimensionScores struct {
	CodeQuality        int `json:"codeQuality" yaml:"codeQuality"`
	ProjectStructure   int `json:"projectStructure" yaml:"projectStructure"`
	Documentation      int `json:"documentation" yaml:"documentation"`
	TestCoverage       int `json:"testCoverage" yaml:"testCoverage"`
	RealWorldRelevance int `json:"realWorldRelevance" yaml:"realWorldRelevance"`
	CommitConsistency  int `json:"commitConsistency" yaml:"commitConsistency"`
}

// Dimension pairs a dimension's JSON name with its value.
type Dimension struct {
	Name  string
	Value int
}

// Dimensions lists the scores in their canonical order.
func (d DimensionScores) Dimensions() []Dimension {
	return []Dimension{
		{"codeQuality", d.CodeQuality},
		{"projectStructure", d.ProjectStructure},
		{"documentation", d.Documentation},
		{"testCoverage", d.TestCoverage},
		{"realWorldRelevance", d.RealWorldRelevance},
		{"commitConsistency", d.CommitConsistency},
	}
}

// Validate checks that every dimension lies in [0,100].
func (d DimensionScores) Validate() error {
	var violations []string
	for _, dim := range d.Dimensions() {
		if dim.Value < MinScore || dim.Value > MaxScore {
			violations = append(violations, fmt.Sprintf("%s=%d", dim.Name, dim.Value))
		}
	}
	if len(violations) > 0 {
		return fmt.Errorf("scores out of range [%d,%d]: %s", MinScore, MaxScore, strings.Join(violations, ", "))
	}
	return nil
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

type Badge string

const (
	BadgeBronze Badge = "Bronze"
	BadgeSilver Badge = "Silver"
	BadgeGold   Badge = "Gold"
)

// Verdict is derived from DimensionScores and never edited by hand.
type Verdict struct {
	NumericalScore int        `json:"numericalScore" yaml:"numericalScore"`
	SkillLevel     SkillLevel `json:"skillLevel" yaml:"skillLevel"`
	Badge          Badge      `json:"badge" yaml:"badge"`
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority matches a priority case-insensitively and returns its canonical spelling.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	default:
		return "", false
	}
}

// RoadmapStep is one actionable, prioritized improvement.
type RoadmapStep struct {
	Step           string   `json:"step" yaml:"step"`
	Priority       Priority `json:"priority" yaml:"priority"`
	EffortEstimate string   `json:"effortEstimate" yaml:"effortEstimate"`
}

// AnalysisResult is the unit returned to the caller. It is never partially populated.
type AnalysisResult struct {
	RepoURL    string          `json:"repoUrl" yaml:"repoUrl"`
	Repository RepositoryRef   `json:"repository" yaml:"repository"`
	Analysis   DimensionScores `json:"analysis" yaml:"analysis"`
	Score      Verdict         `json:"score" yaml:"score"`
	Summary    string          `json:"summary" yaml:"summary"`
	Roadmap    []RoadmapStep   `json:"roadmap" yaml:"roadmap"`
	Usage      *TokenUsage     `json:"usage,omitempty" yaml:"usage,omitempty"`
	AnalyzedAt time.Time       `json:"analyzedAt" yaml:"analyzedAt"`
}
