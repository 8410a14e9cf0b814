package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thomas-vilte/repograde/internal/models"
)

func uniform(v int) models.DimensionScores {
	return models.DimensionScores{
		CodeQuality:        v,
		ProjectStructure:   v,
		Documentation:      v,
		TestCoverage:       v,
		RealWorldRelevance: v,
		CommitConsistency:  v,
	}
}

func TestWeightsSumToOneHundred(t *testing.T) {
	total := WeightCodeQuality + WeightProjectStructure + WeightDocumentation +
		WeightTestCoverage + WeightRealWorldRelevance + WeightCommitConsistency
	assert.Equal(t, 100, total)
}

func TestAggregate_WorkedExample(t *testing.T) {
	scores := models.DimensionScores{
		CodeQuality:        90,
		ProjectStructure:   80,
		Documentation:      70,
		TestCoverage:       60,
		RealWorldRelevance: 50,
		CommitConsistency:  75,
	}

	verdict := Aggregate(scores)

	assert.Equal(t, models.Verdict{
		NumericalScore: 75,
		SkillLevel:     models.SkillIntermediate,
		Badge:          models.BadgeGold,
	}, verdict)
}

func TestAggregate_Thresholds(t *testing.T) {
	tests := []struct {
		score int
		skill models.SkillLevel
		badge models.Badge
	}{
		{0, models.SkillBeginner, models.BadgeBronze},
		{40, models.SkillBeginner, models.BadgeBronze},
		{41, models.SkillBeginner, models.BadgeSilver},
		{50, models.SkillBeginner, models.BadgeSilver},
		{51, models.SkillIntermediate, models.BadgeSilver},
		{70, models.SkillIntermediate, models.BadgeSilver},
		{71, models.SkillIntermediate, models.BadgeGold},
		{80, models.SkillIntermediate, models.BadgeGold},
		{81, models.SkillAdvanced, models.BadgeGold},
		{100, models.SkillAdvanced, models.BadgeGold},
	}

	for _, tt := range tests {
		t.Run(string(tt.skill)+"/"+string(tt.badge), func(t *testing.T) {
			verdict := Aggregate(uniform(tt.score))
			assert.Equal(t, tt.score, verdict.NumericalScore)
			assert.Equal(t, tt.skill, verdict.SkillLevel, "score %d", tt.score)
			assert.Equal(t, tt.badge, verdict.Badge, "score %d", tt.score)
		})
	}
}

func TestAggregate_UniformInputsMapToThemselves(t *testing.T) {
	for v := models.MinScore; v <= models.MaxScore; v++ {
		assert.Equal(t, v, Aggregate(uniform(v)).NumericalScore, "uniform %d", v)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	scores := models.DimensionScores{CodeQuality: 33, ProjectStructure: 67, Documentation: 12, TestCoverage: 89, RealWorldRelevance: 41, CommitConsistency: 50}

	first := Aggregate(scores)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Aggregate(scores))
	}
}

func TestWeightedScore_RoundsHalfUp(t *testing.T) {
	// 0.15*doc alone: 10 -> 1.5 rounds to 2, 3 -> 0.45 rounds to 0.
	assert.Equal(t, 2, WeightedScore(models.DimensionScores{Documentation: 10}))
	assert.Equal(t, 0, WeightedScore(models.DimensionScores{Documentation: 3}))
	// 0.30*cq: 5 -> 1.5 rounds to 2.
	assert.Equal(t, 2, WeightedScore(models.DimensionScores{CodeQuality: 5}))
}

func TestWeightedScore_StaysInRange(t *testing.T) {
	assert.Equal(t, 0, WeightedScore(uniform(0)))
	assert.Equal(t, 100, WeightedScore(uniform(100)))
	assert.Equal(t, 100, WeightedScore(uniform(120)))
	assert.Equal(t, 0, WeightedScore(uniform(-20)))
}
