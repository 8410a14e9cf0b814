package scoring

import "github.com/thomas-vilte/repograde/internal/models"

// Weights in hundredths. They sum to 100.
const (
	WeightCodeQuality        = 30
	WeightProjectStructure   = 20
	WeightDocumentation      = 15
	WeightTestCoverage       = 15
	WeightRealWorldRelevance = 10
	WeightCommitConsistency  = 10
)

const (
	beginnerMax     = 50
	intermediateMax = 80
	bronzeMax       = 40
	silverMax       = 70
)

// Aggregate combines the six dimension scores into a Verdict. It has no side effects.
func Aggregate(scores models.DimensionScores) models.Verdict {
	score := WeightedScore(scores)
	return models.Verdict{
		NumericalScore: score,
		SkillLevel:     SkillLevelFor(score),
		Badge:          BadgeFor(score),
	}
}

// WeightedScore is the weighted mean rounded half up. Integer arithmetic keeps
// uniform inputs mapping to themselves.
func WeightedScore(scores models.DimensionScores) int {
	sum := WeightCodeQuality*scores.CodeQuality +
		WeightProjectStructure*scores.ProjectStructure +
		WeightDocumentation*scores.Documentation +
		WeightTestCoverage*scores.TestCoverage +
		WeightRealWorldRelevance*scores.RealWorldRelevance +
		WeightCommitConsistency*scores.CommitConsistency

	return clamp((sum + 50) / 100)
}

func SkillLevelFor(score int) models.SkillLevel {
	switch {
	case score <= beginnerMax:
		return models.SkillBeginner
	case score <= intermediateMax:
		return models.SkillIntermediate
	default:
		return models.SkillAdvanced
	}
}

func BadgeFor(score int) models.Badge {
	switch {
	case score <= bronzeMax:
		return models.BadgeBronze
	case score <= silverMax:
		return models.BadgeSilver
	default:
		return models.BadgeGold
	}
}

func clamp(v int) int {
	if v < models.MinScore {
		return models.MinScore
	}
	if v > models.MaxScore {
		return models.MaxScore
	}
	return v
}
