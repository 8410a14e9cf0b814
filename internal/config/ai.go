package config

type AI string

const (
	AIGemini AI = "gemini"
)

type Model string

const (
	ModelGeminiV25Pro       Model = "gemini-2.5-pro"
	ModelGeminiV25Flash     Model = "gemini-2.5-flash"
	ModelGeminiV25FlashLite Model = "gemini-2.5-flash-lite"
)

func SupportedAIs() []AI {
	return []AI{
		AIGemini,
	}
}

func ModelsForAI(ai AI) []Model {
	switch ai {
	case AIGemini:
		return []Model{
			ModelGeminiV25Flash,
			ModelGeminiV25Pro,
			ModelGeminiV25FlashLite,
		}
	default:
		return []Model{}
	}
}

func DefaultModelForAI(ai AI) Model {
	models := ModelsForAI(ai)
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

func isSupportedAI(ai AI) bool {
	for _, supported := range SupportedAIs() {
		if supported == ai {
			return true
		}
	}
	return false
}
