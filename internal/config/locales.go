package config

import "log/slog"

const (
	LangEN = "en"
	LangES = "es"
)

func SupportedLanguages() []string {
	return []string{LangEN, LangES}
}

// GetLocaleConfig returns lang when supported and English otherwise.
func GetLocaleConfig(lang string) string {
	switch lang {
	case LangEN:
		return LangEN
	case LangES:
		return LangES
	default:
		slog.Warn("language not supported, falling back to english", "language", lang)
		return LangEN
	}
}
