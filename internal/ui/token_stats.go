package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/models"
)

func PrintTokenUsage(w io.Writer, usage *models.TokenUsage, t *i18n.Translations) {
	if usage == nil {
		return
	}
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	_, _ = cyan.Fprint(w, "📊 ")
	_, _ = fmt.Fprintf(w, "%s: %s\n", t.GetMessage("report.usage", 0, nil), t.GetMessage("report.tokens", 0, map[string]interface{}{
		"Input":  usage.InputTokens,
		"Output": usage.OutputTokens,
		"Total":  usage.TotalTokens,
	}))
	if usage.CostUSD > 0 {
		_, _ = yellow.Fprint(w, "💰 ")
		_, _ = fmt.Fprintf(w, "%s: ", t.GetMessage("report.cost", 0, nil))
		_, _ = yellow.Fprintf(w, "$%.4f USD\n", usage.CostUSD)
	}
	if usage.DurationMs > 0 {
		_, _ = fmt.Fprintf(w, "⏱️  %s: %dms\n", t.GetMessage("report.duration", 0, nil), usage.DurationMs)
	}
}
