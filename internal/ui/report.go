package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/models"
)

const barWidth = 20

// PrintReport renders an AnalysisResult for the terminal.
func PrintReport(w io.Writer, result *models.AnalysisResult, t *i18n.Translations) {
	if result == nil {
		return
	}

	PrintSectionBanner(w, t.GetMessage("report.title", 0, map[string]interface{}{
		"Repository": result.Repository.Owner + "/" + result.Repository.Name,
	}))
	_, _ = fmt.Fprintf(w, "   %s\n\n", Dim.Sprint(result.Repository.URL()))

	PrintKeyValue(w, t.GetMessage("report.score", 0, nil), fmt.Sprintf("%d/100", result.Score.NumericalScore))
	PrintKeyValue(w, t.GetMessage("report.skill_level", 0, nil), string(result.Score.SkillLevel))
	PrintKeyValue(w, t.GetMessage("report.badge", 0, nil), badgeColor(result.Score.Badge).Sprint(result.Score.Badge))

	_, _ = fmt.Fprintf(w, "\n%s %s\n", StatsEmoji, Accent.Sprint(t.GetMessage("report.dimensions", 0, nil)))
	for _, dim := range result.Analysis.Dimensions() {
		label := t.GetMessage("dimension."+dim.Name, 0, nil)
		_, _ = fmt.Fprintf(w, "   %-26s %s %3d\n", label, ScoreBar(dim.Value), dim.Value)
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", Accent.Sprint(t.GetMessage("report.summary", 0, nil)))
	_, _ = fmt.Fprintf(w, "   %s\n", result.Summary)

	_, _ = fmt.Fprintf(w, "\n%s\n", Accent.Sprint(t.GetMessage("report.roadmap", 0, nil)))
	effort := t.GetMessage("report.effort", 0, nil)
	for i, step := range result.Roadmap {
		priority := t.GetMessage("priority."+string(step.Priority), 0, nil)
		_, _ = fmt.Fprintf(w, "   %d. [%s] %s %s\n", i+1, priorityColor(step.Priority).Sprint(priority), step.Step,
			Dim.Sprintf("(%s: %s)", effort, step.EffortEstimate))
	}

	if result.Usage != nil {
		_, _ = fmt.Fprintln(w)
		PrintTokenUsage(w, result.Usage, t)
	}
}

// ScoreBar draws value on a fixed-width bar colored by its band.
func ScoreBar(value int) string {
	if value < models.MinScore {
		value = models.MinScore
	}
	if value > models.MaxScore {
		value = models.MaxScore
	}
	filled := (value*barWidth + 50) / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return scoreColor(value).Sprint(bar)
}

func scoreColor(value int) *color.Color {
	switch {
	case value > 70:
		return color.New(color.FgGreen)
	case value > 40:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func badgeColor(b models.Badge) *color.Color {
	switch b {
	case models.BadgeGold:
		return color.New(color.FgYellow, color.Bold)
	case models.BadgeSilver:
		return color.New(color.FgWhite, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func priorityColor(p models.Priority) *color.Color {
	switch p {
	case models.PriorityHigh:
		return Error
	case models.PriorityMedium:
		return Warning
	default:
		return Info
	}
}
