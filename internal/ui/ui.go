package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/i18n"
	"github.com/thomas-vilte/repograde/internal/models"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	LensEmoji    = "🔍"
	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	RocketEmoji  = Accent.Sprint("🚀")
	StatsEmoji   = Accent.Sprint("📊")
)

// SmartSpinner is a spinner whose message follows the pipeline progress.
type SmartSpinner struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer
}

// NewSmartSpinner creates a spinner writing to w with an initial message.
func NewSmartSpinner(w io.Writer, initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithWriter(w),
		spinner.WithSuffix(" "+LensEmoji+" "+initialMessage),
	)
	return &SmartSpinner{spinner: s, out: w}
}

func (s *SmartSpinner) Start() {
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Lock()
	s.spinner.Suffix = " " + LensEmoji + " " + msg
	s.spinner.Unlock()
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(s.out, msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(s.out, msg)
}

// ProgressMessages maps pipeline states to the message shown while they run.
type ProgressMessages map[models.PipelineState]string

// ProgressFunc returns a callback that moves the spinner along with the pipeline.
// Terminal states are left to the caller so it can print the outcome.
func (s *SmartSpinner) ProgressFunc(messages ProgressMessages) func(models.ProgressEvent) {
	return func(event models.ProgressEvent) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if event.Type.Terminal() {
			return
		}
		if msg, ok := messages[event.Type]; ok {
			s.UpdateMessage(msg)
		}
	}
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s %s\n", RocketEmoji, Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// HandleAppError prints err to stderr in a friendly way.
// If translations is nil, it will use English defaults.
func HandleAppError(err error, translations ...*i18n.Translations) {
	var t *i18n.Translations
	if len(translations) > 0 {
		t = translations[0]
	}
	FprintAppError(os.Stderr, err, t)
}

// FprintAppError writes err to w, with its details, context and suggestion when it is an AppError.
func FprintAppError(w io.Writer, err error, t *i18n.Translations) {
	if err == nil {
		return
	}

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		PrintError(w, err.Error())
		return
	}

	suggestionColor := color.New(color.FgCyan)

	_, _ = fmt.Fprintln(w)
	_, _ = Error.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)

	detailsLabel, tryPrefix := "Details", "Try"
	if t != nil {
		detailsLabel = t.GetMessage("ui_error.details", 0, nil)
		tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
	}

	if appErr.Err != nil {
		_, _ = Dim.Fprintf(w, "   %s: %v\n", detailsLabel, appErr.Err)
	}

	if len(appErr.Context) > 0 {
		keys := make([]string, 0, len(appErr.Context))
		for k := range appErr.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = Dim.Fprintf(w, "   %s: %v\n", k, appErr.Context[k])
		}
	}

	if appErr.Suggestion != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = suggestionColor.Fprintf(w, "💡 %s: ", tryPrefix)
		lines := strings.Split(appErr.Suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				_, _ = fmt.Fprintln(w, line)
			} else {
				_, _ = fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
	_, _ = fmt.Fprintln(w)
}
