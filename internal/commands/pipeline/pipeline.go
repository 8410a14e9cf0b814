package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/services"
	"gopkg.in/yaml.v3"
)

// Analyzer is the part of the analysis service the commands use.
type Analyzer interface {
	AnalyzeRepository(ctx context.Context, repoURL string, progress services.ProgressFunc) (*models.AnalysisResult, error)
}

// Factory builds the Analyzer on demand, so commands that never analyze don't need an API key.
type Factory func(ctx context.Context) (Analyzer, error)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	case FormatYAML:
		return FormatYAML, true
	default:
		return "", false
	}
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q cannot be encoded", format)
	}
}
