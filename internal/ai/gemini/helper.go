package gemini

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"regexp"
	"strings"

	"github.com/thomas-vilte/repograde/internal/ai"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/models"
	"google.golang.org/genai"
)

const (
	jsonMIMEType     = "application/json"
	defaultMaxTokens = 4096
)

// extractUsage extracts usage metadata from the Gemini response
func extractUsage(resp *genai.GenerateContentResponse) *models.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}

// GetGenerateConfig returns the configuration for the model. Flash models run with thinking disabled.
func GetGenerateConfig(modelName string, responseType string, schema *genai.Schema) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     float32Ptr(0.3),
		MaxOutputTokens: int32(defaultMaxTokens),
	}

	if responseType == jsonMIMEType {
		config.ResponseMIMEType = jsonMIMEType
		if schema != nil {
			config.ResponseSchema = schema
		}
	}

	if strings.HasPrefix(modelName, "gemini-2.5-flash") {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: int32Ptr(0),
		}
	}

	return config
}

// toGenaiSchema converts the provider-neutral schema into the Gemini representation.
func toGenaiSchema(s *ai.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:             toGenaiType(s.Type),
		Description:      s.Description,
		Enum:             s.Enum,
		Required:         s.Required,
		PropertyOrdering: s.PropertyOrdering,
		Minimum:          s.Minimum,
		Maximum:          s.Maximum,
		MinItems:         s.MinItems,
		MaxItems:         s.MaxItems,
		Items:            toGenaiSchema(s.Items),
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}

	return out
}

func toGenaiType(t ai.SchemaType) genai.Type {
	switch t {
	case ai.TypeObject:
		return genai.TypeObject
	case ai.TypeArray:
		return genai.TypeArray
	case ai.TypeInteger:
		return genai.TypeInteger
	case ai.TypeNumber:
		return genai.TypeNumber
	case ai.TypeString:
		return genai.TypeString
	default:
		return genai.TypeUnspecified
	}
}

// formatResponse joins the text parts of every candidate, skipping thought parts.
func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var formattedContent strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.Text != "" {
				formattedContent.WriteString(part.Text)
			}
		}
	}
	return formattedContent.String()
}

var markdownJSONRegex = regexp.MustCompile("(?s)```(?:json)?\n?(.*?)```")

// ExtractJSON attempts to extract a valid JSON block from text, handling markdown code blocks
// and any prose the model wraps around the payload.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	var bestMarkdown string
	for _, m := range markdownJSONRegex.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 {
			continue
		}
		sanitized := SanitizeJSON(strings.TrimSpace(m[1]))
		if json.Valid([]byte(sanitized)) && len(sanitized) > len(bestMarkdown) {
			bestMarkdown = sanitized
		}
	}
	if bestMarkdown != "" {
		return bestMarkdown
	}

	var bestBlock string
	for i := 0; i < len(text); {
		startIdx := strings.IndexAny(text[i:], "{[")
		if startIdx == -1 {
			break
		}
		startIdx += i

		endIdx := matchingClose(text, startIdx)
		if endIdx == -1 {
			i = startIdx + 1
			continue
		}

		sanitized := SanitizeJSON(text[startIdx : endIdx+1])
		if json.Valid([]byte(sanitized)) && len(sanitized) > len(bestBlock) {
			bestBlock = sanitized
		}
		i = endIdx + 1
	}

	if bestBlock != "" {
		return bestBlock
	}

	return SanitizeJSON(text)
}

// matchingClose returns the index closing the bracket at start, ignoring brackets inside strings, or -1.
func matchingClose(text string, start int) int {
	opener := text[start]
	closer := byte('}')
	if opener == '[' {
		closer = ']'
	}

	count := 0
	inString := false
	escaped := false
	for j := start; j < len(text); j++ {
		char := text[j]
		if escaped {
			escaped = false
			continue
		}
		if char == '\\' {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if char == opener {
			count++
		} else if char == closer {
			count--
			if count == 0 {
				return j
			}
		}
	}
	return -1
}

var jsonStringRegex = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)

// SanitizeJSON escapes raw newlines that models sometimes leave inside string literals.
func SanitizeJSON(s string) string {
	return jsonStringRegex.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "\n", "\\n")
	})
}

// classifyError maps Gemini client errors onto app errors. Context errors pass through untouched
// so callers can tell a timeout from a provider failure.
func classifyError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return err
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource exhausted") {
		return domainErrors.ErrGeminiQuotaExceeded.WithError(err)
	}

	if strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "api key") {
		return domainErrors.ErrGeminiAPIKeyInvalid.WithError(err)
	}

	return domainErrors.ErrAIGeneration.WithError(err)
}

func float32Ptr(f float32) *float32 {
	return &f
}

func int32Ptr(i int32) *int32 {
	return &i
}
