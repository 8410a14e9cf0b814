package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeInvalidReference ErrorType = "INVALID_REFERENCE"
	TypeAnalysisSchema   ErrorType = "ANALYSIS_SCHEMA"
	TypeGeneration       ErrorType = "GENERATION"
	TypeUpstream         ErrorType = "UPSTREAM"
	TypeConfiguration    ErrorType = "CONFIGURATION"
	TypeAI               ErrorType = "AI"
	TypeVCS              ErrorType = "VCS"
	TypeInternal         ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if reason, ok := e.Context["reason"].(string); ok && reason != "" {
			msg += fmt.Sprintf(" - %s", reason)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type and message, so derived
// errors built with WithError/WithContext still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Pipeline errors
var (
	ErrInvalidReference = NewAppError(TypeInvalidReference, "repository URL does not resolve to owner/name", nil).
				WithSuggestion("Use a URL like: https://github.com/<owner>/<name>")

	ErrAnalysisSchemaViolation = NewAppError(TypeAnalysisSchema, "dimension analysis returned invalid scores", nil).
					WithSuggestion("This is likely a temporary model issue, please try again")

	ErrGenerationFailure = NewAppError(TypeGeneration, "generation step failed", nil).
				WithSuggestion("Try again or check your AI provider configuration")

	ErrGenerationTimeout = NewAppError(TypeGeneration, "generation step timed out", nil).
				WithSuggestion("Increase timeouts.generation in your config or retry later")

	ErrUpstreamHostFailure = NewAppError(TypeUpstream, "repository host is unavailable", nil).
				WithSuggestion("Check your network connection or try again in a few minutes")
)

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "AI API key is missing", nil).
				WithSuggestion("Set GEMINI_API_KEY or run: repograde config init")

	ErrProviderNotSupported = NewAppError(TypeConfiguration, "AI provider not supported", nil).
				WithSuggestion("Currently only gemini is supported")
)

// GitHub/VCS specific errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository URL and that the repository is public")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens\nThen set GITHUB_TOKEN")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")

	ErrGitHubRequest = NewAppError(TypeVCS, "GitHub request failed", nil)
)

// Gemini/AI specific errors
var (
	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrInvalidAIOutput = NewAppError(TypeAI, "invalid AI output format", nil).
				WithSuggestion("This is likely a temporary issue, please try again")

	ErrGeminiAPIKeyInvalid = NewAppError(TypeAI, "Gemini API key is invalid", nil).
				WithSuggestion("Get a valid API key at: https://aistudio.google.com/app/apikey\nThen set GEMINI_API_KEY")

	ErrGeminiQuotaExceeded = NewAppError(TypeAI, "Gemini API quota exceeded", nil).
				WithSuggestion("Wait for quota to reset or upgrade your Gemini plan")
)

// KindOf returns the type of the outermost AppError in the chain, or TypeInternal.
func KindOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	if stderrors.Is(err, ErrGenerationTimeout) {
		return http.StatusGatewayTimeout
	}
	if stderrors.Is(err, ErrRepositoryNotFound) {
		return http.StatusNotFound
	}
	switch KindOf(err) {
	case TypeInvalidReference:
		return http.StatusBadRequest
	case TypeAnalysisSchema:
		return http.StatusUnprocessableEntity
	case TypeGeneration, TypeUpstream, TypeAI, TypeVCS:
		return http.StatusBadGateway
	case TypeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
