package server

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
)

// ErrorBody is the error object every failed request answers with.
type ErrorBody struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
	RequestID  string                 `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: RequestIDFromContext(c),
		},
	})
}

// respondAppError maps err to its status and writes the envelope. Underlying causes are logged, not returned.
func respondAppError(c *gin.Context, err error) {
	status := domainErrors.HTTPStatus(err)
	logger.Error(c.Request.Context(), "request failed", err, "status", status)

	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		respondError(c, status, string(domainErrors.TypeInternal), "internal error", nil)
		return
	}

	message := appErr.Message
	if errors.Is(err, domainErrors.ErrGenerationTimeout) {
		message = domainErrors.ErrGenerationTimeout.Message
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:       string(appErr.Type),
			Message:    message,
			Details:    appErr.Context,
			Suggestion: appErr.Suggestion,
			RequestID:  RequestIDFromContext(c),
		},
	})
}
