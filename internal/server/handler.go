package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/services"
)

// Analyzer runs the analysis pipeline for one repository.
type Analyzer interface {
	AnalyzeRepository(ctx context.Context, repoURL string, progress services.ProgressFunc) (*models.AnalysisResult, error)
}

type AnalyzeRequest struct {
	RepoURL string `json:"repoUrl"`
}

type Handler struct {
	analyzer Analyzer
}

func NewHandler(analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with a repoUrl field", nil)
		return
	}
	if strings.TrimSpace(req.RepoURL) == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "repoUrl is required", nil)
		return
	}

	result, err := h.analyzer.AnalyzeRepository(c.Request.Context(), req.RepoURL, nil)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
