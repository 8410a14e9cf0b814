package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/services"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeRepository(ctx context.Context, repoURL string, progress services.ProgressFunc) (*models.AnalysisResult, error) {
	args := m.Called(ctx, repoURL, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

func post(t *testing.T, router http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	router := NewRouter(new(mockAnalyzer))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestAnalyze_Success(t *testing.T) {
	analyzer := new(mockAnalyzer)
	result := &models.AnalysisResult{
		RepoURL:    "https://github.com/octo/hello",
		Repository: models.RepositoryRef{Host: "github.com", Owner: "octo", Name: "hello"},
		Analysis:   models.DimensionScores{CodeQuality: 80},
		Score:      models.Verdict{NumericalScore: 24, SkillLevel: models.SkillBeginner, Badge: models.BadgeBronze},
		Summary:    "Short summary.",
		Roadmap:    []models.RoadmapStep{{Step: "Add tests", Priority: models.PriorityHigh, EffortEstimate: "1 day"}},
		AnalyzedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	analyzer.On("AnalyzeRepository", mock.Anything, "https://github.com/octo/hello", mock.Anything).Return(result, nil)

	rec := post(t, NewRouter(analyzer), `{"repoUrl":"https://github.com/octo/hello"}`, map[string]string{requestIDHeader: "req-123"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))

	var got models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *result, got)
	analyzer.AssertExpectations(t)
}

func TestAnalyze_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"repoUrl":`},
		{"missing url", `{}`},
		{"blank url", `{"repoUrl":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := new(mockAnalyzer)

			rec := post(t, NewRouter(analyzer), tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
			analyzer.AssertNotCalled(t, "AnalyzeRepository", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid reference",
			err:        domainErrors.ErrInvalidReference.WithContext("reason", "host \"gitlab.com\" is not supported"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REFERENCE",
		},
		{
			name:       "schema violation",
			err:        domainErrors.ErrAnalysisSchemaViolation.WithContext("attempts", 2),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "ANALYSIS_SCHEMA",
		},
		{
			name:       "generation failure",
			err:        domainErrors.ErrGenerationFailure.WithError(errors.New("quota")),
			wantStatus: http.StatusBadGateway,
			wantCode:   "GENERATION",
		},
		{
			name:       "generation timeout",
			err:        domainErrors.ErrGenerationFailure.WithError(domainErrors.ErrGenerationTimeout),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "GENERATION",
		},
		{
			name:       "upstream",
			err:        domainErrors.ErrUpstreamHostFailure,
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM",
		},
		{
			name:       "missing repository",
			err:        domainErrors.ErrRepositoryNotFound.WithContext("repo", "octo/hello"),
			wantStatus: http.StatusNotFound,
			wantCode:   "VCS",
		},
		{
			name:       "configuration",
			err:        domainErrors.ErrAPIKeyMissing,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "CONFIGURATION",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := new(mockAnalyzer)
			analyzer.On("AnalyzeRepository", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := post(t, NewRouter(analyzer), `{"repoUrl":"https://github.com/octo/hello"}`, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.NotEmpty(t, body.RequestID)
			assert.NotContains(t, rec.Body.String(), "boom", "causes are not leaked")
		})
	}
}

func TestAnalyze_TimeoutMessage(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("AnalyzeRepository", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainErrors.ErrGenerationFailure.WithError(domainErrors.ErrGenerationTimeout).WithContext("operation", "summary"))

	rec := post(t, NewRouter(analyzer), `{"repoUrl":"octo/hello"}`, nil)

	body := decodeError(t, rec)
	assert.Equal(t, "generation step timed out", body.Message)
	assert.Equal(t, "summary", body.Details["operation"])
}

func TestRecovery(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("AnalyzeRepository", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("kaboom") })

	rec := post(t, NewRouter(analyzer), `{"repoUrl":"octo/hello"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", decodeError(t, rec).Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, "127.0.0.1:0", NewRouter(new(mockAnalyzer)))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
