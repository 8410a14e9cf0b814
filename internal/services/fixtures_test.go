package services

import (
	"encoding/json"
	"strings"

	"github.com/thomas-vilte/repograde/internal/ai"
	"github.com/thomas-vilte/repograde/internal/models"
)

func strPtr(s string) *string {
	return &s
}

// fullSnapshot is a deterministic, well-documented Node project.
func fullSnapshot() models.ContentSnapshot {
	return models.ContentSnapshot{
		Readme: strPtr("# hello\n\n" + strings.Repeat("A small HTTP service that greets people in many languages. ", 4) +
			"\n\n## Usage\n\nnpm start"),
		Manifest:     strPtr(`{"name":"hello","scripts":{"start":"node index.js","test":"jest"}}`),
		ManifestPath: "package.json",
		FileTree: []string{
			".github/workflows/ci.yml",
			".eslintrc.json",
			"README.md",
			"index.js",
			"package.json",
			"src/greet.js",
			"src/greet.test.js",
		},
		Branch: "main",
	}
}

func response(raw string) *ai.GenerationResponse {
	return &ai.GenerationResponse{
		Raw:   json.RawMessage(raw),
		Usage: &models.TokenUsage{InputTokens: 100, OutputTokens: 10, TotalTokens: 110, Model: "gemini-2.5-flash"},
	}
}

const validScoresJSON = `{"codeQuality":90,"projectStructure":80,"documentation":70,"testCoverage":60,"realWorldRelevance":50,"commitConsistency":10}`

const validRoadmapJSON = `{"roadmap":[
	{"step":"Add integration tests for the HTTP handlers","priority":"high","effortEstimate":"2 days"},
	{"step":"Document configuration options","priority":"Medium","effortEstimate":"3 hours"},
	{"step":"Add a CHANGELOG","priority":"LOW","effortEstimate":"1 hour"}
]}`
