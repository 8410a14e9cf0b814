package services

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/repograde/internal/dependency"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/regex"
)

// A README shorter than this, once trimmed, carries no real documentation.
const trivialReadmeLength = 120

var manifestAnalyzers = dependency.NewAnalyzerRegistry()

// Signals are the deterministic facts the analyzer derives from a snapshot.
type Signals struct {
	HasReadme     bool
	ReadmeTrivial bool
	HasManifest   bool
	HasTree       bool
	HasTestScript bool
	HasTestPaths  bool
	HasLintConfig bool
	HasCI         bool

	// Set when the manifest could be parsed.
	Ecosystem       string
	Dependencies    int
	DevDependencies int
	TestRunners     []string
}

func DetectSignals(snapshot models.ContentSnapshot) Signals {
	signals := Signals{
		HasReadme:   snapshot.HasReadme(),
		HasManifest: snapshot.HasManifest(),
		HasTree:     snapshot.HasTree(),
	}

	if signals.HasReadme {
		signals.ReadmeTrivial = len(strings.TrimSpace(*snapshot.Readme)) < trivialReadmeLength
	} else {
		signals.ReadmeTrivial = true
	}

	if signals.HasManifest {
		if info, ok := manifestAnalyzers.Analyze(snapshot.ManifestPath, *snapshot.Manifest); ok {
			signals.Ecosystem = info.Manager
			signals.Dependencies = info.Dependencies
			signals.DevDependencies = info.DevDependencies
			signals.TestRunners = info.TestRunners
			signals.HasTestScript = info.HasTests()
		} else {
			signals.HasTestScript = regex.TestScript.MatchString(*snapshot.Manifest)
		}
	}

	for _, path := range snapshot.FileTree {
		if !signals.HasTestPaths && regex.TestPath.MatchString(path) {
			signals.HasTestPaths = true
		}
		if !signals.HasLintConfig && regex.LintConfig.MatchString(path) {
			signals.HasLintConfig = true
		}
		if !signals.HasCI && regex.CIConfig.MatchString(path) {
			signals.HasCI = true
		}
	}

	return signals
}

// HasTests reports whether any evidence of automated tests exists.
func (s Signals) HasTests() bool {
	return s.HasTestScript || s.HasTestPaths
}

// Describe lists the positive signals in plain words for the analysis prompt.
func (s Signals) Describe() []string {
	var out []string
	if s.Ecosystem != "" {
		out = append(out, fmt.Sprintf("%s declares %d dependencies and %d dev dependencies", s.Ecosystem, s.Dependencies, s.DevDependencies))
	}
	if len(s.TestRunners) > 0 {
		out = append(out, "test libraries: "+strings.Join(s.TestRunners, ", "))
	}
	if s.HasReadme && s.ReadmeTrivial {
		out = append(out, "README is trivially short")
	}
	if s.HasTestScript {
		out = append(out, "manifest declares a test script or test runner")
	}
	if s.HasTestPaths {
		out = append(out, "test files or test directories present")
	}
	if !s.HasTests() {
		out = append(out, "no test script and no test files found")
	}
	if s.HasLintConfig {
		out = append(out, "linter or formatter configuration present")
	}
	if s.HasCI {
		out = append(out, "CI workflow present")
	}
	return out
}
