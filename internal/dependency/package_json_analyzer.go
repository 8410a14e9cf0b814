package dependency

import (
	"encoding/json"
	"fmt"
	"strings"
)

var _ ManifestAnalyzer = (*PackageJsonAnalyzer)(nil)

var jsTestLibraries = map[string]bool{
	"jest":                   true,
	"mocha":                  true,
	"vitest":                 true,
	"ava":                    true,
	"jasmine":                true,
	"tap":                    true,
	"cypress":                true,
	"@playwright/test":       true,
	"@testing-library/react": true,
}

// npm init writes this placeholder; it is not a test script.
const npmPlaceholderTest = "no test specified"

type PackageJsonAnalyzer struct{}

func NewPackageJsonAnalyzer() *PackageJsonAnalyzer {
	return &PackageJsonAnalyzer{}
}

func (p *PackageJsonAnalyzer) Name() string {
	return "package.json"
}

func (p *PackageJsonAnalyzer) CanHandle(manifestPath string) bool {
	return baseIs(manifestPath, "package.json")
}

type packageJson struct {
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (p *PackageJsonAnalyzer) Analyze(content string) (ManifestInfo, error) {
	var pkg packageJson
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return ManifestInfo{}, fmt.Errorf("error parsing package.json: %w", err)
	}

	test := strings.TrimSpace(pkg.Scripts["test"])
	return ManifestInfo{
		Dependencies:    len(pkg.Dependencies),
		DevDependencies: len(pkg.DevDependencies),
		TestRunners:     matchRunners(jsTestLibraries, pkg.Dependencies, pkg.DevDependencies),
		HasTestScript:   test != "" && !strings.Contains(test, npmPlaceholderTest),
	}, nil
}
