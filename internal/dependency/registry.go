package dependency

import (
	"path"
	"sort"
)

// ManifestInfo is what a build manifest tells about a project.
type ManifestInfo struct {
	Manager         string
	Dependencies    int
	DevDependencies int
	// TestRunners are the known test libraries among the declared dependencies.
	TestRunners []string
	// HasTestScript is set when the manifest declares how to run the tests.
	HasTestScript bool
}

// HasTests reports whether the manifest shows any way of running tests.
func (m ManifestInfo) HasTests() bool {
	return m.HasTestScript || len(m.TestRunners) > 0
}

type ManifestAnalyzer interface {
	Name() string
	CanHandle(manifestPath string) bool
	Analyze(content string) (ManifestInfo, error)
}

type AnalyzerRegistry struct {
	analyzers []ManifestAnalyzer
}

func NewAnalyzerRegistry() *AnalyzerRegistry {
	return &AnalyzerRegistry{
		analyzers: []ManifestAnalyzer{
			NewGoModAnalyzer(),
			NewPackageJsonAnalyzer(),
			NewPyProjectAnalyzer(),
			NewCargoAnalyzer(),
		},
	}
}

// RegisterAnalyzer adds a custom analyzer
func (r *AnalyzerRegistry) RegisterAnalyzer(analyzer ManifestAnalyzer) {
	r.analyzers = append(r.analyzers, analyzer)
}

// Analyze runs the first analyzer that handles manifestPath. ok is false when none does
// or the manifest does not parse.
func (r *AnalyzerRegistry) Analyze(manifestPath, content string) (ManifestInfo, bool) {
	for _, analyzer := range r.analyzers {
		if !analyzer.CanHandle(manifestPath) {
			continue
		}
		info, err := analyzer.Analyze(content)
		if err != nil {
			return ManifestInfo{}, false
		}
		info.Manager = analyzer.Name()
		sort.Strings(info.TestRunners)
		return info, true
	}
	return ManifestInfo{}, false
}

// GetSupportedManifests returns the names of the registered analyzers
func (r *AnalyzerRegistry) GetSupportedManifests() []string {
	supported := make([]string, 0, len(r.analyzers))
	for _, analyzer := range r.analyzers {
		supported = append(supported, analyzer.Name())
	}
	return supported
}

func baseIs(manifestPath, name string) bool {
	return path.Base(manifestPath) == name
}

// matchRunners returns the entries of known found among names, without duplicates.
func matchRunners(known map[string]bool, names ...map[string]string) []string {
	seen := make(map[string]bool)
	var runners []string
	for _, group := range names {
		for name := range group {
			if known[name] && !seen[name] {
				seen[name] = true
				runners = append(runners, name)
			}
		}
	}
	return runners
}
