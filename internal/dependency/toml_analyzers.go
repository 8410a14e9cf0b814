package dependency

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/thomas-vilte/repograde/internal/regex"
)

var (
	_ ManifestAnalyzer = (*PyProjectAnalyzer)(nil)
	_ ManifestAnalyzer = (*CargoAnalyzer)(nil)
)

var pyTestLibraries = map[string]bool{
	"pytest":     true,
	"pytest-cov": true,
	"hypothesis": true,
	"nose2":      true,
	"tox":        true,
}

type PyProjectAnalyzer struct{}

func NewPyProjectAnalyzer() *PyProjectAnalyzer {
	return &PyProjectAnalyzer{}
}

func (p *PyProjectAnalyzer) Name() string {
	return "pyproject.toml"
}

func (p *PyProjectAnalyzer) CanHandle(manifestPath string) bool {
	return baseIs(manifestPath, "pyproject.toml")
}

type pyProject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]interface{} `toml:"dependency-groups"`
	Tool             struct {
		Pytest map[string]interface{} `toml:"pytest"`
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
			Group        map[string]struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Analyze reads PEP 621 and Poetry tables. Optional and group dependencies count as dev dependencies.
func (p *PyProjectAnalyzer) Analyze(content string) (ManifestInfo, error) {
	var doc pyProject
	if _, err := toml.Decode(content, &doc); err != nil {
		return ManifestInfo{}, fmt.Errorf("error parsing pyproject.toml: %w", err)
	}

	deps := make(map[string]string)
	for _, req := range doc.Project.Dependencies {
		deps[pythonPackageName(req)] = req
	}
	for name, constraint := range doc.Tool.Poetry.Dependencies {
		if strings.EqualFold(name, "python") {
			continue
		}
		deps[strings.ToLower(name)] = fmt.Sprint(constraint)
	}

	dev := make(map[string]string)
	for _, group := range doc.Project.OptionalDependencies {
		for _, req := range group {
			dev[pythonPackageName(req)] = req
		}
	}
	for _, group := range doc.DependencyGroups {
		for _, req := range group {
			if s, ok := req.(string); ok {
				dev[pythonPackageName(s)] = s
			}
		}
	}
	for _, group := range doc.Tool.Poetry.Group {
		for name, constraint := range group.Dependencies {
			dev[strings.ToLower(name)] = fmt.Sprint(constraint)
		}
	}

	runners := matchRunners(pyTestLibraries, deps, dev)
	return ManifestInfo{
		Dependencies:    len(deps),
		DevDependencies: len(dev),
		TestRunners:     runners,
		HasTestScript:   doc.Tool.Pytest != nil,
	}, nil
}

// pythonPackageName extracts the normalized project name from a requirement like "Requests[socks]>=2.0".
func pythonPackageName(requirement string) string {
	name := regex.PythonRequirementName.FindString(strings.TrimSpace(requirement))
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

var rustTestLibraries = map[string]bool{
	"proptest":   true,
	"quickcheck": true,
	"rstest":     true,
	"mockall":    true,
	"criterion":  true,
	"insta":      true,
}

type CargoAnalyzer struct{}

func NewCargoAnalyzer() *CargoAnalyzer {
	return &CargoAnalyzer{}
}

func (c *CargoAnalyzer) Name() string {
	return "Cargo.toml"
}

func (c *CargoAnalyzer) CanHandle(manifestPath string) bool {
	return baseIs(manifestPath, "Cargo.toml")
}

type cargoManifest struct {
	Dependencies    map[string]interface{} `toml:"dependencies"`
	DevDependencies map[string]interface{} `toml:"dev-dependencies"`
}

// Analyze counts [dependencies] and [dev-dependencies].
func (c *CargoAnalyzer) Analyze(content string) (ManifestInfo, error) {
	var doc cargoManifest
	if _, err := toml.Decode(content, &doc); err != nil {
		return ManifestInfo{}, fmt.Errorf("error parsing Cargo.toml: %w", err)
	}

	deps := stringKeys(doc.Dependencies)
	dev := stringKeys(doc.DevDependencies)
	return ManifestInfo{
		Dependencies:    len(deps),
		DevDependencies: len(dev),
		TestRunners:     matchRunners(rustTestLibraries, deps, dev),
	}, nil
}

func stringKeys(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}
