package dependency

import (
	"strings"

	"github.com/thomas-vilte/repograde/internal/regex"
)

var _ ManifestAnalyzer = (*GoModAnalyzer)(nil)

var goTestLibraries = map[string]bool{
	"github.com/stretchr/testify":       true,
	"github.com/onsi/ginkgo":            true,
	"github.com/onsi/ginkgo/v2":         true,
	"github.com/onsi/gomega":            true,
	"github.com/smartystreets/goconvey": true,
	"go.uber.org/mock":                  true,
	"github.com/golang/mock":            true,
	"gotest.tools/v3":                   true,
}

type GoModAnalyzer struct{}

func NewGoModAnalyzer() *GoModAnalyzer {
	return &GoModAnalyzer{}
}

func (g *GoModAnalyzer) Name() string {
	return "go.mod"
}

func (g *GoModAnalyzer) CanHandle(manifestPath string) bool {
	return baseIs(manifestPath, "go.mod")
}

// Analyze counts direct requirements as dependencies and indirect ones as dev dependencies.
// go.mod never declares a test script; tests show up as _test.go files instead.
func (g *GoModAnalyzer) Analyze(content string) (ManifestInfo, error) {
	direct, indirect := g.parseGoMod(content)
	return ManifestInfo{
		Dependencies:    len(direct),
		DevDependencies: len(indirect),
		TestRunners:     matchRunners(goTestLibraries, direct, indirect),
	}, nil
}

func (g *GoModAnalyzer) parseGoMod(content string) (direct, indirect map[string]string) {
	direct = make(map[string]string)
	indirect = make(map[string]string)

	inRequire := false
	for _, line := range strings.Split(content, "\n") {
		trimmedLine := strings.TrimSpace(line)

		if strings.HasPrefix(trimmedLine, "require (") || trimmedLine == "require(" {
			inRequire = true
			continue
		}

		if trimmedLine == ")" {
			inRequire = false
			continue
		}

		if !inRequire && !strings.HasPrefix(trimmedLine, "require ") {
			continue
		}

		matches := regex.GoModRequireLine.FindStringSubmatch(trimmedLine)
		if len(matches) < 3 {
			continue
		}
		if matches[3] != "" {
			indirect[matches[1]] = matches[2]
		} else {
			direct[matches[1]] = matches[2]
		}
	}
	return direct, indirect
}
