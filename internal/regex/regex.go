package regex

import "regexp"

var (
	// Repository reference patterns
	SSHRepo       = regexp.MustCompile(`^git@([^:]+):([^/]+)/(.+?)(?:\.git)?/?$`)
	RepoPath      = regexp.MustCompile(`^/?([^/]+)/([^/]+?)(?:\.git)?(?:/.*)?$`)
	OwnerName     = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	RepoName      = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
	URLSchemeHead = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

	// Test signal patterns over manifests and file paths
	TestScript = regexp.MustCompile(`(?i)("test"\s*:\s*"[^"]+"|\bjest\b|\bmocha\b|\bvitest\b|\bpytest\b|\bgo test\b|\bcargo test\b|\bjunit\b|\brspec\b|\bphpunit\b|\bunittest\b|\bava\b)`)
	TestPath   = regexp.MustCompile(`(?i)(^|/)(tests?|__tests__|specs?|testing)/|(_test\.[a-z]+$)|(\.(test|spec)\.[a-z]+$)|((^|/)test_[^/]+\.py$)`)
	LintConfig = regexp.MustCompile(`(?i)(^|/)(\.eslintrc[^/]*|eslint\.config\.[a-z]+|\.golangci\.ya?ml|\.prettierrc[^/]*|\.flake8|ruff\.toml|\.rubocop\.yml|\.editorconfig|biome\.json|tslint\.json)$`)
	CIConfig   = regexp.MustCompile(`(?i)^(\.github/workflows/[^/]+\.ya?ml|\.gitlab-ci\.yml|\.circleci/config\.yml|\.travis\.yml|azure-pipelines\.yml|Jenkinsfile)$`)

	// go.mod require lines, in a block or single-line form
	GoModRequireLine = regexp.MustCompile(`^(?:require\s+)?([^\s()]+)\s+(v\S+)(\s+//\s*indirect)?`)

	// Leading project name of a PEP 508 requirement
	PythonRequirementName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)

	// Sentence boundaries in generated prose
	SentenceEnd = regexp.MustCompile(`[.!?](\s|$)`)
)
