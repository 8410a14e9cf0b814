package ai

import (
	"bytes"
	"fmt"
	"text/template"
)

// PromptData holds the parameters for template rendering
type PromptData struct {
	Repository   string
	HasReadme    bool
	Readme       string
	HasManifest  bool
	ManifestPath string
	Manifest     string
	HasTree      bool
	FileTree     string
	TreeCount    int
	Signals      []string
	Violations   []string

	CodeQuality        int
	ProjectStructure   int
	Documentation      int
	TestCoverage       int
	RealWorldRelevance int
	CommitConsistency  int
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const (
	dimensionsPromptTemplateEN = `# Task
  Act as a Senior Software Engineer reviewing a public repository{{if .Repository}} ({{.Repository}}){{end}}.
  Score it on six dimensions, each an integer from 0 to 100.

  # Evidence
  ## README
  {{if .HasReadme}}{{.Readme}}{{else}}(not available){{end}}

  ## Manifest{{if .ManifestPath}} ({{.ManifestPath}}){{end}}
  {{if .HasManifest}}{{.Manifest}}{{else}}(not available){{end}}

  ## File tree{{if .HasTree}} ({{.TreeCount}} files){{end}}
  {{if .HasTree}}{{.FileTree}}{{else}}(not available){{end}}
{{if .Signals}}
  ## Detected signals
{{range .Signals}}  - {{.}}
{{end}}{{end}}
  # Dimensions
  - codeQuality: idioms, tooling and dependency hygiene visible in the manifest and tree.
  - projectStructure: how clearly the tree separates concerns.
  - documentation: how well the README explains purpose, setup and usage.
  - testCoverage: evidence of automated tests.
  - realWorldRelevance: whether the project solves a real problem for real users.
  - commitConsistency: use 75 if the other five average above 40, otherwise 50.

  # Rules
  1. **No Hallucinations:** Judge only the evidence above.
  2. If the manifest is not available, codeQuality is 20.
  3. If the file tree is not available, projectStructure is 20.
  4. If the README is not available or trivially short, documentation is 10.
  5. If there is no test script and no test file, testCoverage is 0.
  6. If the README is not available, realWorldRelevance is 50.
  7. **Format:** Raw JSON only, no markdown blocks.

  # Output Format
  {
    "codeQuality": 0,
    "projectStructure": 0,
    "documentation": 0,
    "testCoverage": 0,
    "realWorldRelevance": 0,
    "commitConsistency": 0
  }`

	dimensionsPromptTemplateES = `# Tarea
  Actuá como un Senior Software Engineer revisando un repositorio público{{if .Repository}} ({{.Repository}}){{end}}.
  Puntualo en seis dimensiones, cada una un entero de 0 a 100.

  # Evidencia
  ## README
  {{if .HasReadme}}{{.Readme}}{{else}}(no disponible){{end}}

  ## Manifiesto{{if .ManifestPath}} ({{.ManifestPath}}){{end}}
  {{if .HasManifest}}{{.Manifest}}{{else}}(no disponible){{end}}

  ## Árbol de archivos{{if .HasTree}} ({{.TreeCount}} archivos){{end}}
  {{if .HasTree}}{{.FileTree}}{{else}}(no disponible){{end}}
{{if .Signals}}
  ## Señales detectadas
{{range .Signals}}  - {{.}}
{{end}}{{end}}
  # Dimensiones
  - codeQuality: idioms, herramientas e higiene de dependencias visibles en el manifiesto y el árbol.
  - projectStructure: qué tan claro separa responsabilidades el árbol.
  - documentation: qué tan bien explica el README el propósito, la instalación y el uso.
  - testCoverage: evidencia de tests automatizados.
  - realWorldRelevance: si el proyecto resuelve un problema real para usuarios reales.
  - commitConsistency: usá 75 si las otras cinco promedian más de 40, si no 50.

  # Reglas
  1. **Sin alucinaciones:** Juzgá solo la evidencia de arriba.
  2. Si el manifiesto no está disponible, codeQuality es 20.
  3. Si el árbol de archivos no está disponible, projectStructure es 20.
  4. Si el README no está disponible o es trivialmente corto, documentation es 10.
  5. Si no hay script de tests ni archivos de test, testCoverage es 0.
  6. Si el README no está disponible, realWorldRelevance es 50.
  7. **Formato:** Solo JSON crudo, sin bloques markdown.
  8. Los nombres de los campos van en inglés, tal cual.

  # Formato de salida
  {
    "codeQuality": 0,
    "projectStructure": 0,
    "documentation": 0,
    "testCoverage": 0,
    "realWorldRelevance": 0,
    "commitConsistency": 0
  }`
)

const (
	correctionPromptTemplateEN = `

  # Correction
  Your previous answer was rejected:
{{range .Violations}}  - {{.}}
{{end}}
  Answer again with all six fields, each an integer between 0 and 100. Raw JSON only.`

	correctionPromptTemplateES = `

  # Corrección
  Tu respuesta anterior fue rechazada:
{{range .Violations}}  - {{.}}
{{end}}
  Respondé de nuevo con los seis campos, cada uno un entero entre 0 y 100. Solo JSON crudo.`
)

const (
	summaryPromptTemplateEN = `# Task
  Write a 2-3 sentence summary of a repository review. Mention its main strengths and its main weaknesses.

  # Scores (0-100)
  - Code quality: {{.CodeQuality}}
  - Project structure: {{.ProjectStructure}}
  - Documentation: {{.Documentation}}
  - Test coverage: {{.TestCoverage}}
  - Real-world relevance: {{.RealWorldRelevance}}
  - Commit consistency: {{.CommitConsistency}}

  # Rules
  1. Refer only to the scores above.
  2. Tone: direct and constructive.
  3. **Format:** Raw JSON only.

  # Output Format
  {"summary": "..."}`

	summaryPromptTemplateES = `# Tarea
  Escribí un resumen de 2-3 oraciones de la revisión de un repositorio. Mencioná sus principales fortalezas y debilidades.

  # Puntajes (0-100)
  - Calidad de código: {{.CodeQuality}}
  - Estructura del proyecto: {{.ProjectStructure}}
  - Documentación: {{.Documentation}}
  - Cobertura de tests: {{.TestCoverage}}
  - Relevancia real: {{.RealWorldRelevance}}
  - Consistencia de commits: {{.CommitConsistency}}

  # Reglas
  1. Referite solo a los puntajes de arriba.
  2. Tono: directo y constructivo.
  3. **Formato:** Solo JSON crudo.

  # Formato de salida
  {"summary": "..."}`
)

const (
	roadmapPromptTemplateEN = `# Task
  Build an improvement roadmap for a repository with 3 to 5 concrete steps, most impactful first.

  # Scores (0-100)
  - codeQuality: {{.CodeQuality}}
  - projectStructure: {{.ProjectStructure}}
  - documentation: {{.Documentation}}
  - testCoverage: {{.TestCoverage}}
  - realWorldRelevance: {{.RealWorldRelevance}}
  - commitConsistency: {{.CommitConsistency}}

  # Rules
  1. Focus on the lowest scores.
  2. priority is exactly one of: High, Medium, Low.
  3. effortEstimate is a short duration such as "2 hours" or "1 week".
  4. **Format:** Raw JSON only.

  # Output Format
  {"roadmap": [{"step": "...", "priority": "High", "effortEstimate": "..."}]}`

	roadmapPromptTemplateES = `# Tarea
  Armá un plan de mejora para un repositorio con 3 a 5 pasos concretos, primero los de mayor impacto.

  # Puntajes (0-100)
  - codeQuality: {{.CodeQuality}}
  - projectStructure: {{.ProjectStructure}}
  - documentation: {{.Documentation}}
  - testCoverage: {{.TestCoverage}}
  - realWorldRelevance: {{.RealWorldRelevance}}
  - commitConsistency: {{.CommitConsistency}}

  # Reglas
  1. Enfocate en los puntajes más bajos.
  2. priority es exactamente uno de: High, Medium, Low (en inglés).
  3. effortEstimate es una duración corta como "2 horas" o "1 semana".
  4. **Formato:** Solo JSON crudo.

  # Formato de salida
  {"roadmap": [{"step": "...", "priority": "High", "effortEstimate": "..."}]}`
)

func GetDimensionsPromptTemplate(lang string) string {
	switch lang {
	case "es":
		return dimensionsPromptTemplateES
	default:
		return dimensionsPromptTemplateEN
	}
}

func GetCorrectionPromptTemplate(lang string) string {
	switch lang {
	case "es":
		return correctionPromptTemplateES
	default:
		return correctionPromptTemplateEN
	}
}

func GetSummaryPromptTemplate(lang string) string {
	switch lang {
	case "es":
		return summaryPromptTemplateES
	default:
		return summaryPromptTemplateEN
	}
}

func GetRoadmapPromptTemplate(lang string) string {
	switch lang {
	case "es":
		return roadmapPromptTemplateES
	default:
		return roadmapPromptTemplateEN
	}
}
