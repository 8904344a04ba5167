// Package prompt wraps a digest in the request sent to a summarizing model.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/temirov/digest/internal/digest"
)

// SystemInstructions is the system text paired with the request built by Build.
const SystemInstructions = `You are an expert software engineer performing code repository analysis.
You will be given a directory tree and selected file contents from a repository.
Your task is to produce a structured analysis.

Respond ONLY with a valid JSON object. Do not add markdown fences, explanations or a preamble.
The JSON must have exactly these three fields:

{
  "summary": "<A clear paragraph describing what the project does, its purpose, and who would use it>",
  "technologies": ["<language or framework>", "..."],
  "structure": "<A concise description of how the project is organized: key directories, main modules, and overall architecture pattern>"
}

Rules:
- summary: 2 to 4 sentences. Be specific. Mention the project name.
- technologies: List languages, frameworks, major libraries, databases, and infrastructure tools. No version numbers. No duplicates.
- structure: 2 to 3 sentences describing the layout and architecture (monorepo, MVC, microservices, library package, CLI tool).
`

const (
	requestTemplateName = "request"
	requestTemplateText = `Repository: {{ .Name }}

{{ .Document }}

Analyze the above repository and return the JSON summary.`

	renderFailedFormat = "render prompt for %s: %w"
)

var requestTemplate = template.Must(template.New(requestTemplateName).Option("missingkey=error").Parse(requestTemplateText))

type requestData struct {
	Name     string
	Document string
}

// Build renders the user request for the named repository. The digest is
// embedded as produced by Digest.Document.
func Build(name string, composed digest.Digest) (string, error) {
	var builder strings.Builder
	data := requestData{Name: name, Document: composed.Document()}
	if executeError := requestTemplate.Execute(&builder, data); executeError != nil {
		return "", fmt.Errorf(renderFailedFormat, name, executeError)
	}
	return builder.String(), nil
}

// Full joins the system instructions and the request into one text block for
// tools that accept a single prompt.
func Full(name string, composed digest.Digest) (string, error) {
	request, buildError := Build(name, composed)
	if buildError != nil {
		return "", buildError
	}
	return SystemInstructions + "\n" + request, nil
}
