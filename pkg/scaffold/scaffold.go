// Package scaffold renders the hand-off prompt for a text skill,
// folding in brand context and accumulated upstream outputs.
package scaffold

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/brandmint/brandmint/pkg/registry"
)

const promptTemplate = `# {{ .SkillName }}

Scenario: {{ .ScenarioName }}

## Context

Brand: {{ .Brand }}
{{- if .Description }}
Task: {{ .Description }}
{{- end }}

## Input Data
{{ if .Inputs }}
{{- range .Inputs }}
- {{ . }}
{{- end }}
{{ else }}
- [Will be provided from upstream skills]
{{ end }}
## Output

Save the result as a single JSON object{{ if .OutputPath }} to:

    {{ .OutputPath }}
{{ end }}
Respond with structured fields only; prose goes inside field values.
`

// Params feed one prompt rendering.
type Params struct {
	Skill        *registry.Skill
	Brand        string
	ScenarioName string
	OutputPath   string
	UpstreamData map[string]map[string]any
}

type promptData struct {
	SkillName    string
	ScenarioName string
	Brand        string
	Description  string
	OutputPath   string
	Inputs       []string
}

var tmpl = template.Must(template.New("prompt").Parse(promptTemplate))

// Prompt renders the scaffolded instruction payload for a skill.
func Prompt(p Params) (string, error) {
	scenarioName := p.ScenarioName
	if scenarioName == "" {
		scenarioName = "execution"
	}

	data := promptData{
		SkillName:    p.Skill.Name,
		ScenarioName: scenarioName,
		Brand:        p.Brand,
		Description:  p.Skill.Description,
		OutputPath:   p.OutputPath,
		Inputs:       summarizeUpstream(p.UpstreamData),
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render prompt for %s: %w", p.Skill.ID, err)
	}

	return out.String(), nil
}

// summarizeUpstream turns upstream outputs into one line per skill,
// compact enough for a prompt header.
func summarizeUpstream(upstream map[string]map[string]any) []string {
	if len(upstream) == 0 {
		return nil
	}

	ids := make([]string, 0, len(upstream))
	for id := range upstream {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	lines := make([]string, 0, len(ids))

	for _, id := range ids {
		summary, err := json.Marshal(upstream[id])
		if err != nil {
			continue
		}

		text := string(summary)
		if len(text) > 400 {
			text = text[:400] + "..."
		}

		lines = append(lines, id+": "+text)
	}

	return lines
}
