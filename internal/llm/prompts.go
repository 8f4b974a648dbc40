// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"strings"
	"text/template"
)

// systemPrompt pins the chat-based providers to list-only output.
const systemPrompt = "You are a materials scientist. Reply ONLY with a Python list of valid chemical formulas."

// suggestTmpl is the suggestion prompt for chat-based providers, which carry
// the output-format instruction in the system prompt instead.
var suggestTmpl = template.Must(template.New("suggest").Parse(
	`Suggest chemical formulas for: {{.Goal}}`))

// suggestListTmpl is the self-contained suggestion prompt for providers
// without a system-prompt channel. It spells out the expected list shape.
var suggestListTmpl = template.Must(template.New("suggest-list").Parse(
	`Suggest a Python list of {{.Count}} chemical formulas (e.g., ['TiO2', 'ZnO', ...]) for the following design goal:
'{{.Goal}}'
Reply ONLY with the list.`))

// evaluateTmpl asks a provider to screen pooled candidates against the goal.
// Both providers share it.
var evaluateTmpl = template.Must(template.New("evaluate").Parse(
	`Given the following list of chemical formulas: {{.Formulas}}
Check each formula and return a Python list of only those that fully comply with this design goal: '{{.Goal}}'.
Reply ONLY with the filtered list.`))

// renderSuggestPrompt renders the chat-form suggestion prompt.
func renderSuggestPrompt(goal string) (string, error) {
	return render(suggestTmpl, struct{ Goal string }{Goal: goal})
}

// renderSuggestListPrompt renders the self-contained suggestion prompt
// asking for count formulas.
func renderSuggestListPrompt(goal string, count int) (string, error) {
	return render(suggestListTmpl, struct {
		Goal  string
		Count int
	}{Goal: goal, Count: count})
}

// renderEvaluatePrompt renders the compliance-screening prompt. The formula
// list is shown to the model in the same bracketed form it is expected to
// reply with.
func renderEvaluatePrompt(formulas []string, goal string) (string, error) {
	return render(evaluateTmpl, struct {
		Formulas string
		Goal     string
	}{Formulas: formulaList(formulas), Goal: goal})
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formulaList renders formulas as a single-quoted bracketed list, e.g.
// ['TiO2', 'ZnO']. Formulas have already passed the token filter, so the
// quoting needs no escaping.
func formulaList(formulas []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range formulas {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(f)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}
