// Package tmpl provides small text/template helpers for user-configurable
// status and title lines.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"join":  strings.Join,
	"default": func(def, s string) string {
		if s == "" {
			return def
		}
		return s
	},
	// percent renders part of total as a whole percentage, 0 when total is 0.
	"percent": func(part, total int) int {
		if total <= 0 {
			return 0
		}
		return min(part*100/total, 100)
	},
}

// Template is a parsed template that can be executed repeatedly.
type Template struct {
	t *template.Template
}

// Compile parses tmpl. Undefined keys are an execution error.
func Compile(tmpl string) (*Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// Execute renders the template with data.
func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - upper, lower: change case
//   - join: Join string slice with separator (e.g., join .Tabs " ")
//   - default: fall back to a value when a string is empty
//   - percent: integer percentage of part over total
func Render(tmpl string, data any) (string, error) {
	t, err := Compile(tmpl)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}
