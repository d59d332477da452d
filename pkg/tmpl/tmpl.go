// Package tmpl renders user supplied Go templates for command output, such
// as `lector ls --format`.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

var funcs = template.FuncMap{
	"join":     strings.Join,
	"upper":    strings.ToUpper,
	"lower":    strings.ToLower,
	"truncate": truncateWidth,
	"ago":      ago,
	"bytes":    func(n int64) string { return humanize.Bytes(uint64(max(n, 0))) },
	"comma":    func(n int) string { return humanize.Comma(int64(n)) },
	"percent":  func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
}

func truncateWidth(width int, s string) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// Template is a parsed output template.
type Template struct {
	t *template.Template
}

// Parse compiles a template once so it can be executed per row.
//
// Available template functions:
//   - join: join a string slice with a separator (join .Terms ", ")
//   - upper, lower: change case
//   - truncate: cut to a display width with an ellipsis (truncate 30 .Title)
//   - ago: relative time, "never" for the zero time
//   - bytes: human readable size (bytes .Size)
//   - comma: thousands separators
//   - percent: a 0..1 fraction as a whole percentage
func Parse(text string) (*Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(text)
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

// Render parses and executes tmpl in one step.
// Returns an error if the template is invalid or references undefined keys.
func Render(tmpl string, data any) (string, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}
