// Package output renders command results as text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/noodle-lang/noodlec/internal/diag"
)

// Mode selects how structured results are written.
type Mode string

// Output modes.
const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
)

// Renderer writes results to stdout and diagnostics to stderr.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	color  bool

	success lipgloss.Style
	warn    lipgloss.Style
	faint   lipgloss.Style
}

// NewRenderer creates a renderer. Colour is used only when requested and
// out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode, color bool) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		color:  color && IsTerminal(out),
	}
	plain := lipgloss.NewStyle()
	r.success, r.warn, r.faint = plain, plain, plain
	if r.color {
		r.success = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
		r.warn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
		r.faint = lipgloss.NewStyle().Faint(true)
	}
	return r
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Mode returns the output mode.
func (r *Renderer) Mode() Mode { return r.mode }

// Writer returns the result writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the diagnostics writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the diagnostic styles matching the renderer's colour setting.
func (r *Renderer) Styles() diag.Styles {
	if r.color {
		return diag.DefaultStyles()
	}
	return diag.PlainStyles()
}

// Structured writes v as JSON or YAML according to the mode. It reports
// false in text mode so the caller can render its own view.
func (r *Renderer) Structured(v any) (bool, error) {
	switch r.mode {
	case ModeJSON:
		return true, r.JSON(v)
	case ModeYAML:
		return true, r.YAML(v)
	default:
		return false, nil
	}
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Diagnostics writes diags to the error writer with source snippets taken
// from sources, keyed by filename.
func (r *Renderer) Diagnostics(sources map[string]string, diags []diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	f := diag.NewFormatter(r.errOut, r.Styles())
	for name, src := range sources {
		f.AddSource(name, src)
	}
	f.FormatAll(diags)
}

// Table writes a light-style table.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

// Success prints a highlighted status line.
func (r *Renderer) Success(format string, args ...any) {
	fmt.Fprintln(r.out, r.success.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a highlighted warning line to the error writer.
func (r *Renderer) Warn(format string, args ...any) {
	fmt.Fprintln(r.errOut, r.warn.Render(fmt.Sprintf(format, args...)))
}

// Info prints a dimmed status line.
func (r *Renderer) Info(format string, args ...any) {
	fmt.Fprintln(r.out, r.faint.Render(fmt.Sprintf(format, args...)))
}
