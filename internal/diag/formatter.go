package diag

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by the formatter.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Note    lipgloss.Style
	Gutter  lipgloss.Style
	Caret   lipgloss.Style
}

// DefaultStyles returns coloured styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Note:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Gutter:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Caret:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Error: s, Warning: s, Note: s, Gutter: s, Caret: s}
}

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	w       io.Writer
	styles  Styles
	sources map[string]string
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer, styles Styles) *Formatter {
	return &Formatter{
		w:       w,
		styles:  styles,
		sources: make(map[string]string),
	}
}

// AddSource registers the text of a file so snippets can be printed for it.
func (f *Formatter) AddSource(filename, src string) {
	f.sources[filename] = src
}

// FormatAll formats every diagnostic in order.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		f.Format(d)
	}
}

// Format writes one diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	src, ok := f.sources[d.Span.Filename]
	if !ok || !d.Span.IsValid() {
		if d.Span.IsValid() {
			fmt.Fprintf(f.w, "  --> %s\n", d.Span)
		}
		f.printHelp(d)
		return
	}

	lines := strings.Split(src, "\n")
	if d.Span.Line > len(lines) {
		fmt.Fprintf(f.w, "  --> %s\n", d.Span)
		f.printHelp(d)
		return
	}

	lineContent := strings.TrimRight(lines[d.Span.Line-1], "\r")
	width := len(fmt.Sprintf("%d", d.Span.Line))
	pad := strings.Repeat(" ", width)
	bar := f.styles.Gutter.Render("|")

	fmt.Fprintf(f.w, "%s %s\n", f.styles.Gutter.Render(pad+"-->"), d.Span)
	fmt.Fprintf(f.w, "%s %s\n", pad, bar)
	fmt.Fprintf(f.w, "%s %s %s\n", f.styles.Gutter.Render(fmt.Sprintf("%d", d.Span.Line)), bar, lineContent)
	fmt.Fprintf(f.w, "%s %s %s%s\n", pad, bar, strings.Repeat(" ", d.Span.Column-1), f.styles.Caret.Render(f.underline(d, src, lineContent)))
	f.printHelp(d)
}

// underline returns carets covering the span, clipped to the printed line.
func (f *Formatter) underline(d Diagnostic, src, lineContent string) string {
	n := 1
	if d.Span.End > d.Span.Start && d.Span.End <= len(src) {
		n = utf8.RuneCountInString(src[d.Span.Start:d.Span.End])
	}
	remaining := utf8.RuneCountInString(lineContent) - (d.Span.Column - 1)
	if n > remaining {
		n = remaining
	}
	if n < 1 {
		n = 1
	}
	return strings.Repeat("^", n)
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}

	style := f.styles.Error
	switch severity {
	case SeverityWarning:
		style = f.styles.Warning
	case SeverityNote:
		style = f.styles.Note
	}

	label := string(severity)
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", severity, d.Code)
	}
	fmt.Fprintf(f.w, "%s: %s\n", style.Render(label), d.Message)
}

func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = %s %s\n", f.styles.Note.Render("note:"), note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "%s %s\n", f.styles.Note.Render("help:"), d.Help)
	}
}
