package lsp

import (
	"unicode/utf16"

	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// PublishDiagnosticsParams is the payload of textDocument/publishDiagnostics.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Version     int          `json:"version,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic represents an LSP diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Source   string `json:"source,omitempty"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Position is zero-based; Character counts UTF-16 code units.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// publishDiagnostics sends the document's compiler diagnostics to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version,
		Diagnostics: toLSPDiagnostics(doc.Content, doc.Result.Diagnostics),
	})
}

func toLSPDiagnostics(content string, diags []diag.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, Diagnostic{
			Range:    spanRange(content, d.Span.Start, d.Span.End),
			Severity: diagnosticSeverity(d.Severity),
			Message:  d.Message,
			Code:     string(d.Code),
			Source:   "noodlec",
		})
	}
	return out
}

func diagnosticSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SeverityError:
		return 1 // Error
	case diag.SeverityWarning:
		return 2 // Warning
	case diag.SeverityNote:
		return 3 // Information
	default:
		return 1
	}
}

func nodeRange(content string, span lexer.Span) Range {
	return spanRange(content, span.Start, span.End)
}

func spanRange(content string, start, end int) Range {
	if end < start {
		end = start
	}
	return Range{
		Start: offsetToPosition(content, start),
		End:   offsetToPosition(content, end),
	}
}

// offsetToPosition converts a byte offset into a position. Offsets past the
// end clamp to the end of the document.
func offsetToPosition(content string, offset int) Position {
	var pos Position
	for i, r := range content {
		if i >= offset {
			break
		}
		if r == '\n' {
			pos.Line++
			pos.Character = 0
			continue
		}
		pos.Character += utf16Len(r)
	}
	return pos
}

// positionToOffset converts a position into a byte offset. Characters past
// the end of a line clamp to the line end.
func positionToOffset(content string, pos Position) int {
	line, col := 0, 0
	for i, r := range content {
		if line == pos.Line && (col >= pos.Character || r == '\n') {
			return i
		}
		if r == '\n' {
			line++
			col = 0
			continue
		}
		if line == pos.Line {
			col += utf16Len(r)
		}
	}
	return len(content)
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
