package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageOptimize Stage = "optimize"
	StageCodegen  Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedString       Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnterminatedBlockString  Code = "LEXER_UNTERMINATED_BLOCK_STRING"
	CodeLexerUnterminatedBlockComment Code = "LEXER_UNTERMINATED_BLOCK_COMMENT"
	CodeLexerIllegalRune              Code = "LEXER_ILLEGAL_RUNE"
	CodeLexerInvalidEscape            Code = "LEXER_INVALID_ESCAPE"

	// Parser errors
	CodeParserUnexpectedToken   Code = "PARSER_UNEXPECTED_TOKEN"
	CodeParserUnexpectedEOF     Code = "PARSER_UNEXPECTED_EOF"
	CodeParserInvalidLiteral    Code = "PARSER_INVALID_LITERAL"
	CodeParserMixedMatchForms   Code = "PARSER_MIXED_MATCH_FORMS"
	CodeParserUnterminatedTypes Code = "PARSER_UNTERMINATED_TYPE_PARAMS"

	// Codegen errors and warnings
	CodeUnreachableCode           Code = "UNREACHABLE_CODE"
	CodeGenUnresolvedGenericParam Code = "CODEGEN_UNRESOLVED_GENERIC_PARAM"
	CodeGenReturnOutsideFunction  Code = "CODEGEN_RETURN_OUTSIDE_FUNCTION"
	CodeGenLoopControlOutsideLoop Code = "CODEGEN_LOOP_CONTROL_OUTSIDE_LOOP"
	CodeGenInvalidAssignTarget    Code = "CODEGEN_INVALID_ASSIGN_TARGET"
	CodeGenRedeclaredLocal        Code = "CODEGEN_REDECLARED_LOCAL"
	CodeGenUnsupportedNode        Code = "CODEGEN_UNSUPPORTED_NODE"
)

// Span represents a location in source code.
type Span struct {
	Filename string `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Start    int    `json:"offset" yaml:"offset"`
	End      int    `json:"end" yaml:"end"`
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage    `json:"stage" yaml:"stage"`
	Severity Severity `json:"severity" yaml:"severity"`
	Code     Code     `json:"code,omitempty" yaml:"code,omitempty"`
	Message  string   `json:"message" yaml:"message"`
	Span     Span     `json:"location" yaml:"location"`
	Help     string   `json:"help,omitempty" yaml:"help,omitempty"`
	Notes    []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Error renders the diagnostic as a single line, so a Diagnostic can travel as an error.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// HasErrors reports whether any diagnostic in the list is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given severity.
func Count(diags []Diagnostic, sev Severity) int {
	n := 0
	for _, d := range diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
