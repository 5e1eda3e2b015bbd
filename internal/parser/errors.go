package parser

import (
	"fmt"

	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// ParseError captures a recoverable parsing error with location context.
type ParseError struct {
	Message  string
	Span     lexer.Span
	Severity diag.Severity
	Code     diag.Code
}

// ToDiagnostic converts the parse error into the shared diagnostic shape.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	code := e.Code
	if code == "" {
		code = diag.CodeParserUnexpectedToken
	}
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: e.Severity,
		Code:     code,
		Message:  e.Message,
		Span:     e.Span.ToDiag(),
	}
}

// emitParseDiagnostic records a recoverable diagnostic without aborting parsing. All
// call sites must supply the best-effort span available at the failure site.
func (p *Parser) emitParseDiagnostic(msg string, code diag.Code, span lexer.Span, severity diag.Severity) {
	if span.Filename == "" && p.filename != "" {
		span.Filename = p.filename
	}

	p.errors = append(p.errors, ParseError{
		Message:  msg,
		Span:     span,
		Severity: severity,
		Code:     code,
	})
}

// reportError reports a simple error.
func (p *Parser) reportError(msg string, code diag.Code, span lexer.Span) {
	p.emitParseDiagnostic(msg, code, span, diag.SeverityError)
}

// reportedAt reports whether the most recent diagnostic points at span. An
// unclosed construct that already failed at end of input is not reported again.
func (p *Parser) reportedAt(span lexer.Span) bool {
	if len(p.errors) == 0 {
		return false
	}
	last := p.errors[len(p.errors)-1].Span
	return last.Start == span.Start && last.End == span.End
}

// reportExpected reports that expected was wanted where found sits. Running
// into the end of input gets its own wording.
func (p *Parser) reportExpected(expected string, found lexer.Token) {
	if found.Type == lexer.EOF {
		p.reportError("unexpected end of input, expected "+expected, diag.CodeParserUnexpectedEOF, found.Span)
		return
	}

	msg := fmt.Sprintf("expected %s, found %s", expected, lexer.DescribeToken(found))
	p.reportError(msg, diag.CodeParserUnexpectedToken, found.Span)
}
