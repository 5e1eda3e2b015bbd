package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

func (p *Parser) parseNumberLiteral() ast.Expr {
	tok := p.curTok

	value, ok := parseNumber(tok)
	if !ok {
		p.reportError("invalid number literal "+strconv.Quote(tok.Raw), diag.CodeParserInvalidLiteral, tok.Span)
		return nil
	}

	return ast.NewLiteral(ast.LiteralNumber, value, tok.Span)
}

// parseNumber decodes an INT or FLOAT token into int64 or float64. Integers
// that overflow int64 fall back to float64.
func parseNumber(tok lexer.Token) (any, bool) {
	text := strings.ReplaceAll(tok.Raw, "_", "")

	if tok.Type == lexer.FLOAT {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}

	base := 10
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base = 16
			text = text[2:]
		case 'b', 'B':
			base = 2
			text = text[2:]
		}
	}

	n, err := strconv.ParseInt(text, base, 64)
	if err == nil {
		return n, true
	}

	if base == 10 && errors.Is(err, strconv.ErrRange) {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr == nil {
			return f, true
		}
	}
	return nil, false
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return ast.NewLiteral(ast.LiteralString, p.curTok.Value, p.curTok.Span)
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	return ast.NewLiteral(ast.LiteralBool, p.curTok.Type == lexer.TRUE, p.curTok.Span)
}

func (p *Parser) parseNoneLiteral() ast.Expr {
	return ast.NewLiteral(ast.LiteralNone, nil, p.curTok.Span)
}
