package parser

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// typeParamListCloses scans ahead from the '<' in peekTok and reports whether
// a matching '>' appears within maxTypeParamScan tokens. Tokens that cannot
// occur inside a type parameter list end the scan early.
func (p *Parser) typeParamListCloses() bool {
	depth := 0
	for i := 1; i <= maxTypeParamScan; i++ {
		tok := p.peekTokenAt(i)
		switch tok.Type {
		case lexer.LT:
			depth++
		case lexer.GT:
			depth--
			if depth == 0 {
				return true
			}
		case lexer.IDENT, lexer.COMMA, lexer.COLON, lexer.PIPE, lexer.QUESTION,
			lexer.LBRACKET, lexer.RBRACKET, lexer.NONE:
		default:
			return false
		}
	}
	return false
}

// parseTypeParams parses `<Name (: Bound)?, ...>` when peekTok is '<'. curTok
// is left on '>' on success. A list that never closes is reported once and
// skipped up to the next '(' or '{' so the declaration can continue.
func (p *Parser) parseTypeParams() ([]*ast.TypeParam, bool) {
	if p.peekTok.Type != lexer.LT {
		return nil, true
	}

	if !p.typeParamListCloses() {
		p.reportError("unterminated type parameter list", diag.CodeParserUnterminatedTypes, p.peekTok.Span)
		for {
			switch p.peekTok.Type {
			case lexer.LPAREN, lexer.LBRACE, lexer.SEMICOLON, lexer.EOF:
				return nil, true
			}
			p.nextToken()
		}
	}

	p.nextToken() // move to '<'
	p.nextToken() // move to first parameter

	res, ok := parseDelimited[*ast.TypeParam](p, delimitedConfig{
		Closing:       lexer.GT,
		Separator:     lexer.COMMA,
		AllowTrailing: true,
		Element:       "type parameter",
	}, func(int) (*ast.TypeParam, bool) {
		if p.curTok.Type != lexer.IDENT {
			p.reportExpected("type parameter name", p.curTok)
			return nil, false
		}
		name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)

		var bound *ast.TypeRef
		if p.peekTok.Type == lexer.COLON {
			p.nextToken() // move to ':'
			p.nextToken() // move to bound
			bound = p.parseType()
			if bound == nil {
				return nil, false
			}
		}

		return ast.NewTypeParam(name, bound, mergeSpan(name.Span(), p.curTok.Span)), true
	})
	if !ok {
		return nil, false
	}

	return res.Items, true
}
