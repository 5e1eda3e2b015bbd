package parser

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/diag"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

type matchForm int

const (
	matchFormUnknown matchForm = iota
	matchFormCase              // case P: body;
	matchFormArrow             // P => body,
)

// parseMatchExpr parses `match subject { cases }`. Cases may be written as
// `case P (when G)? (=> | :) body;` or `P (when G)? => body,`; the first case
// fixes the form for the rest of the match.
func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()
	subject := p.parseExpr(precedenceLowest)
	if subject == nil {
		return nil
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	match := ast.NewMatchExpr(subject, nil, start)
	form := matchFormUnknown

	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		caseForm := matchFormArrow
		if p.curTok.Type == lexer.CASE {
			caseForm = matchFormCase
		}

		switch {
		case form == matchFormUnknown:
			form = caseForm
		case form != caseForm:
			p.reportError("cannot mix 'case' arms and '=>' arms in one match", diag.CodeParserMixedMatchForms, p.curTok.Span)
		}

		mc := p.parseMatchCase(caseForm)
		if mc == nil {
			p.recoverMatchCase()
			continue
		}
		match.Cases = append(match.Cases, mc)

		p.finishMatchCase(caseForm)
	}

	if p.curTok.Type != lexer.RBRACE && !p.reportedAt(p.curTok.Span) {
		p.reportExpected("'}'", p.curTok)
	}

	match.SetSpan(mergeSpan(start, p.curTok.Span))
	return match
}

// parseMatchCase parses one arm. curTok starts on 'case' or the pattern and
// ends on the last token of the body.
func (p *Parser) parseMatchCase(form matchForm) *ast.MatchCase {
	start := p.curTok.Span

	if form == matchFormCase {
		p.nextToken()
	}

	pattern := p.parsePattern()
	if pattern == nil {
		return nil
	}

	var guard ast.Expr
	if p.peekTok.Type == lexer.IF || isWhen(p.peekTok) {
		p.nextToken() // move to 'when' / 'if'
		p.nextToken() // move to guard start
		guard = p.parseExpr(precedenceLowest)
		if guard == nil {
			return nil
		}
	}

	switch {
	case p.peekTok.Type == lexer.FATARROW:
	case form == matchFormCase && p.peekTok.Type == lexer.COLON:
	default:
		if form == matchFormCase {
			p.reportExpected("'=>' or ':'", p.peekTok)
		} else {
			p.reportExpected("'=>'", p.peekTok)
		}
		return nil
	}
	p.nextToken() // move to '=>' / ':'
	p.nextToken() // move to body start

	var body ast.Expr
	if p.curTok.Type == lexer.LBRACE {
		body = p.parseBlockExpr()
	} else {
		body = p.parseExpr(precedenceLowest)
	}
	if body == nil {
		return nil
	}

	return ast.NewMatchCase(pattern, guard, body, mergeSpan(start, p.curTok.Span))
}

// finishMatchCase consumes the separator after an arm, leaving curTok on the
// next arm or the closing '}'.
func (p *Parser) finishMatchCase(form matchForm) {
	sep := lexer.COMMA
	if form == matchFormCase {
		sep = lexer.SEMICOLON
	}

	switch {
	case p.peekTok.Type == sep:
		p.nextToken()
		p.nextToken()
	case p.peekTok.Type == lexer.RBRACE:
		p.nextToken()
	case p.curTok.Type == lexer.RBRACE:
		// A block body needs no separator.
		p.nextToken()
	case form == matchFormCase && p.peekTok.Span.Line > p.curTok.Span.Line:
		p.nextToken()
	default:
		p.reportExpected(lexer.Describe(sep)+" or '}'", p.peekTok)
		p.nextToken()
		p.recoverMatchCase()
	}
}

// recoverMatchCase skips to the start of the next arm: just past a ',' or ';',
// or onto the closing '}'.
func (p *Parser) recoverMatchCase() {
	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.COMMA, lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.RBRACE:
			return
		case lexer.CASE:
			return
		}
		p.nextToken()
	}
}

func isWhen(tok lexer.Token) bool {
	return tok.Type == lexer.IDENT && tok.Literal == "when"
}

// parsePattern parses `_`, a literal (numbers may be negated) or a binder.
func (p *Parser) parsePattern() ast.Pattern {
	tok := p.curTok

	switch tok.Type {
	case lexer.UNDERSCORE:
		return ast.NewWildcardPattern(tok.Span)

	case lexer.IDENT:
		return ast.NewIdentPattern(ast.NewIdent(tok.Literal, tok.Span), tok.Span)

	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.BLOCK_STR, lexer.TRUE, lexer.FALSE, lexer.NONE:
		lit, ok := p.prefixFns[tok.Type]().(*ast.Literal)
		if !ok || lit == nil {
			return nil
		}
		return ast.NewLiteralPattern(lit, tok.Span)

	case lexer.MINUS:
		if p.peekTok.Type != lexer.INT && p.peekTok.Type != lexer.FLOAT {
			p.reportExpected("number after '-' in pattern", p.peekTok)
			return nil
		}
		p.nextToken()
		lit, ok := p.parseNumberLiteral().(*ast.Literal)
		if !ok || lit == nil {
			return nil
		}
		switch v := lit.Value.(type) {
		case int64:
			lit.Value = -v
		case float64:
			lit.Value = -v
		}
		span := mergeSpan(tok.Span, p.curTok.Span)
		lit.SetSpan(span)
		return ast.NewLiteralPattern(lit, span)

	default:
		p.reportExpected("pattern", tok)
		return nil
	}
}
