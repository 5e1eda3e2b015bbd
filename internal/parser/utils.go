package parser

import (
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// mergeSpan assumes start.End <= end.End and returns a span covering both.
// Callers pass the earliest span first so node spans only grow.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if span.Filename == "" {
		span.Filename = end.Filename
	}

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

func sameTokenPosition(a, b lexer.Token) bool {
	return a.Type == b.Type && a.Span.Start == b.Span.Start && a.Span.End == b.Span.End
}

func isStatementStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.LET, lexer.DEF, lexer.CLASS, lexer.ASYNC, lexer.RETURN, lexer.IF,
		lexer.WHILE, lexer.FOR, lexer.BREAK, lexer.CONTINUE, lexer.IMPORT,
		lexer.FROM, lexer.MATCH:
		return true
	default:
		return false
	}
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekTok.Type]; ok {
		return prec
	}

	return precedenceLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curTok.Type]; ok {
		return prec
	}

	return precedenceLowest
}

// recoverStatement skips tokens until a statement boundary. It always makes
// progress past prev so the caller's loop terminates.
func (p *Parser) recoverStatement(prev lexer.Token) {
	if p.curTok.Type == lexer.EOF {
		return
	}

	if sameTokenPosition(p.curTok, prev) {
		p.nextToken()
	}

	for p.curTok.Type != lexer.EOF {
		switch p.curTok.Type {
		case lexer.SEMICOLON:
			p.nextToken()
			return
		case lexer.RBRACE:
			return
		default:
			if isStatementStart(p.curTok.Type) {
				return
			}
		}

		p.nextToken()
	}
}

// endStatement consumes the ';' terminating the statement whose last token is
// curTok. The semicolon may be omitted before '}' or end of input, after a
// construct ending in '}', and when the next token starts on a later line.
func (p *Parser) endStatement() {
	if p.peekTok.Type == lexer.SEMICOLON {
		p.nextToken()
		return
	}

	if p.semicolonOptional() {
		return
	}

	p.reportExpected("';'", p.peekTok)
}

func (p *Parser) semicolonOptional() bool {
	switch {
	case p.peekTok.Type == lexer.RBRACE, p.peekTok.Type == lexer.EOF:
		return true
	case p.curTok.Type == lexer.RBRACE:
		return true
	case p.peekTok.Span.Line > p.curTok.Span.Line:
		return true
	default:
		return false
	}
}
