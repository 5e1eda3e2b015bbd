package parser

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// parseExpr is the Pratt loop. curTok is the first token of the expression;
// on return curTok is its last token.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix := p.prefixFns[p.curTok.Type]
	if prefix == nil {
		p.reportExpected("expression", p.curTok)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekTok.Type != lexer.SEMICOLON && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekTok.Type]
		if infix == nil {
			return left
		}

		p.nextToken()

		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	return ast.NewIdent(p.curTok.Literal, p.curTok.Span)
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opTok := p.curTok

	p.nextToken()

	operand := p.parseExpr(precedencePrefix)
	if operand == nil {
		return nil
	}

	return ast.NewUnaryExpr(opTok.Type, operand, mergeSpan(opTok.Span, operand.Span()))
}

func (p *Parser) parseAwaitExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()

	value := p.parseExpr(precedencePrefix)
	if value == nil {
		return nil
	}

	return ast.NewAwaitExpr(value, mergeSpan(start, value.Span()))
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	opTok := p.curTok
	precedence := p.curPrecedence()

	p.nextToken()

	right := p.parseExpr(precedence)
	if right == nil {
		return nil
	}

	return ast.NewBinaryExpr(opTok.Type, left, right, mergeSpan(left.Span(), right.Span()))
}

// parseAssignExpr is right associative: `a = b = c` assigns c to b first.
func (p *Parser) parseAssignExpr(target ast.Expr) ast.Expr {
	p.nextToken()

	value := p.parseExpr(precedenceAssign - 1)
	if value == nil {
		return nil
	}

	return ast.NewAssignExpr(target, value, mergeSpan(target.Span(), value.Span()))
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	start := p.curTok.Span

	p.nextToken()

	expr := p.parseExpr(precedenceLowest)
	if expr == nil {
		return nil
	}

	if !p.expect(lexer.RPAREN) {
		return nil
	}

	if spanned, ok := expr.(interface{ SetSpan(lexer.Span) }); ok {
		spanned.SetSpan(mergeSpan(start, p.curTok.Span))
	}

	return expr
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	var args []ast.Expr

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return ast.NewCallExpr(callee, args, mergeSpan(callee.Span(), p.curTok.Span))
	}

	p.nextToken()

	res, ok := parseDelimited[ast.Expr](p, delimitedConfig{
		Closing:       lexer.RPAREN,
		Separator:     lexer.COMMA,
		AllowTrailing: true,
		Element:       "argument",
	}, func(int) (ast.Expr, bool) {
		arg := p.parseExpr(precedenceLowest)
		if arg == nil {
			return nil, false
		}
		return arg, true
	})
	if !ok {
		return nil
	}
	args = res.Items

	return ast.NewCallExpr(callee, args, mergeSpan(callee.Span(), p.curTok.Span))
}

func (p *Parser) parseMemberExpr(object ast.Expr) ast.Expr {
	if !p.expect(lexer.IDENT) {
		return nil
	}

	name := ast.NewIdent(p.curTok.Literal, p.curTok.Span)
	return ast.NewMemberExpr(object, name, mergeSpan(object.Span(), name.Span()))
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.curTok.Span

	p.nextToken()

	res, ok := parseDelimited[ast.Expr](p, delimitedConfig{
		Closing:       lexer.RBRACKET,
		Separator:     lexer.COMMA,
		AllowEmpty:    true,
		AllowTrailing: true,
		Element:       "array element",
	}, func(int) (ast.Expr, bool) {
		elem := p.parseExpr(precedenceLowest)
		if elem == nil {
			return nil, false
		}
		return elem, true
	})
	if !ok {
		return nil
	}

	return ast.NewArrayLit(res.Items, mergeSpan(start, p.curTok.Span))
}

// parseBlockExpr parses a braced match arm body with curTok on '{'.
func (p *Parser) parseBlockExpr() ast.Expr {
	start := p.curTok.Span
	stmts := p.parseBlockBody()
	return ast.NewBlockExpr(stmts, mergeSpan(start, p.curTok.Span))
}
