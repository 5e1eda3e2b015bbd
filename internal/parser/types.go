package parser

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/lexer"
)

// parseType parses `Name (<T, ...>)? ([])? (| T)? (?)?` with curTok on the
// name. On success curTok is the type's last token.
func (p *Parser) parseType() *ast.TypeRef {
	var name string
	switch p.curTok.Type {
	case lexer.IDENT:
		name = p.curTok.Literal
	case lexer.NONE:
		name = "none"
	default:
		p.reportExpected("type", p.curTok)
		return nil
	}

	typ := ast.NewTypeRef(name, p.curTok.Span)

	if p.peekTok.Type == lexer.LT {
		p.nextToken() // move to '<'
		p.nextToken() // move to first argument

		res, ok := parseDelimited[*ast.TypeRef](p, delimitedConfig{
			Closing:   lexer.GT,
			Separator: lexer.COMMA,
			Element:   "type argument",
		}, func(int) (*ast.TypeRef, bool) {
			arg := p.parseType()
			if arg == nil {
				return nil, false
			}
			return arg, true
		})
		if !ok {
			return nil
		}
		typ.TypeArgs = res.Items
	}

	if p.peekTok.Type == lexer.LBRACKET && p.peekTokenAt(2).Type == lexer.RBRACKET {
		p.nextToken()
		p.nextToken()
		typ.IsArray = true
	}

	if p.peekTok.Type == lexer.PIPE {
		p.nextToken() // move to '|'
		p.nextToken() // move to the alternative

		other := p.parseType()
		if other == nil {
			return nil
		}
		typ.UnionWith = other
	}

	if p.peekTok.Type == lexer.QUESTION {
		p.nextToken()
		typ.IsNullable = true
	}

	typ.SetSpan(mergeSpan(typ.Span(), p.curTok.Span))
	return typ
}
