package ast

import "github.com/noodle-lang/noodlec/internal/lexer"

// Pattern represents a match pattern node.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern represents the `_` wildcard.
type WildcardPattern struct {
	span lexer.Span
}

// NewWildcardPattern constructs a wildcard pattern.
func NewWildcardPattern(span lexer.Span) *WildcardPattern {
	return &WildcardPattern{span: span}
}

// Span returns the wildcard span.
func (p *WildcardPattern) Span() lexer.Span { return p.span }

func (*WildcardPattern) patternNode() {}

// LiteralPattern matches a value equal to a literal.
type LiteralPattern struct {
	Value *Literal
	span  lexer.Span
}

// NewLiteralPattern constructs a literal pattern.
func NewLiteralPattern(value *Literal, span lexer.Span) *LiteralPattern {
	return &LiteralPattern{Value: value, span: span}
}

// Span returns the pattern span.
func (p *LiteralPattern) Span() lexer.Span { return p.span }

func (*LiteralPattern) patternNode() {}

// IdentPattern matches any value and binds it to Name.
type IdentPattern struct {
	Name *Ident
	span lexer.Span
}

// NewIdentPattern constructs an identifier pattern.
func NewIdentPattern(name *Ident, span lexer.Span) *IdentPattern {
	return &IdentPattern{Name: name, span: span}
}

// Span returns the pattern span.
func (p *IdentPattern) Span() lexer.Span { return p.span }

func (*IdentPattern) patternNode() {}
