package ast

import (
	"strings"

	"github.com/noodle-lang/noodlec/internal/lexer"
)

// TypeRef is a type annotation: `Name<Args>[] | Other?`.
type TypeRef struct {
	Name       string
	TypeArgs   []*TypeRef
	IsArray    bool
	IsNullable bool
	UnionWith  *TypeRef
	span       lexer.Span
}

// NewTypeRef constructs a type reference for a bare name.
func NewTypeRef(name string, span lexer.Span) *TypeRef {
	return &TypeRef{Name: name, span: span}
}

// Span returns the type span.
func (t *TypeRef) Span() lexer.Span { return t.span }

// SetSpan updates the type span.
func (t *TypeRef) SetSpan(span lexer.Span) { t.span = span }

// String renders the type in source syntax.
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.TypeArgs) > 0 {
		b.WriteByte('<')
		for i, arg := range t.TypeArgs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte('>')
	}
	if t.IsArray {
		b.WriteString("[]")
	}
	if t.UnionWith != nil {
		b.WriteString(" | ")
		b.WriteString(t.UnionWith.String())
	}
	if t.IsNullable {
		b.WriteByte('?')
	}
	return b.String()
}

// TypeParam is one entry of a `<T: Bound, U>` list.
type TypeParam struct {
	Name  *Ident
	Bound *TypeRef
	span  lexer.Span
}

// NewTypeParam constructs a type parameter node.
func NewTypeParam(name *Ident, bound *TypeRef, span lexer.Span) *TypeParam {
	return &TypeParam{Name: name, Bound: bound, span: span}
}

// Span returns the parameter span.
func (p *TypeParam) Span() lexer.Span { return p.span }
