package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of the tree rooted at node, one node per
// line with its source position.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	p.print(node, 0)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(node Node, depth int) {
	if p.err != nil {
		return
	}
	span := node.Span()
	_, p.err = fmt.Fprintf(p.w, "%s%s @%d:%d\n", strings.Repeat("  ", depth), label(node), span.Line, span.Column)

	// Type annotations are rendered whole by label.
	if _, ok := node.(*TypeRef); ok {
		return
	}
	for _, child := range children(node) {
		p.print(child, depth+1)
	}
}

// children returns the direct children of node in Walk order.
func children(node Node) []Node {
	var out []Node
	Walk(node, func(n Node) bool {
		if n == node {
			return true
		}
		out = append(out, n)
		return false
	})
	return out
}

func label(node Node) string {
	switch n := node.(type) {
	case *Ident:
		return "Ident " + n.Name
	case *Literal:
		return fmt.Sprintf("Literal %s %s", n.Kind, n.String())
	case *TypeRef:
		return "TypeRef " + n.String()
	case *FnDecl:
		if n.IsAsync {
			return "FnDecl async"
		}
		return "FnDecl"
	case *ForStmt:
		if n.IsAsync {
			return "ForStmt async"
		}
		return "ForStmt"
	case *ImportStmt:
		return fmt.Sprintf("ImportStmt %q", n.Path)
	case *BinaryExpr:
		return fmt.Sprintf("BinaryExpr %s", n.Op)
	case *UnaryExpr:
		return fmt.Sprintf("UnaryExpr %s", n.Op)
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", node), "*ast.")
	}
}
