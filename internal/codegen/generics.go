package codegen

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/diag"
)

func (g *Generator) pushTypeParams(params []*ast.TypeParam) {
	names := make(map[string]struct{}, len(params))
	for _, tp := range params {
		names[tp.Name.Name] = struct{}{}
	}
	g.typeParams = append(g.typeParams, names)

	// Bounds may refer to any parameter of the same list.
	for _, tp := range params {
		g.checkTypeRef(tp.Bound)
	}
}

func (g *Generator) popTypeParams() {
	g.typeParams = g.typeParams[:len(g.typeParams)-1]
}

func (g *Generator) typeParamDeclared(name string) bool {
	for i := len(g.typeParams) - 1; i >= 0; i-- {
		if _, ok := g.typeParams[i][name]; ok {
			return true
		}
	}
	return false
}

// checkTypeRef reports generic parameter names that no enclosing declaration
// introduces, emitting a NOP placeholder for each.
func (g *Generator) checkTypeRef(ref *ast.TypeRef) {
	if ref == nil {
		return
	}
	if isGenericParamName(ref.Name) && !g.typeParamDeclared(ref.Name) {
		g.reportError(diag.CodeGenUnresolvedGenericParam, ref, "unresolved generic type parameter '%s'", ref.Name)
		g.emit(ref, bytecode.NOP)
	}
	for _, arg := range ref.TypeArgs {
		g.checkTypeRef(arg)
	}
	g.checkTypeRef(ref.UnionWith)
}

// isGenericParamName matches the conventional generic parameter spelling: a
// single upper-case ASCII letter optionally followed by digits (T, K, T1).
func isGenericParamName(name string) bool {
	if len(name) == 0 || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for i := 1; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}
