package codegen

import (
	"github.com/noodle-lang/noodlec/internal/ast"
	"github.com/noodle-lang/noodlec/internal/diag"
)

type frameKind int

const (
	frameModule frameKind = iota
	frameFunction
	frameMethod
)

// frame is the local slot space of the program body or one function body.
// Slots are never reused within a frame.
type frame struct {
	parent   *frame
	kind     frameKind
	scope    *scope
	nextSlot int
	loops    []*loop
}

// scope is one lexical block inside a frame.
type scope struct {
	parent *scope
	names  map[string]int
}

// loop records the patch sites of break and continue statements.
type loop struct {
	continueTarget int
	breaks         []int
}

func newFrame(parent *frame, kind frameKind) *frame {
	return &frame{
		parent: parent,
		kind:   kind,
		scope:  &scope{names: make(map[string]int)},
	}
}

func (f *frame) inFunction() bool {
	return f.kind != frameModule
}

// declare binds name to a fresh slot in the innermost scope. It reports
// whether the name was already bound in that same scope.
func (f *frame) declare(name string) (slot int, redeclared bool) {
	_, redeclared = f.scope.names[name]
	slot = f.alloc()
	f.scope.names[name] = slot
	return slot, redeclared
}

// alloc reserves an unnamed slot.
func (f *frame) alloc() int {
	slot := f.nextSlot
	f.nextSlot++
	return slot
}

// resolve looks name up through the scopes of this frame only. Names bound
// in enclosing frames are reached as globals.
func (f *frame) resolve(name string) (int, bool) {
	for s := f.scope; s != nil; s = s.parent {
		if slot, ok := s.names[name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// globals copies the names of the frame's outermost scope.
func (f *frame) globals() map[string]int {
	root := f.scope
	for root.parent != nil {
		root = root.parent
	}
	out := make(map[string]int, len(root.names))
	for name, slot := range root.names {
		out[name] = slot
	}
	return out
}

func (f *frame) pushScope() {
	f.scope = &scope{parent: f.scope, names: make(map[string]int)}
}

func (f *frame) popScope() {
	if f.scope.parent != nil {
		f.scope = f.scope.parent
	}
}

func (f *frame) currentLoop() *loop {
	if len(f.loops) == 0 {
		return nil
	}
	return f.loops[len(f.loops)-1]
}

func (g *Generator) pushFrame(kind frameKind) {
	g.frame = newFrame(g.frame, kind)
}

func (g *Generator) popFrame() {
	if g.frame.parent != nil {
		g.frame = g.frame.parent
	}
}

// bind declares name in the current scope, warning on a same-scope
// redeclaration.
func (g *Generator) bind(name string, node ast.Node) int {
	slot, redeclared := g.frame.declare(name)
	if redeclared {
		g.reportWarning(diag.CodeGenRedeclaredLocal, node, "'%s' is already declared in this scope", name)
	}
	return slot
}
