package infer

import (
	"fmt"

	"github.com/lukedgr/nodejstools/internal/analysis"
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// BindModule pre-creates the units, scopes and declared names of a module
// tree. Binding runs once per parse; it allocates no values, so a bound
// but never-analyzed name still answers lookups with the empty set.
func (w *Walker) BindModule(a *analysis.Analyzer, m *analysis.Module) {
	root := m.Tree.Get(m.Tree.Root)
	if root == nil || root.Kind != syntax.NodeModule {
		panic(fmt.Errorf("infer: bind of non-module root in %q tree", m.Tree.Name(m.Tree.Root)))
	}
	b := &binder{a: a, m: m, t: m.Tree}
	for _, kid := range root.Kids {
		b.stmt(kid, m.Scope)
	}
}

type binder struct {
	a *analysis.Analyzer
	m *analysis.Module
	t *syntax.Tree
}

// stmt hoists declarations into scope. var declarations hoist to the
// nearest function or module scope, which is exactly the scope handed in.
func (b *binder) stmt(id syntax.NodeID, scope analysis.ScopeID) {
	n := b.t.Get(id)
	switch n.Kind {
	case syntax.NodeVarDecl:
		b.a.Declare(scope, n.Name)
		if len(n.Kids) > 0 {
			b.expr(n.Kids[0], scope)
		}
	case syntax.NodeFunc:
		b.function(id, scope, true)
	case syntax.NodeBlock:
		for _, kid := range n.Kids {
			b.stmt(kid, scope)
		}
	case syntax.NodeAssign, syntax.NodeExprStmt, syntax.NodeReturn:
		for _, kid := range n.Kids {
			b.expr(kid, scope)
		}
	default:
		panic(fmt.Errorf("infer: bind of %s in statement position", n.Kind))
	}
}

func (b *binder) expr(id syntax.NodeID, scope analysis.ScopeID) {
	if !id.IsValid() {
		return
	}
	n := b.t.Get(id)
	switch n.Kind {
	case syntax.NodeFunc:
		b.function(id, scope, false)
	case syntax.NodeComp:
		b.comprehension(id, scope)
	default:
		for _, kid := range n.Kids {
			b.expr(kid, scope)
		}
	}
}

// function creates the function's scope and unit, declares its parameters
// and return slot, and hoists its body. Declarations also bind their name
// in the enclosing scope; function expressions stay anonymous there.
func (b *binder) function(id syntax.NodeID, enclosing analysis.ScopeID, declare bool) {
	n := b.t.Get(id)
	fnScope := b.a.NewScope(analysis.ScopeFunction, enclosing)

	params := b.t.Get(n.Kids[0])
	for _, pid := range params.Kids {
		b.a.Declare(fnScope, b.t.Get(pid).Name)
	}
	ret := b.a.Declare(fnScope, b.a.Strings.Intern(returnSlot))

	unit := b.a.NewUnit(analysis.Unit{
		Kind:    analysis.UnitFunction,
		Tree:    b.t,
		Node:    id,
		Scope:   fnScope,
		Entry:   b.m.Entry,
		Returns: ret,
	})
	b.m.RegisterUnit(id, unit)

	if declare && n.Name.IsValid() {
		b.a.Declare(enclosing, n.Name)
	}

	body := b.t.Get(n.Kids[1])
	for _, kid := range body.Kids {
		b.stmt(kid, fnScope)
	}
	b.a.Enqueue(unit)
}

// comprehension creates the loop binding's scope and the unit evaluating
// the element expression.
func (b *binder) comprehension(id syntax.NodeID, enclosing analysis.ScopeID) {
	n := b.t.Get(id)
	compScope := b.a.NewScope(analysis.ScopeComp, enclosing)
	b.a.Declare(compScope, n.Name)
	elem := b.a.Declare(compScope, b.a.Strings.Intern(elementSlot))

	unit := b.a.NewUnit(analysis.Unit{
		Kind:    analysis.UnitComp,
		Tree:    b.t,
		Node:    id,
		Scope:   compScope,
		Entry:   b.m.Entry,
		Returns: elem,
	})
	b.m.RegisterUnit(id, unit)

	b.expr(n.Kids[0], enclosing)
	b.expr(n.Kids[1], compScope)
	b.a.Enqueue(unit)
}
