package infer

import (
	"fmt"

	"github.com/lukedgr/nodejstools/internal/analysis"
	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/source"
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// evaluator drives one unit's pass. All reads go through FindValueByName
// and all writes through MergeValue/MergeSet so dependency edges and
// re-queuing stay with the engine.
type evaluator struct {
	a     *analysis.Analyzer
	m     *analysis.Module
	t     *syntax.Tree
	unit  analysis.UnitID
	scope analysis.ScopeID

	returns   analysis.VarID
	sawReturn bool
}

func (ev *evaluator) stmt(id syntax.NodeID) {
	n := ev.t.Get(id)
	switch n.Kind {
	case syntax.NodeVarDecl:
		vid := ev.a.GetVariable(ev.scope, n.Name, true)
		if len(n.Kids) > 0 {
			init := ev.expr(n.Kids[0])
			ev.a.MergeSet(vid, init)
			ev.maybeLink(vid, n.Kids[0])
		} else {
			ev.a.MergeValue(vid, analysis.Undefined)
		}

	case syntax.NodeAssign:
		ev.assign(n)

	case syntax.NodeExprStmt:
		ev.expr(n.Kids[0])

	case syntax.NodeReturn:
		ev.sawReturn = true
		if !ev.returns.IsValid() {
			// return at module top level: evaluate for dependencies only
			if len(n.Kids) > 0 {
				ev.expr(n.Kids[0])
			}
			return
		}
		if len(n.Kids) > 0 {
			ev.a.MergeSet(ev.returns, ev.expr(n.Kids[0]))
		} else {
			ev.a.MergeValue(ev.returns, analysis.Undefined)
		}

	case syntax.NodeFunc:
		// Declaration: bind the function value to its name. The body is
		// its own unit and is not walked here.
		fn := ev.m.UnitFor(id)
		if !fn.IsValid() {
			panic(fmt.Errorf("infer: function at node %d was never bound", id))
		}
		if n.Name.IsValid() {
			vid, _ := ev.a.ResolveName(ev.scope, n.Name)
			if !vid.IsValid() {
				vid = ev.a.GetVariable(ev.scope, n.Name, true)
			}
			ev.a.MergeValue(vid, analysis.FunctionValue(fn))
		}

	case syntax.NodeBlock:
		for _, kid := range n.Kids {
			ev.stmt(kid)
		}

	default:
		panic(fmt.Errorf("infer: %s in statement position", n.Kind))
	}
}

// assign writes the right-hand side into the target binding. An ident
// target that resolves nowhere is created at the module scope, the way an
// unqualified assignment becomes a global.
func (ev *evaluator) assign(n *syntax.Node) {
	value := ev.expr(n.Kids[1])
	target := ev.t.Get(n.Kids[0])

	switch target.Kind {
	case syntax.NodeIdent:
		if rhs := ev.t.Get(n.Kids[1]); rhs.Kind == syntax.NodeIdent && rhs.Name == target.Name {
			diag.ReportWarning(ev.a.Reporter(), diag.AnSelfAssignment, target.Span,
				"assignment of "+ev.t.Strings.MustLookup(target.Name)+" to itself")
		}
		vid, _ := ev.a.ResolveName(ev.scope, target.Name)
		if !vid.IsValid() {
			vid = ev.a.GetVariable(ev.m.Scope, target.Name, true)
		}
		ev.a.MergeSet(vid, value)
		ev.maybeLink(vid, n.Kids[1])

	case syntax.NodeMember:
		base := ev.t.Get(target.Kids[0])
		if base.Kind != syntax.NodeIdent {
			ev.expr(target.Kids[0])
			return
		}
		// Property writes live as a flattened "base.prop" binding in the
		// scope that defines the base.
		ev.a.FindValueByName(ev.unit, base.Name)
		_, defScope := ev.a.ResolveName(ev.scope, base.Name)
		if !defScope.IsValid() {
			defScope = ev.m.Scope
		}
		flat := ev.flatMemberName(base.Name, target.Name)
		vid := ev.a.GetVariable(defScope, flat, true)
		ev.a.MergeSet(vid, value)

	default:
		panic(fmt.Errorf("infer: %s as assignment target", target.Kind))
	}
}

// maybeLink records an alias grouping when one module-scope binding is
// assigned straight from another, so dependents of either re-run when the
// other grows.
func (ev *evaluator) maybeLink(target analysis.VarID, valueNode syntax.NodeID) {
	rhs := ev.t.Get(valueNode)
	if rhs.Kind != syntax.NodeIdent {
		return
	}
	srcVar, srcScope := ev.a.ResolveName(ev.scope, rhs.Name)
	if !srcVar.IsValid() || srcScope != ev.m.Scope {
		return
	}
	tv := ev.a.Vars.Get(target)
	if tv == nil || tv.Scope != ev.m.Scope {
		return
	}
	if s := ev.a.Scopes.Get(ev.m.Scope); s != nil {
		s.Link(target, srcVar)
	}
}

func (ev *evaluator) expr(id syntax.NodeID) *analysis.ValueSet {
	n := ev.t.Get(id)
	switch n.Kind {
	case syntax.NodeIdent:
		return ev.a.FindValueByName(ev.unit, n.Name)

	case syntax.NodeNumber:
		return analysis.ScratchSet(analysis.Number)
	case syntax.NodeString:
		return analysis.ScratchSet(analysis.String)
	case syntax.NodeBool:
		return analysis.ScratchSet(analysis.Bool)
	case syntax.NodeNull:
		return analysis.ScratchSet(analysis.Null)

	case syntax.NodeFunc:
		fn := ev.m.UnitFor(id)
		if !fn.IsValid() {
			panic(fmt.Errorf("infer: function at node %d was never bound", id))
		}
		return analysis.ScratchSet(analysis.FunctionValue(fn))

	case syntax.NodeArray:
		for _, kid := range n.Kids {
			ev.expr(kid)
		}
		return analysis.ScratchSet(analysis.Array)

	case syntax.NodeComp:
		if comp := ev.m.UnitFor(id); comp.IsValid() {
			ev.a.Enqueue(comp)
		}
		return analysis.ScratchSet(analysis.Array)

	case syntax.NodeMember:
		base := ev.t.Get(n.Kids[0])
		if base.Kind != syntax.NodeIdent {
			ev.expr(n.Kids[0])
			return analysis.ScratchSet()
		}
		ev.a.FindValueByName(ev.unit, base.Name)
		return ev.a.FindValueByName(ev.unit, ev.flatMemberName(base.Name, n.Name))

	case syntax.NodeBinary:
		return ev.binary(n)

	case syntax.NodeCall:
		return ev.call(n)

	default:
		panic(fmt.Errorf("infer: %s in expression position", n.Kind))
	}
}

// binary applies the operator inference rules. Results only ever grow as
// operand knowledge grows: an operand with an empty set contributes
// nothing yet rather than guessing.
func (ev *evaluator) binary(n *syntax.Node) *analysis.ValueSet {
	l := ev.expr(n.Kids[0])
	r := ev.expr(n.Kids[1])
	out := analysis.ScratchSet()

	switch n.Op {
	case syntax.OpAdd:
		if l.HasKind(analysis.KindString) || r.HasKind(analysis.KindString) {
			out.Add(analysis.String)
		}
		if l.HasKind(analysis.KindNumber) && r.HasKind(analysis.KindNumber) {
			out.Add(analysis.Number)
		}
	case syntax.OpSub, syntax.OpMul, syntax.OpDiv:
		if !l.Empty() && !r.Empty() {
			out.Add(analysis.Number)
		}
	case syntax.OpLt, syntax.OpGt, syntax.OpEq, syntax.OpNeq:
		out.Add(analysis.Bool)
	case syntax.OpAnd, syntax.OpOr:
		out.AddAll(l)
		out.AddAll(r)
	default:
		panic(fmt.Errorf("infer: binary node with operator %q", n.Op))
	}
	return out
}

// call feeds argument values into each callable the callee may be and
// unions their return sets. Reading a callee's return slot registers this
// unit as its dependent, so return-type growth re-queues the caller.
func (ev *evaluator) call(n *syntax.Node) *analysis.ValueSet {
	callee := ev.expr(n.Kids[0])
	args := make([]*analysis.ValueSet, 0, len(n.Kids)-1)
	for _, kid := range n.Kids[1:] {
		args = append(args, ev.expr(kid))
	}

	out := analysis.ScratchSet()
	for _, v := range callee.Values() {
		if v.Kind != analysis.KindFunction {
			continue
		}
		fu := ev.a.Units.Get(v.Fn)
		if fu == nil || fu.Dead() {
			continue
		}
		ev.bindArgs(fu, args)
		out.AddAll(ev.a.ReadVariable(ev.unit, fu.Returns))
	}
	return out
}

func (ev *evaluator) bindArgs(fu *analysis.Unit, args []*analysis.ValueSet) {
	fnode := fu.Tree.Get(fu.Node)
	params := fu.Tree.Get(fnode.Kids[0])
	for i, pid := range params.Kids {
		pvar := ev.a.GetVariable(fu.Scope, fu.Tree.Get(pid).Name, false)
		if !pvar.IsValid() {
			continue
		}
		if i < len(args) {
			ev.a.MergeSet(pvar, args[i])
		} else {
			// Missing arguments arrive as undefined.
			ev.a.MergeValue(pvar, analysis.Undefined)
		}
	}
}

func (ev *evaluator) flatMemberName(base, prop source.StringID) source.StringID {
	return ev.a.Strings.Intern(
		ev.t.Strings.MustLookup(base) + "." + ev.t.Strings.MustLookup(prop),
	)
}
