// Package infer supplies the per-construct evaluation semantics driven by
// the analysis engine: how each syntax node produces value shapes, how
// assignments feed variables, and how calls thread values through function
// units. The engine schedules; this package decides what the code means.
package infer

import (
	"fmt"

	"github.com/lukedgr/nodejstools/internal/analysis"
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// Names for the synthetic slots the walker keeps per callable scope. The
// "@" prefix keeps them out of the identifier namespace.
const (
	returnSlot  = "@return"
	elementSlot = "@element"
)

// Walker implements analysis.Walker for the JavaScript subset.
type Walker struct{}

// New creates a walker.
func New() *Walker { return &Walker{} }

// WalkUnit performs one evaluation pass over the unit's syntax.
func (w *Walker) WalkUnit(a *analysis.Analyzer, unit analysis.UnitID) {
	u := a.Units.Get(unit)
	if u == nil {
		panic(fmt.Errorf("infer: walk of invalid unit %d", unit))
	}
	m := a.Module(u.Entry)
	if m == nil {
		// Entry was removed while the unit sat in the queue.
		return
	}
	ev := &evaluator{a: a, m: m, t: u.Tree, unit: unit, scope: u.Scope}

	switch u.Kind {
	case analysis.UnitModule:
		root := u.Tree.Get(u.Node)
		for _, kid := range root.Kids {
			ev.stmt(kid)
		}

	case analysis.UnitFunction:
		fn := u.Tree.Get(u.Node)
		body := u.Tree.Get(fn.Kids[1])
		ev.returns = u.Returns
		for _, kid := range body.Kids {
			ev.stmt(kid)
		}
		if !ev.sawReturn {
			// Falling off the end of a function yields undefined.
			a.MergeValue(u.Returns, analysis.Undefined)
		}

	case analysis.UnitComp:
		comp := u.Tree.Get(u.Node)
		ev.expr(comp.Kids[0]) // iterable: registers dependencies
		elem := ev.expr(comp.Kids[1])
		a.MergeSet(u.Returns, elem)

	case analysis.UnitQuery:
		// Query units are never scheduled; evaluation happens on demand
		// through EvalQuery.

	default:
		panic(fmt.Errorf("infer: walk of %s unit", u.Kind))
	}
}

// EvalQuery evaluates node in the context of an eval-only unit produced by
// CopyForQuery. No dependencies are registered and no values are written.
func (w *Walker) EvalQuery(a *analysis.Analyzer, query analysis.UnitID, node syntax.NodeID) *analysis.ValueSet {
	u := a.Units.Get(query)
	if u == nil || !u.EvalOnly() {
		panic("infer: EvalQuery requires an eval-only unit")
	}
	m := a.Module(u.Entry)
	if m == nil {
		return analysis.ScratchSet()
	}
	ev := &evaluator{a: a, m: m, t: u.Tree, unit: query, scope: u.Scope}
	var out *analysis.ValueSet
	a.WithUnit(query, func() {
		out = ev.expr(node)
	})
	return out
}
