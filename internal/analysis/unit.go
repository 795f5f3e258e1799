package analysis

import (
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// UnitKind distinguishes the closed set of schedulable unit variants.
type UnitKind uint8

const (
	UnitInvalid  UnitKind = iota
	UnitModule            // a file's top-level code
	UnitFunction          // one function body
	UnitComp              // one comprehension scope
	UnitQuery             // detached eval-only query handle
)

func (k UnitKind) String() string {
	switch k {
	case UnitModule:
		return "module"
	case UnitFunction:
		return "function"
	case UnitComp:
		return "comprehension"
	case UnitQuery:
		return "query"
	default:
		return "invalid"
	}
}

// Unit is one schedulable piece of analyzable code together with its
// declaring scope. Units are created once per declaration at bind time and
// live until their declaring entry is removed; query units are transient
// handles exempt from the dependency protocol.
type Unit struct {
	Kind  UnitKind
	Tree  *syntax.Tree
	Node  syntax.NodeID
	Scope ScopeID
	Entry EntryID

	// Returns holds the synthetic variable accumulating a function unit's
	// return values; callers read it through the normal dependency
	// protocol so return-type growth re-queues them.
	Returns VarID

	inQueue  bool
	evalOnly bool
	dead     bool
}

// EvalOnly reports whether the unit is exempt from dependency registration
// and scheduling.
func (u *Unit) EvalOnly() bool { return u.evalOnly }

// InQueue reports whether the unit currently sits in the worklist.
func (u *Unit) InQueue() bool { return u.inQueue }

// Dead reports whether the unit's declaring entry was removed.
func (u *Unit) Dead() bool { return u.dead }
