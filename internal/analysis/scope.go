package analysis

import (
	"github.com/lukedgr/nodejstools/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // module-level (top-level declarations)
	ScopeFunction           // function body scope
	ScopeBlock              // generic block scope
	ScopeComp               // comprehension scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeComp:
		return "comprehension"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope. Parent is a plain arena handle, never an
// owning pointer; the module owns the arena top-down.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	Vars   map[source.StringID]VarID

	// linked groups variables that alias each other for dependency
	// purposes. It is a per-pass derived index, rebuilt by the walker and
	// cleared at the top of every module pass.
	linked map[VarID][]VarID
}

// Lookup finds a variable declared directly in this scope.
// The nil result distinguishes "name does not exist here" from "name exists
// with an empty value-set"; callers use it to keep walking outward.
func (s *Scope) Lookup(name source.StringID) (VarID, bool) {
	id, ok := s.Vars[name]
	return id, ok
}

// Link records that a and b alias each other for dependency purposes.
func (s *Scope) Link(a, b VarID) {
	if a == b || !a.IsValid() || !b.IsValid() {
		return
	}
	if s.linked == nil {
		s.linked = make(map[VarID][]VarID, 2)
	}
	s.linked[a] = appendUnique(s.linked[a], b)
	s.linked[b] = appendUnique(s.linked[b], a)
}

// LinkedTo returns the variables grouped with v, if any.
func (s *Scope) LinkedTo(v VarID) []VarID {
	return s.linked[v]
}

// ClearLinked drops all alias groupings.
func (s *Scope) ClearLinked() {
	s.linked = nil
}

func appendUnique(list []VarID, v VarID) []VarID {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
