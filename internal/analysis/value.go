package analysis

import (
	"sort"
	"strings"
)

// ValueKind classifies an inferred runtime value shape.
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindUndefined
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindFunction
)

func (k ValueKind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Value is one distinguishable value shape. Function values carry the unit
// of the function body; everything else is identified by kind alone. The
// universe of values for a finite program is therefore finite, which is what
// bounds worklist convergence.
type Value struct {
	Kind ValueKind
	Fn   UnitID // valid only for KindFunction
}

// Undefined, Null, etc. are the shared primitive shapes.
var (
	Undefined = Value{Kind: KindUndefined}
	Null      = Value{Kind: KindNull}
	Bool      = Value{Kind: KindBool}
	Number    = Value{Kind: KindNumber}
	String    = Value{Kind: KindString}
	Array     = Value{Kind: KindArray}
	Object    = Value{Kind: KindObject}
)

// FunctionValue returns the value shape for a bound function unit.
func FunctionValue(fn UnitID) Value {
	return Value{Kind: KindFunction, Fn: fn}
}

// ValueSet is the union of value shapes observed for a binding, with
// per-entry bookkeeping so one file's contributions can be evicted without
// disturbing the rest. Within one entry generation the set only grows;
// shrinking happens exclusively through Purge.
type ValueSet struct {
	members map[Value]map[EntryID]uint32 // value -> contributing entry -> generation
}

// NewValueSet returns an empty set.
func NewValueSet() *ValueSet {
	return &ValueSet{members: make(map[Value]map[EntryID]uint32)}
}

// Merge records that entry (at generation gen) observed value v.
// It reports whether the set of distinguishable shapes grew.
func (s *ValueSet) Merge(v Value, entry EntryID, gen uint32) bool {
	contribs, ok := s.members[v]
	if !ok {
		contribs = make(map[EntryID]uint32, 1)
		s.members[v] = contribs
	}
	if cur, seen := contribs[entry]; !seen || gen > cur {
		contribs[entry] = gen
	}
	return !ok
}

// MergeAll merges every shape of other as a contribution of entry/gen.
// It reports whether any shape was new.
func (s *ValueSet) MergeAll(other *ValueSet, entry EntryID, gen uint32) bool {
	if other == nil {
		return false
	}
	grew := false
	for v := range other.members {
		if s.Merge(v, entry, gen) {
			grew = true
		}
	}
	return grew
}

// ScratchSet builds a transient set for expression-evaluation results.
// Contribution bookkeeping does not apply to scratch sets; shapes are
// tagged with NoEntryID, which any later Purge would drop.
func ScratchSet(vals ...Value) *ValueSet {
	s := NewValueSet()
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

// Add records a shape without entry attribution. Scratch sets only; a
// variable's persistent set must go through Merge.
func (s *ValueSet) Add(v Value) bool {
	return s.Merge(v, NoEntryID, 0)
}

// AddAll unions other's shapes into a scratch set.
func (s *ValueSet) AddAll(other *ValueSet) {
	if other == nil {
		return
	}
	for v := range other.members {
		s.Add(v)
	}
}

// Has reports whether the shape is present.
func (s *ValueSet) Has(v Value) bool {
	_, ok := s.members[v]
	return ok
}

// HasKind reports whether any shape of the given kind is present.
func (s *ValueSet) HasKind(k ValueKind) bool {
	for v := range s.members {
		if v.Kind == k {
			return true
		}
	}
	return false
}

// Len counts distinguishable shapes.
func (s *ValueSet) Len() int {
	return len(s.members)
}

// Empty reports whether no shape is present.
func (s *ValueSet) Empty() bool {
	return len(s.members) == 0
}

// Values returns the shapes in deterministic order.
func (s *ValueSet) Values() []Value {
	out := make([]Value, 0, len(s.members))
	for v := range s.members {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Fn < out[j].Fn
	})
	return out
}

// Purge drops every contribution whose entry is gone or whose generation is
// older than the entry's current one, then drops shapes left without
// contributors. It reports whether the set shrank. This is the only
// operation that removes shapes.
func (s *ValueSet) Purge(live func(EntryID) (uint32, bool)) bool {
	shrank := false
	for v, contribs := range s.members {
		for entry, gen := range contribs {
			cur, ok := live(entry)
			if !ok || gen < cur {
				delete(contribs, entry)
			}
		}
		if len(contribs) == 0 {
			delete(s.members, v)
			shrank = true
		}
	}
	return shrank
}

// String renders the set like "{number, string}". Empty sets render as
// "{}" which readers should treat as "unknown so far".
func (s *ValueSet) String() string {
	vals := s.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.Kind.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
