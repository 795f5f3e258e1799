package analysis

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/lukedgr/nodejstools/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a new scope and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:   kind,
		Parent: parent,
		Vars:   make(map[source.StringID]VarID),
	})
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Variables stores binding records in a compact arena.
type Variables struct {
	data []Variable
}

// NewVariables creates a variable arena with optional capacity hint.
func NewVariables(capacity uint32) *Variables {
	if capacity == 0 {
		capacity = 64
	}
	return &Variables{
		data: make([]Variable, 1, capacity+1), // index 0 reserved for NoVarID
	}
}

// New allocates an empty variable record owned by scope.
func (s *Variables) New(name source.StringID, scope ScopeID) VarID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("variables arena overflow: %w", err))
	}
	id := VarID(value)
	s.data = append(s.data, Variable{
		Name:   name,
		Scope:  scope,
		Values: NewValueSet(),
	})
	return id
}

// Get returns a variable pointer or nil for invalid ID.
func (s *Variables) Get(id VarID) *Variable {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports number of stored variables excluding sentinel.
func (s *Variables) Len() int { return len(s.data) - 1 }

// Units stores analysis units in a compact arena.
type Units struct {
	data []Unit
}

// NewUnits creates a unit arena with optional capacity hint.
func NewUnits(capacity uint32) *Units {
	if capacity == 0 {
		capacity = 32
	}
	return &Units{
		data: make([]Unit, 1, capacity+1), // index 0 reserved for NoUnitID
	}
}

// New allocates a unit in the arena and returns its ID.
func (s *Units) New(u Unit) UnitID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("units arena overflow: %w", err))
	}
	id := UnitID(value)
	s.data = append(s.data, u)
	return id
}

// Get returns a unit pointer or nil for invalid ID.
func (s *Units) Get(id UnitID) *Unit {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports number of stored units excluding sentinel.
func (s *Units) Len() int { return len(s.data) - 1 }
