package analysis

import (
	"github.com/lukedgr/nodejstools/internal/source"
)

// Variable is one named binding record, owned by exactly one scope. It
// carries the union of observed value shapes and the set of units that must
// be re-queued whenever that union grows.
type Variable struct {
	Name   source.StringID
	Scope  ScopeID
	Values *ValueSet

	// dependents are registered through AddDependent; duplicates are
	// idempotent, not cumulative.
	dependents map[UnitID]struct{}

	// dead is set when the variable has been evicted from its scope.
	// A dead record stays in the arena but must not accumulate state.
	dead bool
}

// AddDependent registers unit for re-queuing on value-set growth.
func (v *Variable) AddDependent(unit UnitID) {
	if v.dead || !unit.IsValid() {
		return
	}
	if v.dependents == nil {
		v.dependents = make(map[UnitID]struct{}, 2)
	}
	v.dependents[unit] = struct{}{}
}

// Dependents returns the registered dependents. Read-only.
func (v *Variable) Dependents() map[UnitID]struct{} {
	return v.dependents
}

// HasDependent reports whether unit is registered.
func (v *Variable) HasDependent(unit UnitID) bool {
	_, ok := v.dependents[unit]
	return ok
}

// takeDependents detaches and returns the dependent set. Used on eviction
// so former dependents can be re-enqueued exactly once.
func (v *Variable) takeDependents() map[UnitID]struct{} {
	deps := v.dependents
	v.dependents = nil
	return deps
}
