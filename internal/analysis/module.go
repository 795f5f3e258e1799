package analysis

import (
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// Module is the root analysis artifact for one project entry: it owns the
// entry's top-level scope, its module unit, and the nested units bound
// inside the entry's tree.
type Module struct {
	Entry EntryID
	Scope ScopeID
	Unit  UnitID
	Tree  *syntax.Tree

	units      []UnitID
	unitByNode map[syntax.NodeID]UnitID
}

// RegisterUnit records a nested unit bound at node. The binder calls this
// once per declaration so evaluation can find the unit again by its node.
func (m *Module) RegisterUnit(node syntax.NodeID, unit UnitID) {
	if m.unitByNode == nil {
		m.unitByNode = make(map[syntax.NodeID]UnitID, 4)
	}
	m.unitByNode[node] = unit
	m.units = append(m.units, unit)
}

// UnitFor returns the unit bound at node, or NoUnitID.
func (m *Module) UnitFor(node syntax.NodeID) UnitID {
	return m.unitByNode[node]
}

// AllUnits returns the module unit followed by every nested unit.
func (m *Module) AllUnits() []UnitID {
	out := make([]UnitID, 0, len(m.units)+1)
	out = append(out, m.Unit)
	out = append(out, m.units...)
	return out
}
