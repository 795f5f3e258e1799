package analysis

// ScopeID identifies a scope in the analyzer arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// VarID identifies a variable record inside the analyzer arena.
type VarID uint32

const (
	// NoVarID marks the absence of a variable reference.
	NoVarID VarID = 0
)

// IsValid reports whether the variable ID refers to an allocated record.
func (id VarID) IsValid() bool { return id != NoVarID }

// UnitID identifies an analysis unit inside the analyzer arena.
type UnitID uint32

const (
	// NoUnitID marks the absence of a unit reference.
	NoUnitID UnitID = 0
)

// IsValid reports whether the unit ID refers to an allocated unit.
func (id UnitID) IsValid() bool { return id != NoUnitID }

// EntryID identifies a project entry (one file's contribution home).
type EntryID uint32

const (
	// NoEntryID marks the absence of an entry reference.
	NoEntryID EntryID = 0
)

// IsValid reports whether the entry ID refers to a registered entry.
func (id EntryID) IsValid() bool { return id != NoEntryID }
