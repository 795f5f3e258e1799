package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/observ"
	"github.com/lukedgr/nodejstools/internal/source"
	"github.com/lukedgr/nodejstools/internal/syntax"
)

// Walker supplies the per-construct evaluation semantics the engine drives.
// The engine owns scheduling and dependency bookkeeping; the walker owns
// what each syntax construct means.
type Walker interface {
	// BindModule pre-creates nested units, scopes and declared names for a
	// freshly registered (or re-parsed) module tree.
	BindModule(a *Analyzer, m *Module)

	// WalkUnit performs one evaluation pass over the unit's syntax. Every
	// name read must go through FindValueByName and every write through
	// MergeValue/MergeSet so the dependency graph stays sound.
	WalkUnit(a *Analyzer, unit UnitID)
}

// Options configures a new Analyzer.
type Options struct {
	Walker   Walker
	Strings  *source.Interner
	Sink     observ.Sink
	Reporter diag.Reporter
}

// Analyzer owns the dependency graph (scopes, variables, units), the
// project entries and the worklist. One Analyzer, one logical analysis
// thread: all graph mutation funnels through its methods while a pass is
// in flight.
type Analyzer struct {
	Scopes  *Scopes
	Vars    *Variables
	Units   *Units
	Entries *Entries
	Strings *source.Interner

	walker   Walker
	sink     observ.Sink
	reporter diag.Reporter

	queue   Worklist
	modules map[EntryID]*Module
	current UnitID
}

// emptySet is the shared "no known values" result. Read-only.
var emptySet = NewValueSet()

// New creates an analyzer. The walker is required.
func New(opts Options) *Analyzer {
	if opts.Walker == nil {
		panic("analysis: Options.Walker is required")
	}
	if opts.Strings == nil {
		opts.Strings = source.NewInterner()
	}
	if opts.Sink == nil {
		opts.Sink = observ.Nop
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	return &Analyzer{
		Scopes:   NewScopes(0),
		Vars:     NewVariables(0),
		Units:    NewUnits(0),
		Entries:  NewEntries(),
		Strings:  opts.Strings,
		walker:   opts.Walker,
		sink:     opts.Sink,
		reporter: opts.Reporter,
		modules:  make(map[EntryID]*Module),
	}
}

// Reporter returns the diagnostics sink for walker warnings.
func (a *Analyzer) Reporter() diag.Reporter { return a.reporter }

// Current returns the unit whose pass is in flight, or NoUnitID.
func (a *Analyzer) Current() UnitID { return a.current }

// Module returns the module registered for entry, or nil.
func (a *Analyzer) Module(entry EntryID) *Module { return a.modules[entry] }

// ModuleByPath returns the module whose entry was registered under path.
func (a *Analyzer) ModuleByPath(path string) *Module {
	for id, m := range a.modules {
		if e := a.Entries.Get(id); e != nil && e.Live && e.Path == path {
			return m
		}
	}
	return nil
}

// ModulesInOrder returns registered modules ordered by entry ID, which is
// registration order.
func (a *Analyzer) ModulesInOrder() []*Module {
	out := make([]*Module, 0, len(a.modules))
	for id := EntryID(1); int(id) < len(a.Entries.data); id++ {
		if m, ok := a.modules[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// AddModule registers a parsed tree under path, binds its declarations and
// queues its module unit for analysis. Re-adding a live path replaces the
// previous parse: the entry's generation is bumped (superseding its old
// contributions), the old nested units are retired, and the module scope
// with its variable records and dependents is kept so readers adapt.
func (a *Analyzer) AddModule(tree *syntax.Tree, path string) *Module {
	if tree == nil || !tree.Root.IsValid() {
		panic("analysis: AddModule with no tree root")
	}
	entry := a.Entries.Register(path)
	if m, ok := a.modules[entry]; ok {
		return a.replaceModule(m, tree)
	}

	scope := a.Scopes.New(ScopeModule, NoScopeID)
	unit := a.Units.New(Unit{
		Kind:  UnitModule,
		Tree:  tree,
		Node:  tree.Root,
		Scope: scope,
		Entry: entry,
	})
	m := &Module{
		Entry: entry,
		Scope: scope,
		Unit:  unit,
		Tree:  tree,
	}
	a.modules[entry] = m
	// The module unit goes in ahead of any nested unit the binder queues,
	// so its pass re-contributes module-scope values before a nested pass
	// sweeps the scope.
	a.Enqueue(unit)
	a.walker.BindModule(a, m)
	return m
}

func (a *Analyzer) replaceModule(m *Module, tree *syntax.Tree) *Module {
	a.Entries.Bump(m.Entry)
	// Superseded contributions must go before the new tree's pass can read
	// them back and re-attribute them to the new generation, at which point
	// no later purge could remove them.
	a.purgeScope(m.Scope)
	for _, id := range m.units {
		if u := a.Units.Get(id); u != nil {
			u.dead = true
		}
	}
	m.units = nil
	m.unitByNode = nil
	m.Tree = tree

	mu := a.Units.Get(m.Unit)
	mu.Tree = tree
	mu.Node = tree.Root

	a.Enqueue(m.Unit)
	a.walker.BindModule(a, m)
	return m
}

// RemoveModule retires the entry registered under path: its units die, its
// contributions become purgeable, and every unit that depended on one of
// its module-scope names is re-queued so readers observe the disappearance.
func (a *Analyzer) RemoveModule(path string) bool {
	m := a.ModuleByPath(path)
	if m == nil {
		return false
	}
	a.Entries.Remove(m.Entry)
	for _, id := range m.AllUnits() {
		if u := a.Units.Get(id); u != nil {
			u.dead = true
		}
	}
	delete(a.modules, m.Entry)

	// The removed entry's values may be referenced from any live module's
	// scope, so sweep them all now rather than waiting for each module's
	// next pass.
	for _, live := range a.modules {
		a.sweepScope(live.Scope)
	}
	a.sweepScope(m.Scope)
	return true
}

// Enqueue schedules the unit for (re)analysis. No-op for eval-only units,
// dead units and units already queued; this is the sole re-entry point by
// which external mutation causes re-analysis.
func (a *Analyzer) Enqueue(id UnitID) {
	u := a.Units.Get(id)
	if u == nil || u.dead || u.evalOnly || u.inQueue {
		return
	}
	u.inQueue = true
	a.queue.push(id)
}

// QueueLen reports how many units are pending.
func (a *Analyzer) QueueLen() int { return a.queue.Len() }

// Drain runs analysis passes until the worklist is empty (fixed point) or
// ctx is cancelled. On cancellation the in-flight unit is left queued so a
// later drain re-attempts it.
func (a *Analyzer) Drain(ctx context.Context) error {
	for {
		id, ok := a.queue.pop()
		if !ok {
			return nil
		}
		u := a.Units.Get(id)
		if u == nil {
			panic(fmt.Errorf("analysis: worklist held invalid unit %d", id))
		}
		// Clearing the flag here, before the pass runs, lets the unit
		// re-enqueue itself through its own re-analysis.
		u.inQueue = false
		if u.dead {
			continue
		}
		if err := ctx.Err(); err != nil {
			// Cooperative cancellation: no mutation happened yet, put it
			// back so the unit stays pending.
			a.Enqueue(id)
			return err
		}
		a.analyze(id)
	}
}

// analyze runs one pass: reset the module scope's per-pass linked-variable
// index, walk the unit's syntax with this unit as the dependency context,
// then sweep the declaring module's scope for stale values and dead
// variables.
func (a *Analyzer) analyze(id UnitID) {
	u := a.Units.Get(id)
	start := time.Now()

	moduleScope := a.moduleScopeOf(u.Scope)
	// Only the module pass rebuilds the alias index; nested passes must
	// not wipe what it derived.
	if u.Kind == UnitModule {
		if s := a.Scopes.Get(moduleScope); s != nil {
			s.ClearLinked()
		}
	}

	prev := a.current
	a.current = id
	a.walker.WalkUnit(a, id)
	a.current = prev

	a.sweepScope(moduleScope)
	a.sink.PassDone(u.Kind.String(), time.Since(start), a.queue.Len())
}

// moduleScopeOf walks outward to the enclosing module scope.
func (a *Analyzer) moduleScopeOf(id ScopeID) ScopeID {
	for sid := id; sid.IsValid(); {
		s := a.Scopes.Get(sid)
		if s == nil {
			break
		}
		if s.Kind == ScopeModule {
			return sid
		}
		sid = s.Parent
	}
	return NoScopeID
}

// purgeScope drops stale contributions from every variable directly owned
// by the scope, re-queuing dependents when a set shrinks. Unlike sweepScope
// it leaves empty variable records in place: during a module replacement
// the records and their dependent edges must survive until the new tree's
// pass has had a chance to re-contribute.
func (a *Analyzer) purgeScope(id ScopeID) {
	scope := a.Scopes.Get(id)
	if scope == nil {
		return
	}
	for _, vid := range scope.Vars {
		v := a.Vars.Get(vid)
		if v == nil {
			continue
		}
		if v.Values.Purge(a.Entries.Current) {
			a.enqueueDependents(vid)
		}
	}
}

// sweepScope purges values contributed by removed or superseded entries
// from every variable directly owned by the scope, re-queuing dependents
// when a set shrinks. Variables left with an empty value-set are evicted
// and their former dependents re-queued exactly once.
func (a *Analyzer) sweepScope(id ScopeID) {
	scope := a.Scopes.Get(id)
	if scope == nil {
		return
	}
	for name, vid := range scope.Vars {
		v := a.Vars.Get(vid)
		if v == nil {
			continue
		}
		if v.Values.Purge(a.Entries.Current) {
			a.enqueueDependents(vid)
		}
		if v.Values.Empty() {
			for dep := range v.takeDependents() {
				a.Enqueue(dep)
			}
			delete(scope.Vars, name)
			v.dead = true
		}
	}
}

// NewScope allocates a scope in the analyzer's arena.
func (a *Analyzer) NewScope(kind ScopeKind, parent ScopeID) ScopeID {
	return a.Scopes.New(kind, parent)
}

// NewUnit allocates a unit. Binders use this for function and
// comprehension units discovered at bind time.
func (a *Analyzer) NewUnit(u Unit) UnitID {
	return a.Units.New(u)
}

// Declare returns the variable named name directly in scope, creating an
// empty record if absent.
func (a *Analyzer) Declare(scope ScopeID, name source.StringID) VarID {
	return a.GetVariable(scope, name, true)
}

// GetVariable looks name up in exactly one scope. With createIfMissing it
// allocates an empty record; otherwise NoVarID reports "name does not exist
// here", which is distinct from "exists with an empty value-set".
func (a *Analyzer) GetVariable(scope ScopeID, name source.StringID, createIfMissing bool) VarID {
	s := a.Scopes.Get(scope)
	if s == nil {
		panic(fmt.Errorf("analysis: GetVariable on invalid scope %d", scope))
	}
	if id, ok := s.Lookup(name); ok {
		return id
	}
	if !createIfMissing {
		return NoVarID
	}
	id := a.Vars.New(name, scope)
	s.Vars[name] = id
	return id
}

// ResolveName walks the scope chain from innermost outward and returns the
// first defining scope's variable. No dependency is registered.
func (a *Analyzer) ResolveName(from ScopeID, name source.StringID) (VarID, ScopeID) {
	for sid := from; sid.IsValid(); {
		s := a.Scopes.Get(sid)
		if s == nil {
			break
		}
		if id, ok := s.Lookup(name); ok {
			return id, sid
		}
		sid = s.Parent
	}
	return NoVarID, NoScopeID
}

// FindValueByName resolves name through the scope chain starting at the
// unit's declared scope. On success the unit is registered as a dependent
// of the binding (unless it is eval-only) and the binding's current
// value-set is returned. A miss anywhere in the chain answers with the
// empty set: absence of knowledge, never an error.
func (a *Analyzer) FindValueByName(unit UnitID, name source.StringID) *ValueSet {
	u := a.Units.Get(unit)
	if u == nil {
		panic(fmt.Errorf("analysis: FindValueByName from invalid unit %d", unit))
	}
	vid, _ := a.ResolveName(u.Scope, name)
	if !vid.IsValid() {
		return emptySet
	}
	return a.ReadVariable(unit, vid)
}

// ReadVariable registers unit as a dependent of an explicit variable (the
// return-value protocol uses this) and returns its value-set.
func (a *Analyzer) ReadVariable(unit UnitID, vid VarID) *ValueSet {
	v := a.Vars.Get(vid)
	if v == nil {
		return emptySet
	}
	if u := a.Units.Get(unit); u != nil && !u.evalOnly {
		v.AddDependent(unit)
	}
	return v.Values
}

// MergeValue merges one value shape into the variable, attributed to the
// current unit's entry. Growth re-queues every dependent of the variable
// and of any variable linked to it. Writes from eval-only units are
// suppressed: queries must not pollute the graph.
func (a *Analyzer) MergeValue(vid VarID, v Value) bool {
	entry, gen, ok := a.contributor()
	if !ok {
		return false
	}
	variable := a.Vars.Get(vid)
	if variable == nil || variable.dead {
		return false
	}
	if !variable.Values.Merge(v, entry, gen) {
		return false
	}
	a.notifyGrowth(vid)
	return true
}

// MergeSet merges every shape of set into the variable. See MergeValue.
func (a *Analyzer) MergeSet(vid VarID, set *ValueSet) bool {
	entry, gen, ok := a.contributor()
	if !ok {
		return false
	}
	variable := a.Vars.Get(vid)
	if variable == nil || variable.dead {
		return false
	}
	if !variable.Values.MergeAll(set, entry, gen) {
		return false
	}
	a.notifyGrowth(vid)
	return true
}

// contributor identifies the entry and generation writes are attributed
// to. Eval-only passes contribute nothing.
func (a *Analyzer) contributor() (EntryID, uint32, bool) {
	u := a.Units.Get(a.current)
	if u == nil {
		panic("analysis: value merge outside an analysis pass")
	}
	if u.evalOnly {
		return NoEntryID, 0, false
	}
	gen, live := a.Entries.Current(u.Entry)
	if !live {
		return NoEntryID, 0, false
	}
	return u.Entry, gen, true
}

func (a *Analyzer) notifyGrowth(vid VarID) {
	a.enqueueDependents(vid)
	v := a.Vars.Get(vid)
	if v == nil {
		return
	}
	if s := a.Scopes.Get(v.Scope); s != nil {
		for _, alias := range s.LinkedTo(vid) {
			a.enqueueDependents(alias)
		}
	}
}

func (a *Analyzer) enqueueDependents(vid VarID) {
	v := a.Vars.Get(vid)
	if v == nil {
		return
	}
	for dep := range v.Dependents() {
		a.Enqueue(dep)
	}
}

// CopyForQuery produces a detached eval-only unit sharing the original's
// syntax and scope. It never enters the worklist and never registers as a
// dependent, however many lookups it performs.
func (a *Analyzer) CopyForQuery(unit UnitID) UnitID {
	u := a.Units.Get(unit)
	if u == nil {
		panic(fmt.Errorf("analysis: CopyForQuery of invalid unit %d", unit))
	}
	return a.Units.New(Unit{
		Kind:     UnitQuery,
		Tree:     u.Tree,
		Node:     u.Node,
		Scope:    u.Scope,
		Entry:    u.Entry,
		evalOnly: true,
	})
}

// QueryName is the snapshot-read entry point for hosts: it resolves name
// as seen from the unit's scope without touching the dependency graph.
func (a *Analyzer) QueryName(unit UnitID, name string) *ValueSet {
	q := a.CopyForQuery(unit)
	return a.FindValueByName(q, a.Strings.Intern(name))
}

// WithUnit runs fn with unit installed as the current dependency context.
// Query evaluation uses it; regular passes go through Drain.
func (a *Analyzer) WithUnit(unit UnitID, fn func()) {
	prev := a.current
	a.current = unit
	fn()
	a.current = prev
}
