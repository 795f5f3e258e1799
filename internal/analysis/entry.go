package analysis

import (
	"fmt"

	"fortio.org/safecast"
)

// Entry is one project entry: the compilation-unit-level home for a file's
// contributed values. Its generation counter lets the engine evict exactly
// that file's stale contributions on re-analysis.
type Entry struct {
	Path string
	Gen  uint32
	Live bool
}

// Entries registers project entries in a compact arena.
type Entries struct {
	data  []Entry
	index map[string]EntryID
}

// NewEntries creates an entry registry.
func NewEntries() *Entries {
	return &Entries{
		data:  make([]Entry, 1, 9), // index 0 reserved for NoEntryID
		index: make(map[string]EntryID),
	}
}

// Register returns the entry for path, creating it at generation 1.
// Re-registering a live path is idempotent.
func (e *Entries) Register(path string) EntryID {
	if id, ok := e.index[path]; ok {
		return id
	}
	value, err := safecast.Conv[uint32](len(e.data))
	if err != nil {
		panic(fmt.Errorf("entries arena overflow: %w", err))
	}
	id := EntryID(value)
	e.data = append(e.data, Entry{Path: path, Gen: 1, Live: true})
	e.index[path] = id
	return id
}

// Get returns the entry record or nil for an invalid ID.
func (e *Entries) Get(id EntryID) *Entry {
	if !id.IsValid() || int(id) >= len(e.data) {
		return nil
	}
	return &e.data[id]
}

// Bump advances the entry's generation, superseding all values it
// contributed before. The caller re-analyzes the entry afterwards.
func (e *Entries) Bump(id EntryID) uint32 {
	entry := e.Get(id)
	if entry == nil || !entry.Live {
		return 0
	}
	entry.Gen++
	return entry.Gen
}

// Remove marks the entry dead. Its contributions become purgeable.
func (e *Entries) Remove(id EntryID) {
	if entry := e.Get(id); entry != nil {
		entry.Live = false
		delete(e.index, entry.Path)
	}
}

// Current reports an entry's generation and liveness; dead or unknown
// entries report false, which Purge treats as "drop the contribution".
func (e *Entries) Current(id EntryID) (uint32, bool) {
	entry := e.Get(id)
	if entry == nil || !entry.Live {
		return 0, false
	}
	return entry.Gen, true
}
