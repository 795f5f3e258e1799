package analysis

// Worklist is a FIFO of units pending (re)analysis with at-most-once
// membership. Membership is enforced through the unit's in-queue flag, not
// by searching the queue, keeping enqueue O(1).
type Worklist struct {
	items []UnitID
	head  int
}

// Len reports the number of pending units.
func (w *Worklist) Len() int {
	return len(w.items) - w.head
}

// Empty reports whether the queue has drained.
func (w *Worklist) Empty() bool {
	return w.Len() == 0
}

func (w *Worklist) push(id UnitID) {
	w.items = append(w.items, id)
}

// pop removes and returns the head. Callers must clear the unit's in-queue
// flag in the same step so the popped unit can re-enqueue itself.
func (w *Worklist) pop() (UnitID, bool) {
	if w.Empty() {
		return NoUnitID, false
	}
	id := w.items[w.head]
	w.head++
	// Reclaim the backing array once everything up front was consumed.
	if w.head == len(w.items) {
		w.items = w.items[:0]
		w.head = 0
	}
	return id, true
}
