package analysis

import (
	"testing"
)

func TestValueSetMergeMonotonic(t *testing.T) {
	s := NewValueSet()

	if !s.Merge(Number, EntryID(1), 1) {
		t.Fatalf("first merge should grow the set")
	}
	if s.Merge(Number, EntryID(1), 1) {
		t.Fatalf("repeated merge must not report growth")
	}
	if s.Merge(Number, EntryID(2), 1) {
		t.Fatalf("same shape from another entry must not report growth")
	}
	if !s.Merge(String, EntryID(1), 1) {
		t.Fatalf("new shape should grow the set")
	}

	if s.Len() != 2 {
		t.Fatalf("expected 2 shapes, got %d", s.Len())
	}
	if !s.Has(Number) || !s.Has(String) {
		t.Fatalf("expected {number, string}, got %s", s)
	}
}

func TestValueSetPurgeByEntry(t *testing.T) {
	s := NewValueSet()
	s.Merge(Number, EntryID(1), 1)
	s.Merge(Number, EntryID(2), 1)
	s.Merge(String, EntryID(2), 1)

	// Entry 2 disappears; the shape it shared with entry 1 must survive.
	live := func(id EntryID) (uint32, bool) {
		if id == EntryID(1) {
			return 1, true
		}
		return 0, false
	}
	if !s.Purge(live) {
		t.Fatalf("purge should report shrinkage")
	}
	if !s.Has(Number) {
		t.Fatalf("number was still contributed by entry 1")
	}
	if s.Has(String) {
		t.Fatalf("string had no live contributor left")
	}
}

func TestValueSetPurgeByGeneration(t *testing.T) {
	s := NewValueSet()
	s.Merge(Number, EntryID(1), 1)
	s.Merge(String, EntryID(1), 2)

	// Entry 1 advanced to generation 2, superseding its old contributions.
	live := func(id EntryID) (uint32, bool) { return 2, id == EntryID(1) }
	if !s.Purge(live) {
		t.Fatalf("purge should drop the generation-1 contribution")
	}
	if s.Has(Number) {
		t.Fatalf("number was contributed at a superseded generation")
	}
	if !s.Has(String) {
		t.Fatalf("string is current and must stay")
	}
}

func TestValueSetString(t *testing.T) {
	s := NewValueSet()
	if got := s.String(); got != "{}" {
		t.Fatalf("empty set renders %q", got)
	}
	s.Add(String)
	s.Add(Number)
	// Deterministic kind order, not insertion order.
	if got := s.String(); got != "{number, string}" {
		t.Fatalf("got %q", got)
	}
}

func TestFunctionValuesDistinguishedByUnit(t *testing.T) {
	s := NewValueSet()
	s.Add(FunctionValue(UnitID(1)))
	if !s.Add(FunctionValue(UnitID(2))) {
		t.Fatalf("functions from different units are distinct shapes")
	}
	if s.Add(FunctionValue(UnitID(1))) {
		t.Fatalf("same function unit is the same shape")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 shapes, got %d", s.Len())
	}
}
