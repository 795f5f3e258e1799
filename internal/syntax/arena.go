package syntax

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a compact slice-backed store with 1-based indices, so the zero
// index stays free as the "no node" sentinel.
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with an optional capacity hint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	index, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("syntax arena overflow: %w", err))
	}
	return index
}

// Get returns a pointer into the arena, or nil for index 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the backing storage. Read-only.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
