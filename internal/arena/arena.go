// Package arena implements typed, append-only storage keyed by small integer
// handles instead of pointers. Handles are Copy, never dangle, and compare
// with ==, which keeps the HIR/MIR data structures built on top of this
// package cheap to pass around and to serialize deterministically.
package arena

import "github.com/orizon-lang/orizon/internal/errors"

// Index is a handle into an Arena[T]. The zero Index is invalid; Arena
// indices start at 1 so a zero-valued Index field in a struct can mean
// "absent" without an extra bool.
type Index[T any] uint32

// Valid reports whether idx could have been produced by a non-empty Arena.
func (idx Index[T]) Valid() bool { return idx != 0 }

// Arena stores values of type T and hands out stable Index handles.
type Arena[T any] struct {
	items []T
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{items: make([]T, 1)} // index 0 reserved as invalid
}

// Alloc appends v and returns its handle.
func (a *Arena[T]) Alloc(v T) Index[T] {
	a.items = append(a.items, v)
	return Index[T](len(a.items) - 1)
}

// Get dereferences idx. It panics on an invalid or out-of-range index, which
// signals an internal compiler bug rather than a recoverable input error.
func (a *Arena[T]) Get(idx Index[T]) T {
	if int(idx) <= 0 || int(idx) >= len(a.items) {
		panic(errors.IndexOutOfBounds(uintptr(idx), uintptr(len(a.items))))
	}
	return a.items[idx]
}

// Set overwrites the value at idx in place.
func (a *Arena[T]) Set(idx Index[T], v T) {
	if int(idx) <= 0 || int(idx) >= len(a.items) {
		panic(errors.IndexOutOfBounds(uintptr(idx), uintptr(len(a.items))))
	}
	a.items[idx] = v
}

// Len reports the number of allocated elements, excluding the reserved slot.
func (a *Arena[T]) Len() int { return len(a.items) - 1 }

// All iterates indices 1..Len in allocation order.
func (a *Arena[T]) All(yield func(Index[T], T) bool) {
	for i := 1; i < len(a.items); i++ {
		if !yield(Index[T](i), a.items[i]) {
			return
		}
	}
}
