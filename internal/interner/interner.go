// Package interner provides process-scoped string interning for identifiers.
//
// Every identifier seen by the pipeline (function names, field names, type
// names, module paths) is interned once into a Symbol. Symbols compare in
// O(1) and can be copied freely through arenas without pinning the backing
// string.
package interner

import (
	"sync"

	"github.com/orizon-lang/orizon/internal/errors"
)

// Symbol is an opaque handle to an interned string. The zero Symbol is never
// produced by Intern; it is reserved to mean "no symbol" in optional fields.
type Symbol uint32

// Table interns strings to Symbols and back. The zero Table is not usable;
// construct one with New. A Table is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	strToID map[string]Symbol
	idToStr []string
}

// New creates an empty interning table.
func New() *Table {
	return &Table{
		strToID: make(map[string]Symbol),
		idToStr: []string{""}, // index 0 reserved for the zero Symbol
	}
}

// Intern returns the Symbol for s, interning it if this is the first time it
// has been seen.
func (t *Table) Intern(s string) Symbol {
	t.mu.RLock()
	if id, ok := t.strToID[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.strToID[s]; ok {
		return id
	}
	id := Symbol(len(t.idToStr))
	t.idToStr = append(t.idToStr, s)
	t.strToID[s] = id
	return id
}

// Lookup returns the string backing sym. It panics if sym was not produced
// by this table; a Symbol must never outlive or cross the Table that minted
// it.
func (t *Table) Lookup(sym Symbol) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(sym) >= len(t.idToStr) {
		panic(errors.IndexOutOfBounds(uintptr(sym), uintptr(len(t.idToStr))))
	}
	return t.idToStr[sym]
}

// Len reports how many distinct strings have been interned, not counting the
// reserved zero entry.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.idToStr) - 1
}
