// Package snapshot holds the latest serialized element per unit.
//
// This package is internal to ninebar and implements the output snapshot:
// a name-keyed table where every unit's scheduling loop writes only its own
// entry and the single line-writer goroutine reads the whole set. Entries
// are pre-encoded JSON element strings; an empty entry means "suppress this
// unit's element this round".
//
// Users of the ninebar library should not need to interact with this
// package directly.
package snapshot

import "sync"

// Table is the output snapshot: one slot per registered unit, in
// declaration order.
//
// Exactly one goroutine ever writes a given slot and exactly one goroutine
// (the line writer) reads them, so the table needs nothing beyond a mutex
// for safe concurrent map access. A new element simply supersedes the
// previous one; publications between two reads coalesce and only the latest
// survives.
type Table struct {
	mu    sync.RWMutex
	order []string
	slots map[string]string
}

// New creates a Table with one empty slot per name, emitted in the given
// order.
func New(names []string) *Table {
	t := &Table{
		order: append([]string(nil), names...),
		slots: make(map[string]string, len(names)),
	}
	return t
}

// Set replaces the element stored for name. An empty element suppresses the
// unit from subsequent lines. Names not declared at construction are
// ignored.
func (t *Table) Set(name, element string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.slots[name]; !ok {
		if !t.declared(name) {
			return
		}
	}
	t.slots[name] = element
}

// Get returns the element currently stored for name.
func (t *Table) Get(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[name]
}

// Elements returns a self-consistent snapshot of all non-suppressed
// elements in declaration order.
func (t *Table) Elements() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	elements := make([]string, 0, len(t.order))
	for _, name := range t.order {
		if el := t.slots[name]; el != "" {
			elements = append(elements, el)
		}
	}
	return elements
}

// declared reports whether name was in the construction order.
func (t *Table) declared(name string) bool {
	for _, n := range t.order {
		if n == name {
			return true
		}
	}
	return false
}
