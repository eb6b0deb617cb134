// Package keylock provides a table of mutexes keyed by id. Locks for different
// keys never contend with each other; idle entries are dropped from the table.
package keylock

import (
	"sync"

	"github.com/google/uuid"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

type Table struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func New() *Table {
	return &Table{entries: make(map[uuid.UUID]*entry)}
}

// Lock blocks until key is held and returns the function that releases it.
func (t *Table) Lock(key uuid.UUID) (unlock func()) {
	t.mu.Lock()
	e, ok := t.entries[key]
	if !ok {
		e = &entry{}
		t.entries[key] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			t.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(t.entries, key)
			}
			t.mu.Unlock()
		})
	}
}

// Len reports how many keys are currently held or waited on.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
