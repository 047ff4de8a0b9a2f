// Package lock tracks which resources have a mutation in flight.
package lock

import (
	"errors"
	"sync"
)

// ErrBusy is returned when another operation already holds the key.
var ErrBusy = errors.New("another operation is in progress")

// Key identifies one resource instance, e.g. {"workout", "65a1..."}.
// Creates use an empty ID.
type Key struct {
	Resource string
	ID       string
}

// Table maps keys to the operation currently holding them.
type Table struct {
	mu      sync.Mutex
	holders map[Key]string
}

// NewTable returns an empty lock table.
func NewTable() *Table {
	return &Table{holders: make(map[Key]string)}
}

// TryAcquire claims key for operation and returns the release func.
// It never waits: a held key fails immediately with ErrBusy.
func (t *Table) TryAcquire(key Key, operation string) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, held := t.holders[key]; held {
		return nil, ErrBusy
	}
	t.holders[key] = operation

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.holders, key)
			t.mu.Unlock()
		})
	}, nil
}

// Holder reports the operation holding key, if any.
func (t *Table) Holder(key Key) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	op, ok := t.holders[key]
	return op, ok
}

// IsLocked reports whether key is held.
func (t *Table) IsLocked(key Key) bool {
	_, ok := t.Holder(key)
	return ok
}
