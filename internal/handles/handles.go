// Package handles provides a thread-safe handle system for Go objects whose
// lifetime is controlled from the native side of the C data interface.
//
// Exported structures carry their Go-side allocation state (format strings,
// child arrays, metadata blocks) in the structure's private_data field. C
// memory must never hold a Go pointer, and an exported structure may be
// shallow-copied into foreign memory the garbage collector cannot see, so the
// state is registered here and private_data holds only the opaque handle.
// The release callback resolves the handle, drops it, and lets the state be
// collected.
package handles

import (
	"sync"
)

var (
	mu     sync.RWMutex
	table  = make(map[uintptr]any)
	nextID uintptr = 1
)

// Register stores v and returns a handle for it. The handle is safe to store
// in native memory; v stays reachable until Unregister is called with the
// same handle.
func Register(v any) uintptr {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	table[id] = v
	return id
}

// Lookup returns the object registered under id, or nil if the handle is
// unknown or has already been unregistered.
func Lookup(id uintptr) any {
	mu.RLock()
	defer mu.RUnlock()
	return table[id]
}

// Unregister drops the handle. After it returns the registered object is
// garbage-collectable again. Unregistering an unknown handle is a no-op, so
// an idempotent release callback can call it unconditionally.
func Unregister(id uintptr) {
	mu.Lock()
	defer mu.Unlock()
	delete(table, id)
}

// Count returns the number of live handles. Tests use it to prove that
// release callbacks ran and did not leak exported allocation state.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(table)
}
