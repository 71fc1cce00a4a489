//go:build !ios && !android && (amd64 || arm64)

// Package arrowcdata exposes Arrow C data interface structures to host
// runtimes that cannot touch native memory themselves.
//
// Each proxy owns exactly one zero-initialized interface structure (schema,
// array or stream), pinned at a fixed address for the proxy's lifetime. The
// proxy hands the host runtime two things: a stable uint64 address that
// external native code uses to populate or consume the structure in place,
// and a named-operation surface the host dispatches calls through. On
// teardown the proxy runs the structure's release callback at most once.
//
// The package is deliberately passive: no goroutines, no internal locking on
// the per-instance dispatch tables (they are immutable after construction),
// and no interpretation of the wrapped structure's contents. The host
// runtime owns each proxy exclusively and must not overlap Close with other
// calls on the same instance.
package arrowcdata

import (
	"sort"
)

// Proxy is one host-visible instance wrapping a single interface structure.
//
// Invoke dispatches a named operation; unknown names are reported through
// the context, never panicked. Address returns the wrapped structure's
// location; the value stays valid until Close. Close runs the release
// discipline and is idempotent.
type Proxy interface {
	Invoke(name string, ctx *Context)
	Address() uint64
	Close() error
}

// Method is one dispatchable operation bound to a proxy instance.
type Method func(ctx *Context)

// methodTable is the per-instance operation registry. It is populated during
// construction, before the instance escapes to the host runtime, and is
// read-only afterwards; lookups therefore need no locking.
type methodTable struct {
	methods map[string]Method
}

// register binds an operation name. Called only from constructors.
// A duplicate name is a construction-time logic error and panics.
func (t *methodTable) register(name string, m Method) {
	if t.methods == nil {
		t.methods = make(map[string]Method)
	}
	if _, exists := t.methods[name]; exists {
		panic("arrowcdata: duplicate operation " + name)
	}
	t.methods[name] = m
}

// Invoke looks up name and runs the bound method against ctx. An unknown
// name is a recoverable condition reported through the context's error
// channel; the proxy remains usable.
func (t *methodTable) Invoke(name string, ctx *Context) {
	m, ok := t.methods[name]
	if !ok {
		ctx.SetError(&UnknownOperationError{Name: name})
		return
	}
	m(ctx)
}

// Operations returns the sorted names of the instance's operations.
func (t *methodTable) Operations() []string {
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
