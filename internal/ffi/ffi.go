//go:build !ios && !android && (amd64 || arm64)

// Package ffi invokes the function pointers embedded in C data interface
// structures: release callbacks and the stream callbacks (get_schema,
// get_next, get_last_error). It also mints C-callable pointers backed by Go
// functions so that pure-Go producers can hand out real release callbacks.
//
// Callbacks created here are remembered, and Call-style entry points invoke
// them directly as Go functions instead of round-tripping through the C
// calling convention. Foreign pointers go through purego's syscall path.
package ffi

import (
	"sync"

	"github.com/ebitengine/purego"
)

var (
	mu        sync.RWMutex
	goVoid1   = make(map[uintptr]func(uintptr))
	goInt2    = make(map[uintptr]func(uintptr, uintptr) int32)
	goPtr1    = make(map[uintptr]func(uintptr) uintptr)
)

// NewVoidCallback1 returns a C-callable function pointer for a
// void(*)(void *) function such as a release callback.
// The pointer stays valid for the lifetime of the process; purego callbacks
// cannot be freed.
func NewVoidCallback1(fn func(arg uintptr)) uintptr {
	cb := purego.NewCallback(func(arg uintptr) uintptr {
		fn(arg)
		return 0
	})
	mu.Lock()
	goVoid1[cb] = fn
	mu.Unlock()
	return cb
}

// NewIntCallback2 returns a C-callable function pointer for an
// int(*)(void *, void *) function, the shape of a stream's get_schema and
// get_next callbacks.
func NewIntCallback2(fn func(a, b uintptr) int32) uintptr {
	cb := purego.NewCallback(func(a, b uintptr) uintptr {
		return uintptr(uint32(fn(a, b)))
	})
	mu.Lock()
	goInt2[cb] = fn
	mu.Unlock()
	return cb
}

// NewPtrCallback1 returns a C-callable function pointer for a
// const char *(*)(void *) function, the shape of a stream's get_last_error
// callback.
func NewPtrCallback1(fn func(arg uintptr) uintptr) uintptr {
	cb := purego.NewCallback(func(arg uintptr) uintptr {
		return fn(arg)
	})
	mu.Lock()
	goPtr1[cb] = fn
	mu.Unlock()
	return cb
}

// CallVoid1 invokes fn(arg) where fn is a void(*)(void *) function pointer.
// A zero fn is a no-op.
func CallVoid1(fn, arg uintptr) {
	if fn == 0 {
		return
	}
	mu.RLock()
	g := goVoid1[fn]
	mu.RUnlock()
	if g != nil {
		g(arg)
		return
	}
	purego.SyscallN(fn, arg)
}

// CallInt2 invokes fn(a, b) where fn is an int(*)(void *, void *) function
// pointer and returns the int result.
func CallInt2(fn, a, b uintptr) int32 {
	mu.RLock()
	g := goInt2[fn]
	mu.RUnlock()
	if g != nil {
		return g(a, b)
	}
	r1, _, _ := purego.SyscallN(fn, a, b)
	return int32(uint32(r1))
}

// CallPtr1 invokes fn(arg) where fn is a pointer-returning function pointer
// with one pointer argument and returns the raw result.
func CallPtr1(fn, arg uintptr) uintptr {
	mu.RLock()
	g := goPtr1[fn]
	mu.RUnlock()
	if g != nil {
		return g(arg)
	}
	r1, _, _ := purego.SyscallN(fn, arg)
	return r1
}
