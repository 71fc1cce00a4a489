//go:build !ios && !android && (amd64 || arm64)

package cdata

import (
	"unsafe"

	"github.com/obinnaokechukwu/arrowcdata/internal/ffi"
)

// Array mirrors struct ArrowArray from the Arrow C data interface.
//
// Same ownership rule as Schema: the release callback owns the buffers,
// children and dictionary; a zero value owns nothing.
type Array struct {
	Length      int64
	NullCount   int64
	Offset      int64
	NBuffers    int64
	NChildren   int64
	Buffers     *unsafe.Pointer
	Children    **Array
	Dictionary  *Array
	release     uintptr
	PrivateData uintptr
}

// Released reports whether the structure owns nothing.
func (a *Array) Released() bool {
	return a.release == 0
}

// SetRelease installs a release callback, transferring ownership of the
// structure's contents to its implementation.
func (a *Array) SetRelease(fn uintptr) {
	a.release = fn
}

// MarkReleased clears the release callback without invoking it.
func (a *Array) MarkReleased() {
	a.release = 0
}

// Release invokes the release callback exactly once if set, then clears it.
// Idempotent; the only teardown path for owned buffers and children.
func (a *Array) Release() {
	if a.release == 0 {
		return
	}
	fn := a.release
	ffi.CallVoid1(fn, uintptr(unsafe.Pointer(a)))
	a.release = 0
}

// Child returns the i-th child array, or nil if the index is out of range.
func (a *Array) Child(i int) *Array {
	if a.Children == nil || i < 0 || int64(i) >= a.NChildren {
		return nil
	}
	p := unsafe.Add(unsafe.Pointer(a.Children), uintptr(i)*unsafe.Sizeof(uintptr(0)))
	return *(**Array)(p)
}

// Buffer returns the i-th buffer pointer, or nil if the index is out of
// range. Buffer 0 is the validity bitmap for most layouts; interpretation of
// the rest depends on the type's format string.
func (a *Array) Buffer(i int) unsafe.Pointer {
	if a.Buffers == nil || i < 0 || int64(i) >= a.NBuffers {
		return nil
	}
	p := unsafe.Add(unsafe.Pointer(a.Buffers), uintptr(i)*unsafe.Sizeof(uintptr(0)))
	return *(*unsafe.Pointer)(p)
}
