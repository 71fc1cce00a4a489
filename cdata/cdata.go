//go:build !ios && !android && (amd64 || arm64)

// Package cdata defines the Arrow C data interface structures and their
// release discipline, without cgo.
//
// Schema, Array and Stream are laid out bit-for-bit against the standardized
// C ABI (struct ArrowSchema, struct ArrowArray, struct ArrowArrayStream), so
// a pointer to one of them can be handed to any native library that speaks
// the interface. The layout is fixed by the Arrow specification; the 64-bit
// counts sitting next to pointer fields are why this package is restricted
// to 64-bit platforms.
//
// Ownership follows the interface's single rule: a non-null release callback
// means the structure and everything it owns must be freed by invoking that
// callback; a null release callback means there is nothing to free. Release
// invokes the callback at most once and is idempotent. This package never
// walks children or dictionaries on its own during teardown - freeing those
// is the release callback's job.
package cdata

import (
	"unsafe"
)

// Schema flags, matching the ARROW_FLAG_* constants of the C ABI.
const (
	// FlagDictionaryOrdered marks a dictionary-encoded type whose dictionary
	// ordering is significant.
	FlagDictionaryOrdered int64 = 1
	// FlagNullable marks a field that admits null values.
	FlagNullable int64 = 2
	// FlagMapKeysSorted marks a map type whose keys are sorted within each
	// entry.
	FlagMapKeysSorted int64 = 4
)

// goString copies a null-terminated C string into a Go string.
// Returns "" for a nil pointer.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice(p, n))
}

// CString allocates a null-terminated copy of s on the Go heap and returns a
// pointer to its first byte. The caller must keep the result reachable (for
// example through the handles registry) for as long as native code may read
// it.
func CString(s string) *byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &buf[0]
}
