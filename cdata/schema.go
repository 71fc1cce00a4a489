//go:build !ios && !android && (amd64 || arm64)

package cdata

import (
	"unsafe"

	"github.com/obinnaokechukwu/arrowcdata/internal/ffi"
)

// Schema mirrors struct ArrowSchema from the Arrow C data interface.
//
// The zero value is a valid, unpopulated structure: every field null, nothing
// owned, nothing to free. Whoever sets the release callback owns the format,
// name and metadata strings, the children array and its elements, and the
// dictionary; they are freed only by invoking that callback.
//
// The release pointer itself is kept unexported: the rest of the module sees
// the two-state ownership view (Released/SetRelease/Release) rather than a
// raw nullable function pointer. The field still occupies its ABI slot so
// native code reads and writes it directly.
type Schema struct {
	Format      *byte
	Name        *byte
	Metadata    *byte
	Flags       int64
	NChildren   int64
	Children    **Schema
	Dictionary  *Schema
	release     uintptr
	PrivateData uintptr
}

// Released reports whether the structure owns nothing: either it was never
// populated or its release callback has already run.
func (s *Schema) Released() bool {
	return s.release == 0
}

// SetRelease installs a release callback, transferring ownership of the
// structure's contents to whoever implements fn. fn must be a C-callable
// function pointer taking a single pointer argument (see ffi.NewVoidCallback1
// for Go-backed callbacks).
func (s *Schema) SetRelease(fn uintptr) {
	s.release = fn
}

// MarkReleased clears the release callback without invoking it. Release
// callbacks call this on the structure they were handed, as the ABI requires.
func (s *Schema) MarkReleased() {
	s.release = 0
}

// Release invokes the release callback if one is set, passing the structure
// itself, then clears the callback. Safe to call any number of times; only
// the first call on a populated structure does anything. This is the only
// teardown path: children and dictionary are freed by the callback, never
// walked here.
func (s *Schema) Release() {
	if s.release == 0 {
		return
	}
	fn := s.release
	ffi.CallVoid1(fn, uintptr(unsafe.Pointer(s)))
	s.release = 0
}

// FormatString returns the format field as a Go string, or "" if unset.
func (s *Schema) FormatString() string {
	return goString(s.Format)
}

// NameString returns the name field as a Go string, or "" if unset.
func (s *Schema) NameString() string {
	return goString(s.Name)
}

// Nullable reports whether the nullable flag is set.
func (s *Schema) Nullable() bool {
	return s.Flags&FlagNullable != 0
}

// DictionaryOrdered reports whether the ordered-dictionary flag is set.
func (s *Schema) DictionaryOrdered() bool {
	return s.Flags&FlagDictionaryOrdered != 0
}

// MapKeysSorted reports whether the sorted-map-keys flag is set.
func (s *Schema) MapKeysSorted() bool {
	return s.Flags&FlagMapKeysSorted != 0
}

// Child returns the i-th child schema, or nil if the index is out of range.
func (s *Schema) Child(i int) *Schema {
	if s.Children == nil || i < 0 || int64(i) >= s.NChildren {
		return nil
	}
	p := unsafe.Add(unsafe.Pointer(s.Children), uintptr(i)*unsafe.Sizeof(uintptr(0)))
	return *(**Schema)(p)
}

// MetadataPairs decodes the metadata field's key/value block.
// Returns nil with no error when metadata is unset.
func (s *Schema) MetadataPairs() ([]KeyValue, error) {
	return DecodeMetadata(s.Metadata)
}
