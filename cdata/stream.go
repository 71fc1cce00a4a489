//go:build !ios && !android && (amd64 || arm64)

package cdata

import (
	"fmt"
	"unsafe"

	"github.com/obinnaokechukwu/arrowcdata/internal/ffi"
)

// Stream mirrors struct ArrowArrayStream from the Arrow C data interface.
//
// The three operation callbacks follow the C calling convention and are
// stored as raw function pointers; Go-backed streams populate them with
// pointers minted by the ffi package. The release callback follows the same
// single-invocation ownership rule as Schema and Array.
type Stream struct {
	GetSchemaFunc    uintptr
	GetNextFunc      uintptr
	GetLastErrorFunc uintptr
	release          uintptr
	PrivateData      uintptr
}

// StreamError is a failure reported by a stream callback. Code carries the
// errno-style value the callback returned; Message carries the producer's
// get_last_error text when available.
type StreamError struct {
	Code    int32
	Message string
	Op      string
}

func (e *StreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cdata %s: %s (code %d)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("cdata %s failed (code %d)", e.Op, e.Code)
}

// Released reports whether the stream owns nothing.
func (s *Stream) Released() bool {
	return s.release == 0
}

// SetRelease installs a release callback, transferring ownership of the
// stream's private state to its implementation.
func (s *Stream) SetRelease(fn uintptr) {
	s.release = fn
}

// MarkReleased clears the release callback without invoking it.
func (s *Stream) MarkReleased() {
	s.release = 0
}

// Release invokes the release callback exactly once if set, then clears it.
// Idempotent.
func (s *Stream) Release() {
	if s.release == 0 {
		return
	}
	fn := s.release
	ffi.CallVoid1(fn, uintptr(unsafe.Pointer(s)))
	s.release = 0
}

// GetSchema asks the producer for the stream's schema, populating out.
// out should be zero-initialized; on success the caller owns it and must
// release it.
func (s *Stream) GetSchema(out *Schema) error {
	rc := ffi.CallInt2(s.GetSchemaFunc, uintptr(unsafe.Pointer(s)), uintptr(unsafe.Pointer(out)))
	if rc != 0 {
		return &StreamError{Code: rc, Message: s.LastError(), Op: "get_schema"}
	}
	return nil
}

// GetNext asks the producer for the next chunk, populating out. On success
// the caller owns out and must release it. End of stream is signaled by a
// successful call that leaves out unpopulated (out.Released() is true).
func (s *Stream) GetNext(out *Array) error {
	rc := ffi.CallInt2(s.GetNextFunc, uintptr(unsafe.Pointer(s)), uintptr(unsafe.Pointer(out)))
	if rc != 0 {
		return &StreamError{Code: rc, Message: s.LastError(), Op: "get_next"}
	}
	return nil
}

// LastError returns the producer's description of the last error, or "" if
// the producer supplies none. Only meaningful immediately after a failed
// GetSchema or GetNext call.
func (s *Stream) LastError() string {
	if s.GetLastErrorFunc == 0 {
		return ""
	}
	p := ffi.CallPtr1(s.GetLastErrorFunc, uintptr(unsafe.Pointer(s)))
	if p == 0 {
		return ""
	}
	return goString((*byte)(unsafe.Pointer(p)))
}
