//go:build !ios && !android && (amd64 || arm64)

package cdata

import (
	"testing"
	"unsafe"

	"github.com/obinnaokechukwu/arrowcdata/internal/ffi"
)

func TestSchemaZeroValue(t *testing.T) {
	var s Schema

	if s.Format != nil || s.Name != nil || s.Metadata != nil {
		t.Error("zero schema should have nil string fields")
	}
	if s.Flags != 0 || s.NChildren != 0 {
		t.Error("zero schema should have zero counts and flags")
	}
	if s.Children != nil || s.Dictionary != nil {
		t.Error("zero schema should have nil children and dictionary")
	}
	if s.PrivateData != 0 {
		t.Error("zero schema should have zero private_data")
	}
	if !s.Released() {
		t.Error("zero schema should report Released")
	}
}

func TestSchemaABILayout(t *testing.T) {
	var s Schema

	// struct ArrowSchema is 3 pointers, 2 int64s, 2 pointers, 2 pointers:
	// 72 bytes on 64-bit platforms.
	if got := unsafe.Sizeof(s); got != 72 {
		t.Errorf("Schema size = %d, want 72", got)
	}
	if off := unsafe.Offsetof(s.Flags); off != 24 {
		t.Errorf("Flags offset = %d, want 24", off)
	}
	if off := unsafe.Offsetof(s.Children); off != 40 {
		t.Errorf("Children offset = %d, want 40", off)
	}
	if off := unsafe.Offsetof(s.PrivateData); off != 64 {
		t.Errorf("PrivateData offset = %d, want 64", off)
	}
}

func TestArrayABILayout(t *testing.T) {
	var a Array

	// struct ArrowArray is 5 int64s and 5 pointers: 80 bytes.
	if got := unsafe.Sizeof(a); got != 80 {
		t.Errorf("Array size = %d, want 80", got)
	}
	if off := unsafe.Offsetof(a.Buffers); off != 40 {
		t.Errorf("Buffers offset = %d, want 40", off)
	}
	if off := unsafe.Offsetof(a.PrivateData); off != 72 {
		t.Errorf("PrivateData offset = %d, want 72", off)
	}
}

func TestStreamABILayout(t *testing.T) {
	var s Stream

	// struct ArrowArrayStream is 5 pointers: 40 bytes.
	if got := unsafe.Sizeof(s); got != 40 {
		t.Errorf("Stream size = %d, want 40", got)
	}
	if off := unsafe.Offsetof(s.PrivateData); off != 32 {
		t.Errorf("PrivateData offset = %d, want 32", off)
	}
}

func TestSchemaReleaseIdempotent(t *testing.T) {
	calls := 0
	var releasedArg uintptr

	cb := ffi.NewVoidCallback1(func(arg uintptr) {
		calls++
		releasedArg = arg
		// Per the ABI the callback clears the release member itself.
		(*Schema)(unsafe.Pointer(arg)).MarkReleased()
	})

	s := new(Schema)
	s.SetRelease(cb)
	if s.Released() {
		t.Fatal("schema with release callback should not report Released")
	}

	s.Release()
	if calls != 1 {
		t.Fatalf("release callback invoked %d times, want 1", calls)
	}
	if releasedArg != uintptr(unsafe.Pointer(s)) {
		t.Error("release callback did not receive the schema's own address")
	}
	if !s.Released() {
		t.Error("schema should report Released after Release")
	}

	// Second and third calls are no-ops.
	s.Release()
	s.Release()
	if calls != 1 {
		t.Errorf("release callback invoked %d times after repeated Release, want 1", calls)
	}
}

func TestSchemaReleaseNeverPopulated(t *testing.T) {
	s := new(Schema)
	// No callback set: Release must do nothing and not fault.
	s.Release()
	s.Release()
	if !s.Released() {
		t.Error("unpopulated schema should report Released")
	}
}

func TestSchemaReleaseWithoutABIClear(t *testing.T) {
	// Some producers rely on the consumer-side clear. Release must still end
	// with a cleared callback even when the callback does not clear it.
	calls := 0
	cb := ffi.NewVoidCallback1(func(uintptr) { calls++ })

	s := new(Schema)
	s.SetRelease(cb)
	s.Release()
	s.Release()

	if calls != 1 {
		t.Errorf("release callback invoked %d times, want 1", calls)
	}
	if !s.Released() {
		t.Error("schema should report Released")
	}
}

func TestArrayReleaseIdempotent(t *testing.T) {
	calls := 0
	cb := ffi.NewVoidCallback1(func(arg uintptr) {
		calls++
		(*Array)(unsafe.Pointer(arg)).MarkReleased()
	})

	a := new(Array)
	a.SetRelease(cb)
	a.Release()
	a.Release()

	if calls != 1 {
		t.Errorf("release callback invoked %d times, want 1", calls)
	}
	if !a.Released() {
		t.Error("array should report Released after Release")
	}
}

func TestSchemaStringAccessors(t *testing.T) {
	s := new(Schema)
	if s.FormatString() != "" || s.NameString() != "" {
		t.Error("unpopulated schema should have empty format and name")
	}

	s.Format = CString("+s")
	s.Name = CString("row")
	if got := s.FormatString(); got != "+s" {
		t.Errorf("FormatString = %q, want %q", got, "+s")
	}
	if got := s.NameString(); got != "row" {
		t.Errorf("NameString = %q, want %q", got, "row")
	}
}

func TestSchemaFlags(t *testing.T) {
	s := new(Schema)
	if s.Nullable() || s.DictionaryOrdered() || s.MapKeysSorted() {
		t.Error("zero schema should have no flags set")
	}

	s.Flags = FlagNullable | FlagMapKeysSorted
	if !s.Nullable() {
		t.Error("Nullable flag not detected")
	}
	if !s.MapKeysSorted() {
		t.Error("MapKeysSorted flag not detected")
	}
	if s.DictionaryOrdered() {
		t.Error("DictionaryOrdered should not be set")
	}
}

func TestSchemaChildren(t *testing.T) {
	child0 := &Schema{Format: CString("i")}
	child1 := &Schema{Format: CString("u")}
	children := []*Schema{child0, child1}

	parent := &Schema{
		Format:    CString("+s"),
		NChildren: 2,
		Children:  &children[0],
	}

	if got := parent.Child(0); got != child0 {
		t.Error("Child(0) returned wrong schema")
	}
	if got := parent.Child(1); got != child1 {
		t.Error("Child(1) returned wrong schema")
	}
	if got := parent.Child(2); got != nil {
		t.Error("Child(2) should be nil for out-of-range index")
	}
	if got := parent.Child(-1); got != nil {
		t.Error("Child(-1) should be nil")
	}
	if got := parent.Child(0).FormatString(); got != "i" {
		t.Errorf("Child(0).FormatString = %q, want %q", got, "i")
	}
}

func TestArrayBuffers(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	buffers := []unsafe.Pointer{nil, unsafe.Pointer(&data[0])}

	a := &Array{
		Length:   4,
		NBuffers: 2,
		Buffers:  &buffers[0],
	}

	if got := a.Buffer(0); got != nil {
		t.Error("Buffer(0) should be nil validity bitmap")
	}
	if got := a.Buffer(1); got != unsafe.Pointer(&data[0]) {
		t.Error("Buffer(1) returned wrong pointer")
	}
	if got := a.Buffer(2); got != nil {
		t.Error("Buffer(2) should be nil for out-of-range index")
	}
}

func TestStreamCallbacks(t *testing.T) {
	nextCalls := 0

	stream := &Stream{
		GetSchemaFunc: ffi.NewIntCallback2(func(self, out uintptr) int32 {
			schema := (*Schema)(unsafe.Pointer(out))
			schema.Format = CString("l")
			schema.SetRelease(ffi.NewVoidCallback1(func(arg uintptr) {
				(*Schema)(unsafe.Pointer(arg)).MarkReleased()
			}))
			return 0
		}),
		GetNextFunc: ffi.NewIntCallback2(func(self, out uintptr) int32 {
			nextCalls++
			if nextCalls > 1 {
				// End of stream: leave out unpopulated.
				return 0
			}
			arr := (*Array)(unsafe.Pointer(out))
			arr.Length = 3
			arr.SetRelease(ffi.NewVoidCallback1(func(arg uintptr) {
				(*Array)(unsafe.Pointer(arg)).MarkReleased()
			}))
			return 0
		}),
	}

	var schema Schema
	if err := stream.GetSchema(&schema); err != nil {
		t.Fatalf("GetSchema: %v", err)
	}
	if got := schema.FormatString(); got != "l" {
		t.Errorf("stream schema format = %q, want %q", got, "l")
	}
	schema.Release()

	var batch Array
	if err := stream.GetNext(&batch); err != nil {
		t.Fatalf("GetNext: %v", err)
	}
	if batch.Released() {
		t.Fatal("first GetNext should populate the array")
	}
	if batch.Length != 3 {
		t.Errorf("batch length = %d, want 3", batch.Length)
	}
	batch.Release()

	var done Array
	if err := stream.GetNext(&done); err != nil {
		t.Fatalf("GetNext at end: %v", err)
	}
	if !done.Released() {
		t.Error("end of stream should leave the output array unpopulated")
	}
}

func TestStreamError(t *testing.T) {
	msg := CString("backing file vanished")

	stream := &Stream{
		GetNextFunc: ffi.NewIntCallback2(func(self, out uintptr) int32 {
			return 5 // EIO
		}),
		GetLastErrorFunc: ffi.NewPtrCallback1(func(self uintptr) uintptr {
			return uintptr(unsafe.Pointer(msg))
		}),
	}

	var batch Array
	err := stream.GetNext(&batch)
	if err == nil {
		t.Fatal("GetNext should fail")
	}
	streamErr, ok := err.(*StreamError)
	if !ok {
		t.Fatalf("error type = %T, want *StreamError", err)
	}
	if streamErr.Code != 5 {
		t.Errorf("error code = %d, want 5", streamErr.Code)
	}
	if streamErr.Message != "backing file vanished" {
		t.Errorf("error message = %q", streamErr.Message)
	}
}

func TestCString(t *testing.T) {
	p := CString("tsu:UTC")
	if got := goString(p); got != "tsu:UTC" {
		t.Errorf("goString(CString(..)) = %q", got)
	}

	empty := CString("")
	if got := goString(empty); got != "" {
		t.Errorf("goString of empty CString = %q", got)
	}

	if goString(nil) != "" {
		t.Error("goString(nil) should be empty")
	}
}
