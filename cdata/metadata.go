//go:build !ios && !android && (amd64 || arm64)

package cdata

import (
	"encoding/binary"
	"errors"
	"unsafe"
)

// KeyValue is one metadata pair from a schema's metadata block.
type KeyValue struct {
	Key   string
	Value string
}

// ErrMalformedMetadata is returned when a metadata block's length prefixes
// are negative.
var ErrMalformedMetadata = errors.New("cdata: malformed metadata block")

// EncodeMetadata serializes key/value pairs into the C data interface
// metadata block: an int32 pair count followed by length-prefixed key and
// value bytes, all in native endianness. Returns nil for no pairs, matching
// the ABI's "null means no metadata" convention.
func EncodeMetadata(pairs []KeyValue) []byte {
	if len(pairs) == 0 {
		return nil
	}

	size := 4
	for _, kv := range pairs {
		size += 8 + len(kv.Key) + len(kv.Value)
	}

	buf := make([]byte, 0, size)
	buf = appendInt32(buf, int32(len(pairs)))
	for _, kv := range pairs {
		buf = appendInt32(buf, int32(len(kv.Key)))
		buf = append(buf, kv.Key...)
		buf = appendInt32(buf, int32(len(kv.Value)))
		buf = append(buf, kv.Value...)
	}
	return buf
}

// DecodeMetadata parses a metadata block starting at p. Returns nil pairs
// and no error for a nil pointer. The block is self-delimiting; p must point
// at a well-formed block, which is part of the interface's trust boundary.
func DecodeMetadata(p *byte) ([]KeyValue, error) {
	if p == nil {
		return nil, nil
	}

	cur := unsafe.Pointer(p)
	n := readInt32(&cur)
	if n < 0 {
		return nil, ErrMalformedMetadata
	}
	if n == 0 {
		return nil, nil
	}

	pairs := make([]KeyValue, 0, n)
	for i := int32(0); i < n; i++ {
		klen := readInt32(&cur)
		if klen < 0 {
			return nil, ErrMalformedMetadata
		}
		key := readBytes(&cur, int(klen))

		vlen := readInt32(&cur)
		if vlen < 0 {
			return nil, ErrMalformedMetadata
		}
		value := readBytes(&cur, int(vlen))

		pairs = append(pairs, KeyValue{Key: key, Value: value})
	}
	return pairs, nil
}

func appendInt32(buf []byte, v int32) []byte {
	return binary.NativeEndian.AppendUint32(buf, uint32(v))
}

func readInt32(cur *unsafe.Pointer) int32 {
	v := *(*int32)(*cur)
	*cur = unsafe.Add(*cur, 4)
	return v
}

func readBytes(cur *unsafe.Pointer, n int) string {
	if n == 0 {
		return ""
	}
	s := string(unsafe.Slice((*byte)(*cur), n))
	*cur = unsafe.Add(*cur, n)
	return s
}
