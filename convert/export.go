//go:build !ios && !android && (amd64 || arm64)

package convert

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/apache/arrow/go/v18/arrow"

	"github.com/obinnaokechukwu/arrowcdata/cdata"
	"github.com/obinnaokechukwu/arrowcdata/internal/ffi"
	"github.com/obinnaokechukwu/arrowcdata/internal/handles"
)

// ErrTargetOwned is returned when exporting into a structure that still owns
// contents. Overwriting it would leak whatever its release callback guards;
// release it first.
var ErrTargetOwned = errors.New("convert: target structure has not been released")

// exportState roots the Go allocations referenced by one exported structure.
// The structure's private_data carries a registry handle to it, so the state
// stays reachable even when the structure itself has been shallow-copied into
// foreign memory.
type exportState struct {
	format   *byte
	name     *byte
	metadata []byte

	children   []*cdata.Schema
	dictionary *cdata.Schema
}

var (
	releaseOnce sync.Once
	releaseFn   uintptr
)

// releaseCallback returns the shared C-callable release entry point for
// exported schemas. A single callback serves every export; per-structure
// state travels in private_data.
func releaseCallback() uintptr {
	releaseOnce.Do(func() {
		releaseFn = ffi.NewVoidCallback1(releaseExported)
	})
	return releaseFn
}

func releaseExported(arg uintptr) {
	s := (*cdata.Schema)(unsafe.Pointer(arg))
	if s.Released() {
		return
	}
	s.MarkReleased()
	for i := 0; i < int(s.NChildren); i++ {
		if c := s.Child(i); c != nil {
			c.Release()
		}
	}
	if s.Dictionary != nil {
		s.Dictionary.Release()
	}
	handles.Unregister(s.PrivateData)
	s.PrivateData = 0
}

// ExportSchema populates out from an arrow-go schema. The top level is
// spelled as a nameless struct whose children are the schema's fields, with
// the schema-level metadata attached to it. out must be unpopulated.
func ExportSchema(schema *arrow.Schema, out *cdata.Schema) error {
	md := schema.Metadata()
	return ExportField(arrow.Field{
		Type:     arrow.StructOf(schema.Fields()...),
		Metadata: md,
	}, out)
}

// ExportField populates out from an arrow-go field. Every allocation is
// rooted through out's private_data and freed by the installed release
// callback; callers pass ownership of the populated structure onward by
// handing out its address.
func ExportField(field arrow.Field, out *cdata.Schema) error {
	if !out.Released() {
		return ErrTargetOwned
	}

	fmtStr, err := formatFor(field.Type)
	if err != nil {
		return err
	}

	state := &exportState{
		format: cdata.CString(fmtStr),
		name:   cdata.CString(field.Name),
	}

	var flags int64
	if field.Nullable {
		flags |= cdata.FlagNullable
	}
	if m, ok := field.Type.(*arrow.MapType); ok && m.KeysSorted {
		flags |= cdata.FlagMapKeysSorted
	}

	if kv := field.Metadata; kv.Len() > 0 {
		pairs := make([]cdata.KeyValue, kv.Len())
		for i := range pairs {
			pairs[i] = cdata.KeyValue{Key: kv.Keys()[i], Value: kv.Values()[i]}
		}
		state.metadata = cdata.EncodeMetadata(pairs)
	}

	for _, cf := range childFields(field.Type) {
		child := new(cdata.Schema)
		if err := ExportField(cf, child); err != nil {
			for _, done := range state.children {
				done.Release()
			}
			return err
		}
		state.children = append(state.children, child)
	}

	if dt, ok := field.Type.(*arrow.DictionaryType); ok {
		dict := new(cdata.Schema)
		df := arrow.Field{Type: dt.ValueType, Nullable: true}
		if err := ExportField(df, dict); err != nil {
			for _, done := range state.children {
				done.Release()
			}
			return err
		}
		state.dictionary = dict
		if dt.Ordered {
			flags |= cdata.FlagDictionaryOrdered
		}
	}

	out.Format = state.format
	out.Name = state.name
	if state.metadata != nil {
		out.Metadata = &state.metadata[0]
	} else {
		out.Metadata = nil
	}
	out.Flags = flags
	out.NChildren = int64(len(state.children))
	if len(state.children) > 0 {
		out.Children = &state.children[0]
	} else {
		out.Children = nil
	}
	out.Dictionary = state.dictionary
	out.PrivateData = handles.Register(state)
	out.SetRelease(releaseCallback())
	return nil
}
