//go:build !ios && !android && (amd64 || arm64)

package arrowcdata

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/arrowcdata/cdata"
)

// OpGetAddress is the operation every proxy kind registers: it writes the
// wrapped structure's address into output slot 0 as a uint64.
const OpGetAddress = "getAddress"

// SchemaProxy wraps one cdata.Schema for a host runtime.
//
// The structure starts zero-initialized and is pinned so its address never
// changes while the proxy lives; external native code populates it through
// the exported address. The proxy never writes the populated fields itself.
type SchemaProxy struct {
	methodTable
	schema *cdata.Schema
	pin    runtime.Pinner
	closed bool
}

// NewSchemaProxy constructs a proxy around a fresh, zero-initialized schema
// structure and populates its dispatch table.
func NewSchemaProxy() *SchemaProxy {
	p := &SchemaProxy{schema: new(cdata.Schema)}
	p.pin.Pin(p.schema)
	p.register(OpGetAddress, p.getAddress)

	Logger().Debug("schema proxy constructed",
		zap.Uint64("address", p.Address()))
	return p
}

// MakeSchema is the construction entry point for the schema proxy kind.
// The constructor arguments are ignored; construction cannot fail.
func MakeSchema(args []any) (Proxy, error) {
	return NewSchemaProxy(), nil
}

// Schema returns the wrapped structure, for Go-side collaborators that
// populate or inspect it directly.
func (p *SchemaProxy) Schema() *cdata.Schema {
	return p.schema
}

// Address returns the structure's memory address as a uint64. This is the
// single sanctioned escape hatch for the structure's location: once exported
// the structure may be written by arbitrary native code, and the address
// must not be used after Close.
func (p *SchemaProxy) Address() uint64 {
	return uint64(uintptr(unsafe.Pointer(p.schema)))
}

func (p *SchemaProxy) getAddress(ctx *Context) {
	ctx.SetOutput(0, p.Address())
}

// Close runs the release discipline: the structure's release callback is
// invoked exactly once if set, then the storage is unpinned. Idempotent.
// The host runtime must not overlap Close with other calls on this proxy.
func (p *SchemaProxy) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	released := !p.schema.Released()
	p.schema.Release()
	p.pin.Unpin()

	Logger().Debug("schema proxy closed",
		zap.Bool("released", released))
	return nil
}
