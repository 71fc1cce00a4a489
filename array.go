//go:build !ios && !android && (amd64 || arm64)

package arrowcdata

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/arrowcdata/cdata"
)

// ArrayProxy wraps one cdata.Array for a host runtime. Same lifecycle as
// SchemaProxy: zero-initialized pinned storage, address export, release on
// Close.
type ArrayProxy struct {
	methodTable
	array  *cdata.Array
	pin    runtime.Pinner
	closed bool
}

// NewArrayProxy constructs a proxy around a fresh, zero-initialized array
// structure and populates its dispatch table.
func NewArrayProxy() *ArrayProxy {
	p := &ArrayProxy{array: new(cdata.Array)}
	p.pin.Pin(p.array)
	p.register(OpGetAddress, p.getAddress)

	Logger().Debug("array proxy constructed",
		zap.Uint64("address", p.Address()))
	return p
}

// MakeArray is the construction entry point for the array proxy kind.
// The constructor arguments are ignored; construction cannot fail.
func MakeArray(args []any) (Proxy, error) {
	return NewArrayProxy(), nil
}

// Array returns the wrapped structure.
func (p *ArrayProxy) Array() *cdata.Array {
	return p.array
}

// Address returns the structure's memory address as a uint64, stable until
// Close.
func (p *ArrayProxy) Address() uint64 {
	return uint64(uintptr(unsafe.Pointer(p.array)))
}

func (p *ArrayProxy) getAddress(ctx *Context) {
	ctx.SetOutput(0, p.Address())
}

// Close runs the release discipline and unpins the storage. Idempotent.
func (p *ArrayProxy) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	released := !p.array.Released()
	p.array.Release()
	p.pin.Unpin()

	Logger().Debug("array proxy closed",
		zap.Bool("released", released))
	return nil
}
