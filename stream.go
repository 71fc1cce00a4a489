//go:build !ios && !android && (amd64 || arm64)

package arrowcdata

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/arrowcdata/cdata"
)

// StreamProxy wraps one cdata.Stream for a host runtime. Same lifecycle as
// SchemaProxy: zero-initialized pinned storage, address export, release on
// Close.
type StreamProxy struct {
	methodTable
	stream *cdata.Stream
	pin    runtime.Pinner
	closed bool
}

// NewStreamProxy constructs a proxy around a fresh, zero-initialized stream
// structure and populates its dispatch table.
func NewStreamProxy() *StreamProxy {
	p := &StreamProxy{stream: new(cdata.Stream)}
	p.pin.Pin(p.stream)
	p.register(OpGetAddress, p.getAddress)

	Logger().Debug("stream proxy constructed",
		zap.Uint64("address", p.Address()))
	return p
}

// MakeStream is the construction entry point for the stream proxy kind.
// The constructor arguments are ignored; construction cannot fail.
func MakeStream(args []any) (Proxy, error) {
	return NewStreamProxy(), nil
}

// Stream returns the wrapped structure, for Go-side collaborators that pull
// batches through its callbacks after native code has populated it.
func (p *StreamProxy) Stream() *cdata.Stream {
	return p.stream
}

// Address returns the structure's memory address as a uint64, stable until
// Close.
func (p *StreamProxy) Address() uint64 {
	return uint64(uintptr(unsafe.Pointer(p.stream)))
}

func (p *StreamProxy) getAddress(ctx *Context) {
	ctx.SetOutput(0, p.Address())
}

// Close runs the release discipline and unpins the storage. Idempotent.
func (p *StreamProxy) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	released := !p.stream.Released()
	p.stream.Release()
	p.pin.Unpin()

	Logger().Debug("stream proxy closed",
		zap.Bool("released", released))
	return nil
}
