//go:build !ios && !android && (amd64 || arm64)

package arrowcdata

// Context is the boundary object for one method invocation: an ordered
// sequence of input values from the host runtime, a mutable ordered sequence
// of output slots the method writes results into, and an error channel for
// recoverable failures.
//
// Marshaling of host-runtime values into the slots is the host binding's
// concern; this package only moves the values through.
type Context struct {
	inputs  []any
	outputs []any
	err     error
}

// NewContext builds a call context with the given inputs and numOutputs
// empty output slots.
func NewContext(inputs []any, numOutputs int) *Context {
	return &Context{
		inputs:  inputs,
		outputs: make([]any, numOutputs),
	}
}

// NumInputs returns the number of input values.
func (c *Context) NumInputs() int {
	return len(c.inputs)
}

// Input returns the i-th input value, or nil if i is out of range.
func (c *Context) Input(i int) any {
	if i < 0 || i >= len(c.inputs) {
		return nil
	}
	return c.inputs[i]
}

// NumOutputs returns the number of output slots.
func (c *Context) NumOutputs() int {
	return len(c.outputs)
}

// Output returns the value in the i-th output slot, or nil if i is out of
// range or the slot was never written.
func (c *Context) Output(i int) any {
	if i < 0 || i >= len(c.outputs) {
		return nil
	}
	return c.outputs[i]
}

// SetOutput writes v into the i-th output slot. Writing outside the slots
// the host provided is a logic error in the proxy method and panics.
func (c *Context) SetOutput(i int, v any) {
	if i < 0 || i >= len(c.outputs) {
		panic("arrowcdata: output slot index out of range")
	}
	c.outputs[i] = v
}

// SetError records a recoverable failure for the host runtime to observe.
// A later SetError overwrites an earlier one.
func (c *Context) SetError(err error) {
	c.err = err
}

// Err returns the failure recorded during the invocation, or nil.
func (c *Context) Err() error {
	return c.err
}
