//go:build !ios && !android && (amd64 || arm64)

package arrowcdata

import (
	"errors"
	"fmt"
)

// UnknownOperationError reports an Invoke with a name absent from the
// instance's dispatch table. Recoverable: the proxy stays usable.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("arrowcdata: unknown operation %q", e.Name)
}

// UnknownKindError reports a Registry.New with an unregistered proxy kind.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("arrowcdata: unknown proxy kind %q", e.Kind)
}

// AlreadyRegisteredError reports a Registry.Register for a kind that is
// already present.
type AlreadyRegisteredError struct {
	Kind string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("arrowcdata: proxy kind %q already registered", e.Kind)
}

// IsUnknownOperation reports whether err is an UnknownOperationError.
func IsUnknownOperation(err error) bool {
	var opErr *UnknownOperationError
	return errors.As(err, &opErr)
}

// IsUnknownKind reports whether err is an UnknownKindError.
func IsUnknownKind(err error) bool {
	var kindErr *UnknownKindError
	return errors.As(err, &kindErr)
}
