//go:build !ios && !android && (amd64 || arm64)

package arrowcdata

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Proxy kind names, as a host binding addresses them.
const (
	KindSchema = "arrow.c.Schema"
	KindArray  = "arrow.c.Array"
	KindStream = "arrow.c.ArrayStream"
)

// Constructor builds one proxy instance from host-supplied constructor
// arguments.
type Constructor func(args []any) (Proxy, error)

// Registry maps proxy kind names to constructors. It is the boundary a host
// binding drives proxy construction through; everything past it (how the
// host garbage-collects proxies, how it marshals values) is the binding's
// business.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	logger       *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger falls back to the
// package logger.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = Logger()
	}
	return &Registry{
		constructors: make(map[string]Constructor),
		logger:       logger.With(zap.String("component", "proxy-registry")),
	}
}

// NewDefaultRegistry creates a registry with the three built-in proxy kinds
// registered.
func NewDefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	// Registering fixed kinds into a fresh registry cannot collide.
	_ = r.Register(KindSchema, MakeSchema)
	_ = r.Register(KindArray, MakeArray)
	_ = r.Register(KindStream, MakeStream)
	return r
}

// Register adds a proxy kind. Registering a kind twice returns an
// AlreadyRegisteredError.
func (r *Registry) Register(kind string, c Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[kind]; exists {
		return &AlreadyRegisteredError{Kind: kind}
	}
	r.constructors[kind] = c

	r.logger.Debug("proxy kind registered", zap.String("kind", kind))
	return nil
}

// New constructs a proxy of the given kind. An unregistered kind returns an
// UnknownKindError.
func (r *Registry) New(kind string, args []any) (Proxy, error) {
	r.mu.RLock()
	c, ok := r.constructors[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}

	p, err := c(args)
	if err != nil {
		r.logger.Error("proxy construction failed",
			zap.String("kind", kind),
			zap.Error(err))
		return nil, err
	}

	r.logger.Debug("proxy constructed", zap.String("kind", kind))
	return p, nil
}

// Kinds returns the sorted names of the registered proxy kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.constructors))
	for kind := range r.constructors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
