// Package bootstrap provides a small registry for objects that are expensive
// to create and must be shared across the bootstrap phase (connection pools,
// remote config clients). Instances are created lazily, at most once per key.
package bootstrap

import "sync"

// Factory creates the instance for a key on first request.
type Factory func() (any, error)

// Registry holds lazily created singletons keyed by name.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]any),
	}
}

// Register installs a factory for a key. The first registration wins;
// later registrations for the same key are ignored.
func (r *Registry) Register(key string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[key]; ok {
		return
	}
	r.factories[key] = factory
}

// RegisterInstance installs an already-built instance for a key.
func (r *Registry) RegisterInstance(key string, instance any) {
	r.Register(key, func() (any, error) { return instance, nil })
}

// GetOrCreate returns the instance for a key, invoking its factory on first
// use. The factory runs at most once even under concurrent callers. The
// boolean reports whether a factory was registered for the key.
func (r *Registry) GetOrCreate(key string) (any, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if instance, ok := r.instances[key]; ok {
		return instance, true, nil
	}
	factory, ok := r.factories[key]
	if !ok {
		return nil, false, nil
	}
	instance, err := factory()
	if err != nil {
		return nil, true, err
	}
	r.instances[key] = instance
	return instance, true, nil
}

// IsRegistered reports whether a factory or instance exists for the key.
func (r *Registry) IsRegistered(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, hasFactory := r.factories[key]
	_, hasInstance := r.instances[key]
	return hasFactory || hasInstance
}
