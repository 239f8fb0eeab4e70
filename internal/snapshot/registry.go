package snapshot

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrSourceNotFound is returned when no source is registered under a name.
var ErrSourceNotFound = errors.New("snapshot source not found")

// Registry holds the snapshot sources available to the loader, keyed by name.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.RWMutex{},
		sources: make(map[string]Source),
	}
}

// Register adds a source under its own name.
func (r *Registry) Register(source Source) error {
	if source == nil {
		return errors.New("source cannot be nil")
	}

	name := source.Name()
	if name == "" {
		return errors.New("source name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("source %s already registered", name)
	}

	r.sources[name] = source
	return nil
}

// Get retrieves a source by name.
func (r *Registry) Get(name string) (Source, error) {
	if name == "" {
		return nil, errors.New("source name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.sources[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, name)
	}

	return source, nil
}

// List returns the registered source names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
