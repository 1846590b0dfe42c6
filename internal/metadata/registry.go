package metadata

import "sync"

// Registry holds the active validation schemas, keyed by kind.
type Registry struct {
	mu      sync.RWMutex
	schemas map[Kind]*Schema
}

func NewRegistry() *Registry {
	return &Registry{schemas: make(map[Kind]*Schema)}
}

// Get returns the schema for the given kind, or nil.
func (r *Registry) Get(kind Kind) *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[kind]
}

// All returns the registered schemas in canonical kind order.
func (r *Registry) All() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemas := make([]*Schema, 0, len(r.schemas))
	for _, k := range Kinds() {
		if s, ok := r.schemas[k]; ok {
			schemas = append(schemas, s)
		}
	}
	return schemas
}

// Load replaces all schemas in the registry. Called during startup and
// after a schema file reload.
func (r *Registry) Load(schemas []*Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas = make(map[Kind]*Schema, len(schemas))
	for _, s := range schemas {
		r.schemas[s.Kind] = s
	}
}
