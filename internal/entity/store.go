package entity

import (
	"sync"

	"alchemist-backend/internal/metadata"
)

// Store holds the uploaded datasets for the current session. All state is
// transient; clearing the store is the only way data leaves the process.
type Store struct {
	mu       sync.RWMutex
	datasets map[metadata.Kind]*Entity
}

func NewStore() *Store {
	return &Store{datasets: make(map[metadata.Kind]*Entity)}
}

// Put replaces the dataset for the entity's kind.
func (s *Store) Put(e *Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[e.Kind] = e
}

// Get returns the dataset for the given kind, or nil.
func (s *Store) Get(kind metadata.Kind) *Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasets[kind]
}

// All returns the stored datasets in canonical kind order.
func (s *Store) All() []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entity, 0, len(s.datasets))
	for _, k := range metadata.Kinds() {
		if e, ok := s.datasets[k]; ok {
			out = append(out, e)
		}
	}
	return out
}

// SetDiagnostics publishes a freshly annotated entity for the kind,
// swapping it in under the lock. Stored entities are never mutated after
// publication, so readers holding the previous pointer keep a consistent
// snapshot.
func (s *Store) SetDiagnostics(kind metadata.Kind, diags []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.datasets[kind]
	if !ok {
		return
	}
	fresh := New(kind, old.Rows)
	fresh.SetDiagnostics(diags)
	s.datasets[kind] = fresh
}

// Clear drops all datasets.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets = make(map[metadata.Kind]*Entity)
}
