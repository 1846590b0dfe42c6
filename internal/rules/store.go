package rules

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the in-memory rule list. Rules are configuration held for the
// session; insertion order is preserved for listing.
type Store struct {
	mu    sync.RWMutex
	rules map[string]*Rule
	order []string
}

func NewStore() *Store {
	return &Store{rules: make(map[string]*Rule)}
}

// Add stores the rule, assigning an ID when it has none.
func (s *Store) Add(r *Rule) *Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if _, exists := s.rules[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.rules[r.ID] = r
	return r
}

// Get returns the rule with the given ID, or nil.
func (s *Store) Get(id string) *Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules[id]
}

// Update replaces the rule with the given ID. Returns false when no such
// rule exists.
func (s *Store) Update(id string, r *Rule) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return false
	}
	r.ID = id
	s.rules[id] = r
	return true
}

// Delete removes the rule with the given ID. Returns false when no such
// rule exists.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return false
	}
	delete(s.rules, id)
	for i, rid := range s.order {
		if rid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the rules in insertion order.
func (s *Store) All() []*Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Rule, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rules[id])
	}
	return out
}
