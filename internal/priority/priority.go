package priority

import "sync"

// Criteria is the fixed vocabulary of weight criteria. The weights
// themselves are owned by the consuming system; this service only holds
// and passes them through.
var Criteria = []string{
	"priority-level",
	"task-fulfillment",
	"fairness",
	"efficiency",
	"deadline",
	"skill-match",
}

// Weights maps criteria names to a weight in [0,100].
type Weights map[string]float64

// Defaults returns an even starting profile.
func Defaults() Weights {
	w := make(Weights, len(Criteria))
	for _, c := range Criteria {
		w[c] = 50
	}
	return w
}

// Known reports whether the name is in the criteria vocabulary.
func Known(name string) bool {
	for _, c := range Criteria {
		if c == name {
			return true
		}
	}
	return false
}

// Store holds the current weight profile for the session.
type Store struct {
	mu      sync.RWMutex
	weights Weights
}

func NewStore() *Store {
	return &Store{weights: Defaults()}
}

// Get returns a copy of the current weights.
func (s *Store) Get() Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Weights, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

// Set replaces the whole profile.
func (s *Store) Set(w Weights) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = w
}
