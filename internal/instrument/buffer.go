package instrument

import "sync"

// MemorySink keeps the most recent events in a bounded ring. There is no
// persistence in this service; the buffer exists so operators can inspect
// recent engine activity via the events endpoint.
type MemorySink struct {
	mu      sync.Mutex
	events  []Event
	maxSize int
	next    int
	full    bool
}

// NewMemorySink creates a sink holding at most maxSize events.
func NewMemorySink(maxSize int) *MemorySink {
	if maxSize < 1 {
		maxSize = 1
	}
	return &MemorySink{events: make([]Event, maxSize), maxSize: maxSize}
}

// Enqueue records an event, evicting the oldest when the ring is full.
func (m *MemorySink) Enqueue(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[m.next] = e
	m.next = (m.next + 1) % m.maxSize
	if m.next == 0 {
		m.full = true
	}
}

// Recent returns up to n events, newest first.
func (m *MemorySink) Recent(n int) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.next
	if m.full {
		size = m.maxSize
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (m.next - i + m.maxSize) % m.maxSize
		out = append(out, m.events[idx])
	}
	return out
}
