package scrollstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	v       Offset
	expires time.Time
}

// Memory is a process-local Store.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]memoryEntry
}

// NewMemory returns an empty in-memory store. A zero ttl never expires values.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, data: make(map[string]memoryEntry)}
}

func (m *Memory) Take(_ context.Context, key string) (Offset, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	delete(m.data, key)
	if !e.expires.IsZero() && m.now().After(e.expires) {
		return 0, false, nil
	}
	return e.v, true, nil
}

func (m *Memory) Put(_ context.Context, key string, v Offset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{v: v}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.data[key] = e
	return nil
}

// Len returns the number of stored values, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
