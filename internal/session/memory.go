package session

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

// MemoryStore holds sessions for the life of the process. Each session is an
// atomically swapped pointer to an immutable Snapshot, so a reader always sees
// both fields from the same write.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*atomic.Pointer[Snapshot]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*atomic.Pointer[Snapshot])}
}

func (m *MemoryStore) slot(id string) *atomic.Pointer[Snapshot] {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.sessions[id]
	if !ok {
		p = &atomic.Pointer[Snapshot]{}
		p.Store(&Snapshot{})
		m.sessions[id] = p
	}
	return p
}

// Get never creates a session; unknown ids read as the zero Snapshot.
func (m *MemoryStore) Get(_ context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	p, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, nil
	}
	return p.Load().clone(), nil
}

func (m *MemoryStore) SetIngredients(_ context.Context, id string, names []string) error {
	m.update(id, func(s *Snapshot) { s.Ingredients = slices.Clone(names) })
	return nil
}

func (m *MemoryStore) SetDish(_ context.Context, id string, dish string) error {
	m.update(id, func(s *Snapshot) { s.Dish = dish })
	return nil
}

// update publishes a modified copy with compare-and-swap, retrying when a
// concurrent writer got there first.
func (m *MemoryStore) update(id string, fn func(*Snapshot)) {
	p := m.slot(id)
	for {
		old := p.Load()
		next := old.clone()
		fn(&next)
		if p.CompareAndSwap(old, &next) {
			return
		}
	}
}
