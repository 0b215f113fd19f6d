package store

import (
	"context"
	"maps"
	"sync"
)

type entry struct {
	id     int64
	fields map[string]any
}

// MemoryStore keeps the collection in a slice. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []entry
	lastID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// indexOf must be called with mu held.
func (m *MemoryStore) indexOf(id int64) int {
	for i, e := range m.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

func (m *MemoryStore) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]Record, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, toRecord(e.id, e.fields))
	}
	return result, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return toRecord(id, m.entries[i].fields), nil
}

func (m *MemoryStore) Create(_ context.Context, fields map[string]any) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	e := entry{id: m.lastID, fields: withoutID(fields)}
	m.entries = append(m.entries, e)
	return toRecord(e.id, e.fields), nil
}

func (m *MemoryStore) Replace(_ context.Context, id int64, fields map[string]any) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	m.entries[i].fields = withoutID(fields)
	return toRecord(id, m.entries[i].fields), nil
}

func (m *MemoryStore) Patch(_ context.Context, id int64, fields map[string]any) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	merged := maps.Clone(m.entries[i].fields)
	maps.Copy(merged, withoutID(fields))
	m.entries[i].fields = merged
	return toRecord(id, merged), nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MemoryStore) Close() error {
	return nil
}
