package session

import (
	"context"
	"sync"
)

// Store is a pluggable persistence layer for the client session.
// The in-memory default is fine for tests; use the file store to survive restarts.
type Store interface {
	// Get reads all entries; missing entries are returned empty, not as an error.
	Get(ctx context.Context) (*Session, error)
	// Set writes the selected fields of session, or all fields when none are given.
	// Writing an empty value removes the entry.
	Set(ctx context.Context, session *Session, fields ...Field) error
	// Clear removes all entries. It is idempotent.
	Clear(ctx context.Context) error
	// IsAuthenticated reports whether an access token is present.
	IsAuthenticated(ctx context.Context) (bool, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[Field]string
}

func (m *memoryStore) Get(_ context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := &Session{}
	for field, value := range m.entries {
		ret.setValue(field, value)
	}
	return ret, nil
}

func (m *memoryStore) Set(_ context.Context, session *Session, fields ...Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(fields) == 0 {
		fields = Fields
	}
	for _, field := range fields {
		if value := session.Value(field); value != "" {
			m.entries[field] = value
			continue
		}
		delete(m.entries, field)
	}
	return nil
}

func (m *memoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[Field]string{}
	return nil
}

func (m *memoryStore) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := m.Get(ctx)
	if err != nil {
		return false, err
	}
	return session.IsAuthenticated(), nil
}

// NewMemoryStore creates an in-memory store, optionally seeded with session.
func NewMemoryStore(seed ...*Session) Store {
	ret := &memoryStore{entries: map[Field]string{}}
	for _, s := range seed {
		_ = ret.Set(context.Background(), s)
	}
	return ret
}
