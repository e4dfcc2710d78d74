// Package storage provides the durable backing tiers for the scheduler
// document. The store treats persisted data as an opaque blob: a tier
// only needs to load, save, and clear a single byte payload.
package storage

import (
	"context"
	"sync"
)

// BackingStore is the durable blob contract. Load returns nil bytes and
// nil error when nothing has been saved yet.
type BackingStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore keeps the blob in process memory. Used in tests and as a
// last-resort tier when no durable mechanism is available.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStore) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
