package store

import (
	"context"
	"sync"

	"github.com/serroba/shortlink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[shortener.Hash]shortener.Record
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[shortener.Hash]shortener.Record),
	}
}

func (m *MemoryStore) FindByHash(_ context.Context, hash shortener.Hash) (*shortener.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &rec, nil
}

func (m *MemoryStore) Insert(_ context.Context, rec *shortener.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[rec.Hash]; ok {
		return shortener.ErrConflict
	}

	m.records[rec.Hash] = *rec

	return nil
}

func (m *MemoryStore) IncrementVisitCounter(_ context.Context, hash shortener.Hash) (*shortener.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[hash]
	if !ok || !rec.Active {
		return nil, shortener.ErrNotFound
	}

	rec.VisitCounter++
	m.records[hash] = rec

	return &rec, nil
}

func (m *MemoryStore) UpdateActiveState(
	_ context.Context, hash shortener.Hash, change shortener.StateChange,
) (*shortener.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	if change.Active && rec.Active {
		return nil, shortener.ErrAlreadyActive
	}

	change.Apply(&rec)
	m.records[hash] = rec

	return &rec, nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
