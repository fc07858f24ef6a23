package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
)

var errMock = errors.New("mock error")

const testURL = "http://example.com/page"

// mockStore wraps a MemoryStore and can be configured to fail any operation.
type mockStore struct {
	*store.MemoryStore

	findErr      error
	insertErr    error
	incrementErr error
	updateErr    error
}

func newMockStore() *mockStore {
	return &mockStore{MemoryStore: store.NewMemoryStore()}
}

func (m *mockStore) FindByHash(ctx context.Context, hash shortener.Hash) (*shortener.Record, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}

	return m.MemoryStore.FindByHash(ctx, hash)
}

func (m *mockStore) Insert(ctx context.Context, rec *shortener.Record) error {
	if m.insertErr != nil {
		return m.insertErr
	}

	return m.MemoryStore.Insert(ctx, rec)
}

func (m *mockStore) IncrementVisitCounter(ctx context.Context, hash shortener.Hash) (*shortener.Record, error) {
	if m.incrementErr != nil {
		return nil, m.incrementErr
	}

	return m.MemoryStore.IncrementVisitCounter(ctx, hash)
}

func (m *mockStore) UpdateActiveState(
	ctx context.Context, hash shortener.Hash, change shortener.StateChange,
) (*shortener.Record, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}

	return m.MemoryStore.UpdateActiveState(ctx, hash, change)
}

// collidingHasher maps every URL to the same hash.
type collidingHasher struct{}

func (collidingHasher) Hash(_ context.Context, rawURL string) (shortener.Hash, error) {
	if err := shortener.ValidateURL(rawURL); err != nil {
		return "", err
	}

	return "same", nil
}
