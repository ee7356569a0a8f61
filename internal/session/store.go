package session

import (
	"context"
	"errors"
	"sync"

	"github.com/proofhq/proof/internal/database"
)

// DBStore adapts the local SQLite repository to Store.
type DBStore struct {
	Repo *database.Repository
}

func (d DBStore) Get(ctx context.Context, key string) (string, error) {
	v, err := d.Repo.GetItem(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

func (d DBStore) Set(ctx context.Context, key, value string) error {
	return d.Repo.SetItem(ctx, key, value)
}

func (d DBStore) SetAll(ctx context.Context, items map[string]string) error {
	return d.Repo.SetItems(ctx, items)
}

func (d DBStore) Remove(ctx context.Context, keys ...string) error {
	return d.Repo.RemoveItems(ctx, keys...)
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) SetAll(_ context.Context, items map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range items {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
