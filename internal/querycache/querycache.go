// Package querycache is a request cache keyed by query identifiers, stored
// in the local database so entries outlive a single command.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/proofhq/proof/internal/database"
	"golang.org/x/sync/singleflight"
)

// ErrMiss is returned by Get when the key has no entry.
var ErrMiss = errors.New("cache miss")

// Key joins query identifier parts, e.g. Key("space-members", id).
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

// Store is the persistence the cache needs.
type Store interface {
	GetCache(ctx context.Context, key string) ([]byte, time.Time, error)
	SetCache(ctx context.Context, key string, value []byte) error
	UpdateCache(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error
	DeleteCache(ctx context.Context, key string) error
}

// Cache stores JSON values under query keys.
type Cache struct {
	store Store
	group singleflight.Group
}

// New returns a Cache over store.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// Get decodes the entry for key into out.
func (c *Cache) Get(ctx context.Context, key string, out any) error {
	raw, _, err := c.store.GetCache(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("read cache %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode cache %s: %w", key, err)
	}
	return nil
}

// Set replaces the entry for key.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", key, err)
	}
	return c.store.SetCache(ctx, key, raw)
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.DeleteCache(ctx, key)
}

// Update applies fn to the current value of key and stores the result as
// one read-modify-write. fn sees the zero value of T when the key is absent.
func Update[T any](ctx context.Context, c *Cache, key string, fn func(T) (T, error)) error {
	return c.store.UpdateCache(ctx, key, func(old []byte) ([]byte, error) {
		var cur T
		if old != nil {
			if err := json.Unmarshal(old, &cur); err != nil {
				return nil, fmt.Errorf("decode cache %s: %w", key, err)
			}
		}
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
}

// Fetch returns the cached value for key, calling load and storing its
// result on a miss. Concurrent fetches of one key share a single load.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	err := c.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrMiss) {
		return v, err
	}
	return Refresh(ctx, c, key, load)
}

// Refresh always calls load and stores the result under key.
func Refresh[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	res, err, _ := c.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if err := c.Set(ctx, key, v); err != nil {
			return v, err
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
