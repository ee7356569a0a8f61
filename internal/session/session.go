// Package session holds the credentials and small client-side values that
// the web client kept in browser local storage. A Session is opened once at
// application start and handed to every component that talks to the API.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Fixed storage keys
const (
	KeyAccessToken    = "access_token"
	KeyRefreshToken   = "refresh_token"
	KeyUserID         = "x-user-id"
	KeyBaselineMood   = "baseline_mood"
	KeySelectedJob    = "selected_job"
	KeyRecommendedJob = "recommended_job"
	KeyCurrentSpaceID = "current-space-id"
)

var credentialKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUserID}

// ErrNotFound is returned by a Store for a missing key.
var ErrNotFound = errors.New("session: key not found")

// Store persists session values. database.Repository satisfies it through
// the adapter in store.go.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetAll(ctx context.Context, items map[string]string) error
	Remove(ctx context.Context, keys ...string) error
}

// Credentials are the values issued by a successful login or registration.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// Session is an in-memory view over a Store. It is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	store  Store
	values map[string]string
	closed bool
}

// Open loads every known key from store.
func Open(ctx context.Context, store Store) (*Session, error) {
	s := &Session{store: store, values: make(map[string]string)}
	keys := append(append([]string{}, credentialKeys...),
		KeyBaselineMood, KeySelectedJob, KeyRecommendedJob, KeyCurrentSpaceID)
	for _, k := range keys {
		v, err := store.Get(ctx, k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", k, err)
		}
		s.values[k] = v
	}
	return s, nil
}

// Close detaches the session from its store. Later writes fail.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Get returns the value stored under key, or "" if unset.
func (s *Session) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *Session) AccessToken() string  { return s.Get(KeyAccessToken) }
func (s *Session) RefreshToken() string { return s.Get(KeyRefreshToken) }
func (s *Session) UserID() string       { return s.Get(KeyUserID) }

// LoggedIn reports whether an access token is present.
func (s *Session) LoggedIn() bool {
	return s.AccessToken() != ""
}

// Set persists one value, then updates the in-memory copy.
func (s *Session) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("session closed")
	}
	if err := s.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	s.values[key] = value
	return nil
}

// SetAccessToken replaces the access token after a refresh.
func (s *Session) SetAccessToken(ctx context.Context, token string) error {
	return s.Set(ctx, KeyAccessToken, token)
}

// SaveCredentials persists all three credential values in one write.
// It returns only after the store has accepted them.
func (s *Session) SaveCredentials(ctx context.Context, c Credentials) error {
	items := map[string]string{
		KeyAccessToken:  c.AccessToken,
		KeyRefreshToken: c.RefreshToken,
		KeyUserID:       c.UserID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("session closed")
	}
	if err := s.store.SetAll(ctx, items); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	for k, v := range items {
		s.values[k] = v
	}
	return nil
}

// Clear removes the credentials, leaving preferences such as the baseline
// mood in place.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Remove(ctx, credentialKeys...); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	for _, k := range credentialKeys {
		delete(s.values, k)
	}
	return nil
}
