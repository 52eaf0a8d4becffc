// Package token persists platform credentials in durable local storage.
//
// The store is deliberately dumb: it holds at most one access token and one
// refresh token, absence is a normal silent outcome, and read failures are
// indistinguishable from absence to callers. Presence of an access token is
// the sole local signal of "possibly authenticated" — nothing here verifies
// the token cryptographically.
package token

import (
	"context"
	"sync"
)

// Store is the credential persistence contract.
//
// Access and Refresh report absence via the bool, never an error.
// Save and ClearAll may fail, but callers are expected to log and continue —
// a broken credential file must never block navigation.
type Store interface {
	// Access returns the stored access token, if any
	Access(ctx context.Context) (string, bool)

	// Refresh returns the stored refresh token, if any
	Refresh(ctx context.Context) (string, bool)

	// Save persists both tokens, replacing whatever was stored before
	Save(ctx context.Context, access, refresh string) error

	// ClearAccess removes the access token only
	ClearAccess(ctx context.Context) error

	// ClearAll removes both tokens
	ClearAll(ctx context.Context) error
}

// MemStore is an in-memory Store for tests and ephemeral sessions.
type MemStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Access returns the stored access token, if any
func (s *MemStore) Access(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

// Refresh returns the stored refresh token, if any
func (s *MemStore) Refresh(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

// Save persists both tokens
func (s *MemStore) Save(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

// ClearAccess removes the access token only
func (s *MemStore) ClearAccess(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	return nil
}

// ClearAll removes both tokens
func (s *MemStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}
