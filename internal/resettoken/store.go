// Package resettoken holds short-lived password-reset tokens in an
// explicitly scoped, time-boxed store. The clock is injected so expiry is
// testable without real-time waits.
package resettoken

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	userID    string
	expiresAt time.Time
}

// Store maps opaque tokens to user ids until they expire or are consumed.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New builds a store with the given token lifetime. A nil clock falls back
// to time.Now.
func New(ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// Issue creates a fresh one-time token for the user. Expired entries are
// swept opportunistically on each call.
func (s *Store) Issue(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()

	token := uuid.NewString()
	s.entries[token] = entry{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}
	return token
}

// Consume redeems a token, deleting it whether or not it was still valid.
// The second return is false for unknown or expired tokens.
func (s *Store) Consume(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return "", false
	}
	delete(s.entries, token)

	if s.now().After(e.expiresAt) {
		return "", false
	}
	return e.userID, true
}

func (s *Store) sweep() {
	now := s.now()
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}
