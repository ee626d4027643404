package resettoken

import (
	"testing"
	"time"
)

func TestConsumeReturnsUserOnce(t *testing.T) {
	store := New(15*time.Minute, nil)

	token := store.Issue("user-1")
	if token == "" {
		t.Fatal("expected a token")
	}

	userID, ok := store.Consume(token)
	if !ok || userID != "user-1" {
		t.Fatalf("expected user-1, got %q ok=%v", userID, ok)
	}

	if _, ok := store.Consume(token); ok {
		t.Fatal("token must be single-use")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }
	store := New(15*time.Minute, clock)

	token := store.Issue("user-1")

	current = current.Add(16 * time.Minute)
	if _, ok := store.Consume(token); ok {
		t.Fatal("expired token must be rejected")
	}
}

func TestIssueSweepsExpiredEntries(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }
	store := New(15*time.Minute, clock)

	stale := store.Issue("user-1")
	current = current.Add(time.Hour)
	store.Issue("user-2")

	if len(store.entries) != 1 {
		t.Fatalf("expected stale entry swept, %d entries remain", len(store.entries))
	}
	if _, ok := store.entries[stale]; ok {
		t.Fatal("stale token should have been removed")
	}
}

func TestUnknownTokenRejected(t *testing.T) {
	store := New(15*time.Minute, nil)
	if _, ok := store.Consume("not-a-token"); ok {
		t.Fatal("unknown token must be rejected")
	}
}
