// Package notify carries the advisory "something changed" signal list views
// poll to know when to refetch. Each list key maps to a monotonic tick
// counter; a successful order transition bumps the counters of every
// affected list, and clients compare ticks against the value they saw at
// their last fetch. Delivery is pull-based and eventual, never guaranteed
// push.
package notify

import (
	"context"
	"sync"
)

// Signal is the notification collaborator: write side invalidates list
// keys, read side reports their current ticks. Keys are opaque strings;
// the orders package decides how they are derived per role.
type Signal interface {
	Invalidate(ctx context.Context, keys ...string) error
	Ticks(ctx context.Context, keys ...string) (map[string]int64, error)
}

// MemorySignal is the in-process implementation, used by tests and
// single-node deployments.
type MemorySignal struct {
	mu    sync.Mutex
	ticks map[string]int64
}

func NewMemorySignal() *MemorySignal {
	return &MemorySignal{ticks: make(map[string]int64)}
}

func (s *MemorySignal) Invalidate(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.ticks[key]++
	}
	return nil
}

func (s *MemorySignal) Ticks(_ context.Context, keys ...string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]int64, len(keys))
	for _, key := range keys {
		result[key] = s.ticks[key]
	}
	return result, nil
}
