package cache

import (
	"context"
	"sync"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
)

const cleanupInterval = 5 * time.Minute

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

// InMemoryIdempotencyStore tracks processed event IDs in a map. It
// covers single-instance deployments and tests; multi-instance setups
// use the Redis-backed store so duplicates are caught across replicas.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	seen      map[string]time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts a sweeper
// goroutine that drops expired entries. Call Close to stop it.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		seen: make(map[string]time.Time),
		stop: make(chan struct{}),
	}
	store.wg.Add(1)
	go store.sweepLoop()
	return store
}

// MarkProcessed records the event ID for ttl. It returns true when
// the ID was newly recorded and false when a live entry already
// existed, meaning the event is a duplicate.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.seen[eventID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.seen[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether a live entry exists for the event ID.
// Expired entries count as not processed.
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.seen[eventID]
	return exists && time.Now().Before(expiresAt), nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.seen {
		if now.After(expiresAt) {
			delete(s.seen, eventID)
		}
	}
}

// Size reports the number of tracked entries, expired ones included.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
