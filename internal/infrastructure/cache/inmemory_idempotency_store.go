package cache

import (
	"context"
	"sync"
	"time"

	"github.com/growops/backend/internal/domain/shared"
)

const idempotencyCleanupInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps processed event IDs in a map with
// per-entry expiry. It only deduplicates within one process, so it is
// the fallback for single-instance deployments and tests; multi-
// instance deployments use the Redis store.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	expiry    map[string]time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its expiry
// sweep goroutine
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		expiry: make(map[string]time.Time),
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// MarkProcessed records an event ID with a TTL. It reports true when
// the ID was not seen before (or its previous record expired).
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, exists := s.expiry[eventID]; exists && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.expiry[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether an unexpired record exists for eventID
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.expiry[eventID]
	return exists && time.Now().Before(expiresAt), nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(idempotencyCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *InMemoryIdempotencyStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.expiry {
		if now.After(expiresAt) {
			delete(s.expiry, eventID)
		}
	}
}

// Size returns the number of records, expired ones included
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expiry)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
