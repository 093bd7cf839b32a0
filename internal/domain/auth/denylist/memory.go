package denylist

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// NewMemory builds an in-process denylist. Expired entries are swept in the
// background at the configured interval.
func NewMemory(cfg Config) Store {
	gc := time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		gc = cfg.Memory.GCInterval
	}

	s := &memoryStore{
		entries: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
	}
	go s.sweep(gc)
	return s
}

func (s *memoryStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if !expiresAt.After(time.Now()) {
		return nil // already expired, nothing to deny
	}
	s.mu.Lock()
	s.entries[jti] = expiresAt
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.RLock()
	expiresAt, ok := s.entries[jti]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		s.mu.Lock()
		delete(s.entries, jti)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) Close(ctx context.Context) error {
	s.once.Do(func() {
		close(s.stopCh)
	})
	return nil
}

func (s *memoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for jti, expiresAt := range s.entries {
				if now.After(expiresAt) {
					delete(s.entries, jti)
				}
			}
			s.mu.Unlock()
		}
	}
}
