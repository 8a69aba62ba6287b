package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Varun5711/deeplinks/internal/models"
)

type MemoryDeferredStore struct {
	mu      sync.Mutex
	entries map[string]*models.DeferredEntry
	now     func() time.Time
}

func NewMemoryDeferredStore() *MemoryDeferredStore {
	return &MemoryDeferredStore{
		entries: make(map[string]*models.DeferredEntry),
		now:     time.Now,
	}
}

// Put replaces any entry already stored under the same key.
func (s *MemoryDeferredStore) Put(ctx context.Context, entry *models.DeferredEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Key] = entry
	return nil
}

func (s *MemoryDeferredStore) Take(ctx context.Context, key string) (*models.DeferredEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		return nil, nil
	}

	delete(s.entries, key)
	if entry.Expired(s.now()) {
		return nil, nil
	}

	return entry, nil
}

func (s *MemoryDeferredStore) DeleteExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var deleted int64
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			deleted++
		}
	}

	return deleted, nil
}

func (s *MemoryDeferredStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryDeferredStore) Close() error {
	return nil
}
