package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Varun5711/deeplinks/internal/models"
)

type MemoryStorage struct {
	mu    sync.RWMutex
	links map[string]*models.Link
	byID  map[string]string
	order []string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		links: make(map[string]*models.Link),
		byID:  make(map[string]string),
	}
}

func (s *MemoryStorage) Save(ctx context.Context, link *models.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.ShortCode]; exists {
		return fmt.Errorf("short code %s: %w", link.ShortCode, ErrAlreadyExists)
	}

	s.links[link.ShortCode] = link
	s.byID[link.ID] = link.ShortCode
	s.order = append(s.order, link.ShortCode)
	return nil
}

func (s *MemoryStorage) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, exists := s.links[shortCode]
	if !exists {
		return nil, nil
	}

	return link, nil
}

func (s *MemoryStorage) GetByID(ctx context.Context, id string) (*models.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shortCode, exists := s.byID[id]
	if !exists {
		return nil, nil
	}

	return s.links[shortCode], nil
}

// List returns links in insertion order.
func (s *MemoryStorage) List(ctx context.Context) ([]*models.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := make([]*models.Link, 0, len(s.order))
	for _, shortCode := range s.order {
		links = append(links, s.links[shortCode])
	}

	return links, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, shortCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, exists := s.links[shortCode]
	if !exists {
		return fmt.Errorf("short code %s: %w", shortCode, ErrNotFound)
	}

	delete(s.links, shortCode)
	delete(s.byID, link.ID)
	for i, code := range s.order {
		if code == shortCode {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.links)), nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
