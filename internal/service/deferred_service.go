package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/deeplinks/internal/fingerprint"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/Varun5711/deeplinks/internal/storage"
)

// DeferredService remembers a visitor's destination across the app-store
// round trip. Keys are either link ids (link_<code>), which resolve the
// durable record and can be read repeatedly, or request fingerprints, which
// are consumed on first read.
type DeferredService struct {
	store storage.DeferredStore
	links *LinkService
	ttl   time.Duration
	log   *logger.Logger
	now   func() time.Time
}

func NewDeferredService(store storage.DeferredStore, links *LinkService, ttl time.Duration) *DeferredService {
	return &DeferredService{
		store: store,
		links: links,
		ttl:   ttl,
		log:   logger.New("deferred-service"),
		now:   time.Now,
	}
}

// Record stores the deep-link payload for link under key until the TTL
// elapses. A later visit from the same fingerprint replaces it.
func (s *DeferredService) Record(ctx context.Context, key string, link *models.Link, params map[string]interface{}, platform string) (*models.DeferredEntry, error) {
	now := s.now()

	entry := &models.DeferredEntry{
		Key:       key,
		LinkID:    link.ID,
		URL:       link.OriginalURL,
		Params:    params,
		Platform:  platform,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(s.ttl).UnixMilli(),
	}

	if err := s.store.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store deferred entry: %w", err)
	}

	s.log.Debug("Stored deferred link for %s under %s", link.ShortCode, key)
	return entry, nil
}

func (s *DeferredService) Lookup(ctx context.Context, key string) (*models.DeferredResponse, error) {
	if strings.HasPrefix(key, models.LinkIDPrefix) {
		return s.lookupByLinkID(ctx, key)
	}
	if !fingerprint.IsFingerprint(key) {
		return nil, ErrDeferredNotFound
	}

	entry, err := s.store.Take(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read deferred entry: %w", err)
	}
	if entry == nil {
		return nil, ErrDeferredNotFound
	}

	resp := &models.DeferredResponse{
		Found:     true,
		URL:       entry.URL,
		Params:    entry.Params,
		LinkID:    entry.LinkID,
		Platform:  entry.Platform,
		CreatedAt: entry.CreatedAt,
	}

	// The link may have been deleted since the visit; the entry stands alone.
	if link, err := s.links.GetByID(ctx, entry.LinkID); err == nil {
		resp.Title = link.Title
		resp.Description = link.Description
	}

	return resp, nil
}

func (s *DeferredService) lookupByLinkID(ctx context.Context, linkID string) (*models.DeferredResponse, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	return &models.DeferredResponse{
		Found:       true,
		URL:         link.OriginalURL,
		Params:      link.CustomParams,
		LinkID:      link.ID,
		Title:       link.Title,
		Description: link.Description,
		CreatedAt:   link.CreatedAt,
	}, nil
}

// Purge drops expired entries from backends that do not expire on their own.
func (s *DeferredService) Purge(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge deferred entries: %w", err)
	}
	return deleted, nil
}

// RunPurger calls Purge every interval until ctx is cancelled.
func (s *DeferredService) RunPurger(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.Purge(ctx)
			if err != nil {
				s.log.Error("Deferred purge failed: %v", err)
				continue
			}
			if deleted > 0 {
				s.log.Info("Purged %d expired deferred entries", deleted)
			}
		}
	}
}
