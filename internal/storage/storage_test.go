package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Varun5711/deeplinks/internal/models"
)

func newTestLink(shortCode string, createdAt int64) *models.Link {
	return &models.Link{
		ID:              models.LinkID(shortCode),
		ShortCode:       shortCode,
		OriginalURL:     "https://example.com/" + shortCode,
		Title:           "Title " + shortCode,
		IOSURL:          "myapp://open/",
		AndroidURL:      "myapp://open/",
		WebURL:          "https://example.com/" + shortCode,
		IOSFallback:     "https://apps.apple.com/app/id1",
		AndroidFallback: "https://play.google.com/store/apps/details?id=x",
		CustomParams:    map[string]interface{}{"ref": "campaign"},
		CreatedAt:       createdAt,
	}
}

// runStorageSuite exercises the contract every Storage implementation must
// honour.
func runStorageSuite(t *testing.T, s Storage) {
	ctx := context.Background()
	base := time.Now().UnixMilli()

	t.Run("save and get", func(t *testing.T) {
		link := newTestLink("abc123", base)
		if err := s.Save(ctx, link); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := s.GetByShortCode(ctx, "abc123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected link to be found")
		}
		if got.OriginalURL != link.OriginalURL {
			t.Errorf("expected %s, got %s", link.OriginalURL, got.OriginalURL)
		}
		if got.CustomParams["ref"] != "campaign" {
			t.Errorf("expected custom param to survive, got %v", got.CustomParams)
		}
		if got.CreatedAt != base {
			t.Errorf("expected createdAt %d, got %d", base, got.CreatedAt)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetByID(ctx, "link_abc123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.ShortCode != "abc123" {
			t.Errorf("expected link abc123, got %+v", got)
		}
	})

	t.Run("duplicate short code", func(t *testing.T) {
		err := s.Save(ctx, newTestLink("abc123", base+1))
		if !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		got, err := s.GetByShortCode(ctx, "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}

		got, err = s.GetByID(ctx, "link_missing")
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("list keeps creation order", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			if err := s.Save(ctx, newTestLink(fmt.Sprintf("code%d", i), base+int64(i))); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		links, err := s.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"abc123", "code1", "code2", "code3"}
		if len(links) != len(want) {
			t.Fatalf("expected %d links, got %d", len(want), len(links))
		}
		for i, code := range want {
			if links[i].ShortCode != code {
				t.Errorf("position %d: expected %s, got %s", i, code, links[i].ShortCode)
			}
		}

		count, err := s.Count(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 4 {
			t.Errorf("expected count 4, got %d", count)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "code2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, _ := s.GetByShortCode(ctx, "code2")
		if got != nil {
			t.Error("expected code2 to be deleted")
		}

		if err := s.Delete(ctx, "code2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		links, _ := s.List(ctx)
		if len(links) != 3 {
			t.Errorf("expected 3 links after delete, got %d", len(links))
		}
	})
}

// runDeferredSuite exercises the DeferredStore contract.
func runDeferredSuite(t *testing.T, s DeferredStore) {
	ctx := context.Background()
	now := time.Now()

	newEntry := func(key string, expiresAt time.Time) *models.DeferredEntry {
		return &models.DeferredEntry{
			Key:       key,
			LinkID:    "link_abc123",
			URL:       "https://example.com",
			Params:    map[string]interface{}{"ref": "x"},
			Platform:  "ios",
			CreatedAt: now.UnixMilli(),
			ExpiresAt: expiresAt.UnixMilli(),
		}
	}

	t.Run("take is single use", func(t *testing.T) {
		if err := s.Put(ctx, newEntry("fp-single", now.Add(time.Hour))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := s.Take(ctx, "fp-single")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected entry on first take")
		}
		if got.URL != "https://example.com" || got.LinkID != "link_abc123" {
			t.Errorf("unexpected entry: %+v", got)
		}
		if got.Params["ref"] != "x" {
			t.Errorf("expected params to survive, got %v", got.Params)
		}

		got, err = s.Take(ctx, "fp-single")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil on second take, got %+v", got)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		got, err := s.Take(ctx, "fp-unknown")
		if err != nil || got != nil {
			t.Errorf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		first := newEntry("fp-overwrite", now.Add(time.Hour))
		second := newEntry("fp-overwrite", now.Add(time.Hour))
		second.URL = "https://example.com/second"

		_ = s.Put(ctx, first)
		_ = s.Put(ctx, second)

		got, err := s.Take(ctx, "fp-overwrite")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.URL != "https://example.com/second" {
			t.Errorf("expected latest entry, got %+v", got)
		}
	})
}
