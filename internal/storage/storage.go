package storage

import (
	"context"
	"errors"

	"github.com/Varun5711/deeplinks/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("short code already exists")
)

// Storage is the link registry. Lookups return (nil, nil) when nothing
// matches; Save reports ErrAlreadyExists instead of overwriting.
type Storage interface {
	Save(ctx context.Context, link *models.Link) error
	GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	GetByID(ctx context.Context, id string) (*models.Link, error)
	List(ctx context.Context) ([]*models.Link, error)
	Delete(ctx context.Context, shortCode string) error
	Count(ctx context.Context) (int64, error)
	Close() error
}

// DeferredStore holds single-use deferred deep link entries. Take removes
// the entry it returns, and never returns an entry past its ExpiresAt.
type DeferredStore interface {
	Put(ctx context.Context, entry *models.DeferredEntry) error
	Take(ctx context.Context, key string) (*models.DeferredEntry, error)
	DeleteExpired(ctx context.Context) (int64, error)
	Close() error
}
