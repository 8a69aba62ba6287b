package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/deeplinks/internal/database"
	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/jackc/pgx/v5"
)

type PostgresDeferredStore struct {
	db *database.DBManager
}

func NewPostgresDeferredStore(db *database.DBManager) *PostgresDeferredStore {
	return &PostgresDeferredStore{db: db}
}

func (s *PostgresDeferredStore) Put(ctx context.Context, entry *models.DeferredEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	params, err := json.Marshal(paramsOrEmpty(entry.Params))
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}

	query := `
		INSERT INTO deferred_links (key, link_id, url, params, platform, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO UPDATE SET
			link_id = EXCLUDED.link_id,
			url = EXCLUDED.url,
			params = EXCLUDED.params,
			platform = EXCLUDED.platform,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`

	_, err = s.db.Write().Exec(ctx, query,
		entry.Key,
		entry.LinkID,
		entry.URL,
		params,
		entry.Platform,
		entry.CreatedAt,
		entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save deferred entry: %w", err)
	}

	return nil
}

// Take deletes the row whatever its age, so an expired entry is cleaned up
// by the same statement that finds it.
func (s *PostgresDeferredStore) Take(ctx context.Context, key string) (*models.DeferredEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		DELETE FROM deferred_links
		WHERE key = $1
		RETURNING key, link_id, url, params, platform, created_at, expires_at
	`

	var entry models.DeferredEntry
	var params []byte
	err := s.db.Write().QueryRow(ctx, query, key).Scan(
		&entry.Key,
		&entry.LinkID,
		&entry.URL,
		&params,
		&entry.Platform,
		&entry.CreatedAt,
		&entry.ExpiresAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take deferred entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, nil
	}

	if err := decodeParams(params, &entry.Params); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *PostgresDeferredStore) DeleteExpired(ctx context.Context) (int64, error) {
	cmdTag, err := s.db.Write().Exec(ctx,
		`DELETE FROM deferred_links WHERE expires_at <= $1`,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired deferred entries: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

func (s *PostgresDeferredStore) Close() error {
	return nil
}
