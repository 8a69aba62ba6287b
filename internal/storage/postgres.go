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
	"github.com/jackc/pgx/v5/pgconn"
)

const linkColumns = `id, short_code, original_url, title, description, image,
	ios_url, android_url, web_url, ios_fallback, android_fallback, custom_params, created_at`

type PostgresStorage struct {
	db *database.DBManager
}

func NewPostgresStorage(db *database.DBManager) *PostgresStorage {
	return &PostgresStorage{
		db: db,
	}
}

func (s *PostgresStorage) Save(ctx context.Context, link *models.Link) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	params, err := json.Marshal(paramsOrEmpty(link.CustomParams))
	if err != nil {
		return fmt.Errorf("failed to encode custom params: %w", err)
	}

	query := `
		INSERT INTO links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = s.db.Write().Exec(ctx, query,
		link.ID,
		link.ShortCode,
		link.OriginalURL,
		link.Title,
		link.Description,
		link.Image,
		link.IOSURL,
		link.AndroidURL,
		link.WebURL,
		link.IOSFallback,
		link.AndroidFallback,
		params,
		link.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("short code %s: %w", link.ShortCode, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	return s.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE short_code = $1`, shortCode)
}

func (s *PostgresStorage) GetByID(ctx context.Context, id string) (*models.Link, error) {
	return s.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id)
}

func (s *PostgresStorage) getOne(ctx context.Context, query string, arg string) (*models.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	link, err := scanLink(s.db.Read().QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

func (s *PostgresStorage) List(ctx context.Context) ([]*models.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.db.Read().Query(ctx, `SELECT `+linkColumns+` FROM links ORDER BY created_at, short_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]*models.Link, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		links = append(links, link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return links, nil
}

func (s *PostgresStorage) Delete(ctx context.Context, shortCode string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmdTag, err := s.db.Write().Exec(ctx, `DELETE FROM links WHERE short_code = $1`, shortCode)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("short code %s: %w", shortCode, ErrNotFound)
	}

	return nil
}

func (s *PostgresStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.Read().QueryRow(ctx, `SELECT COUNT(*) FROM links`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return count, nil
}

// Close is a no-op; the DBManager is owned by the caller.
func (s *PostgresStorage) Close() error {
	return nil
}

func scanLink(row pgx.Row) (*models.Link, error) {
	var link models.Link
	var params []byte

	err := row.Scan(
		&link.ID,
		&link.ShortCode,
		&link.OriginalURL,
		&link.Title,
		&link.Description,
		&link.Image,
		&link.IOSURL,
		&link.AndroidURL,
		&link.WebURL,
		&link.IOSFallback,
		&link.AndroidFallback,
		&params,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeParams(params, &link.CustomParams); err != nil {
		return nil, err
	}

	return &link, nil
}

func paramsOrEmpty(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		return map[string]interface{}{}
	}
	return params
}

func decodeParams(raw []byte, dest *map[string]interface{}) error {
	if len(raw) == 0 {
		*dest = map[string]interface{}{}
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode custom params: %w", err)
	}
	return nil
}
