package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/deeplinks/internal/models"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// SQLiteStorage keeps the registry in a local SQLite file, or in a remote
// libsql (Turso) database when the URL uses the libsql:// or wss:// scheme.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(ctx context.Context, dbURL string) (*SQLiteStorage, error) {
	driverName := "sqlite"
	if strings.HasPrefix(dbURL, "libsql://") || strings.HasPrefix(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverName, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if err := migrateSQLite(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStorage{db: db}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS links (
		seq              INTEGER PRIMARY KEY AUTOINCREMENT,
		id               TEXT NOT NULL UNIQUE,
		short_code       TEXT NOT NULL UNIQUE,
		original_url     TEXT NOT NULL,
		title            TEXT NOT NULL DEFAULT '',
		description      TEXT NOT NULL DEFAULT '',
		image            TEXT NOT NULL DEFAULT '',
		ios_url          TEXT NOT NULL DEFAULT '',
		android_url      TEXT NOT NULL DEFAULT '',
		web_url          TEXT NOT NULL DEFAULT '',
		ios_fallback     TEXT NOT NULL DEFAULT '',
		android_fallback TEXT NOT NULL DEFAULT '',
		custom_params    TEXT NOT NULL DEFAULT '{}',
		created_at       INTEGER NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Save(ctx context.Context, link *models.Link) error {
	params, err := json.Marshal(paramsOrEmpty(link.CustomParams))
	if err != nil {
		return fmt.Errorf("failed to encode custom params: %w", err)
	}

	query := `INSERT INTO links (` + linkColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
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
		string(params),
		link.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("short code %s: %w", link.ShortCode, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to save link: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	return s.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE short_code = ?`, shortCode)
}

func (s *SQLiteStorage) GetByID(ctx context.Context, id string) (*models.Link, error) {
	return s.getOne(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, id)
}

func (s *SQLiteStorage) getOne(ctx context.Context, query string, arg string) (*models.Link, error) {
	link, err := scanSQLiteLink(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

func (s *SQLiteStorage) List(ctx context.Context) ([]*models.Link, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+linkColumns+` FROM links ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := make([]*models.Link, 0)
	for rows.Next() {
		link, err := scanSQLiteLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return links, nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, shortCode string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE short_code = ?`, shortCode)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("short code %s: %w", shortCode, ErrNotFound)
	}

	return nil
}

func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteLink(row rowScanner) (*models.Link, error) {
	var link models.Link
	var params string

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

	if err := decodeParams([]byte(params), &link.CustomParams); err != nil {
		return nil, err
	}

	return &link, nil
}
