package database

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS links (
	id               TEXT PRIMARY KEY,
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
	custom_params    JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at       BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at);

CREATE TABLE IF NOT EXISTS deferred_links (
	key        TEXT PRIMARY KEY,
	link_id    TEXT NOT NULL,
	url        TEXT NOT NULL,
	params     JSONB NOT NULL DEFAULT '{}'::jsonb,
	platform   TEXT NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL,
	expires_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deferred_links_expires_at ON deferred_links(expires_at);
`

// Migrate creates the tables used by the postgres link and deferred stores.
func (m *DBManager) Migrate(ctx context.Context) error {
	if _, err := m.Write().Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
