package migrations

// This Go migration replaces an SQL version because the autoincrement primary
// key syntax differs by database driver (INTEGER PRIMARY KEY for SQLite,
// BIGSERIAL for PostgreSQL, BIGINT AUTO_INCREMENT for MySQL).

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookmarks, downCreateBookmarks)
}

func upCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE bookmarks (
    id         BIGSERIAL PRIMARY KEY,
    url        TEXT NOT NULL UNIQUE,
    body       TEXT NOT NULL DEFAULT '',
    short_url  TEXT NOT NULL,
    visits     BIGINT NOT NULL DEFAULT 0,
    user_id    TEXT NOT NULL REFERENCES users (id),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE bookmarks (
    id         BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    url        VARCHAR(2048) NOT NULL,
    body       TEXT NOT NULL,
    short_url  VARCHAR(32) NOT NULL,
    visits     BIGINT NOT NULL DEFAULT 0,
    user_id    VARCHAR(36) NOT NULL,
    created_at TIMESTAMP(6) NOT NULL,
    updated_at TIMESTAMP(6) NOT NULL,
    UNIQUE KEY bookmarks_url_uniq (url(500))
)`
	default: // sqlite3
		ddl = `CREATE TABLE bookmarks (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    url        TEXT NOT NULL UNIQUE,
    body       TEXT NOT NULL DEFAULT '',
    short_url  TEXT NOT NULL,
    visits     INTEGER NOT NULL DEFAULT 0,
    user_id    TEXT NOT NULL REFERENCES users (id),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX bookmarks_user_id_idx ON bookmarks (user_id)`)
	return err
}

func downCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE bookmarks`)
	return err
}
