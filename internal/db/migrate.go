package db

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/bookmarkd/bookmarkd/internal/db/migrations"
)

//go:embed migrations
var Migrations embed.FS

// Migrate runs all pending goose migrations from the embedded migration files.
// It must be called before the HTTP server starts accepting requests.
func Migrate(db *sqlx.DB, driver string) error {
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	migrations.SetDialect(driver)

	sub, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("sub migrations fs: %w", err)
	}

	goose.SetBaseFS(sub)
	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	goose.SetBaseFS(nil)

	return nil
}
