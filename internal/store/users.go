package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type User struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Upsert creates a user record for email or refreshes the display name of an
// existing one, and returns the resulting record.
//
// TODO: ON CONFLICT ... DO UPDATE works in SQLite and PostgreSQL but NOT
// MySQL, which needs INSERT ... ON DUPLICATE KEY UPDATE.
func (s *UserStore) Upsert(ctx context.Context, email, displayName string) (*User, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, email, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			display_name = excluded.display_name,
			updated_at = excluded.updated_at
	`), id, email, displayName, now, now)
	if err != nil {
		return nil, err
	}

	return s.GetByEmail(ctx, email)
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user matching id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
