package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Bookmark represents a row in the bookmarks table.
type Bookmark struct {
	ID        int64     `db:"id"`
	URL       string    `db:"url"`
	Body      string    `db:"body"`
	ShortURL  string    `db:"short_url"`
	Visits    int64     `db:"visits"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BookmarkStoreIface exposes all bookmark data operations.
// No handler may query the DB directly; all access goes through this interface.
type BookmarkStoreIface interface {
	Create(ctx context.Context, userID, url, body, shortURL string) (*Bookmark, error)
	GetByURL(ctx context.Context, url string) (*Bookmark, error)
	GetByOwnerAndID(ctx context.Context, userID string, id int64) (*Bookmark, error)
	ListByOwnerPage(ctx context.Context, userID string, offset, limit int) ([]*Bookmark, error)
	CountByOwner(ctx context.Context, userID string) (int64, error)
	ListByOwner(ctx context.Context, userID string) ([]*Bookmark, error)
	Update(ctx context.Context, userID string, id int64, url, body string) (*Bookmark, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// BookmarkStore is the sqlx-backed implementation of BookmarkStoreIface.
type BookmarkStore struct {
	db *sqlx.DB
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *BookmarkStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new bookmark owned by userID with zero visits. The unique
// index on url turns concurrent duplicate inserts into ErrURLTaken, so the
// caller's pre-check does not need to be race-free.
func (s *BookmarkStore) Create(ctx context.Context, userID, url, body, shortURL string) (*Bookmark, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO bookmarks (url, body, short_url, visits, user_id, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?)
	`), url, body, shortURL, userID, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrURLTaken
		}
		return nil, err
	}

	// url is globally unique, so reloading by url is driver-portable where
	// LastInsertId is not (PostgreSQL).
	return s.GetByURL(ctx, url)
}

// GetByURL returns the bookmark with the given url, any owner, or ErrNotFound.
func (s *BookmarkStore) GetByURL(ctx context.Context, url string) (*Bookmark, error) {
	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.q(`SELECT * FROM bookmarks WHERE url = ?`), url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByOwnerAndID returns the bookmark matching both id and owner, or
// ErrNotFound. A single combined filter keeps unowned ids indistinguishable
// from missing ones.
func (s *BookmarkStore) GetByOwnerAndID(ctx context.Context, userID string, id int64) (*Bookmark, error) {
	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.q(`
		SELECT * FROM bookmarks WHERE id = ? AND user_id = ?
	`), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByOwnerPage returns one page of the owner's bookmarks in insertion order.
func (s *BookmarkStore) ListByOwnerPage(ctx context.Context, userID string, offset, limit int) ([]*Bookmark, error) {
	bookmarks := []*Bookmark{}
	err := s.db.SelectContext(ctx, &bookmarks, s.q(`
		SELECT * FROM bookmarks WHERE user_id = ? ORDER BY id ASC LIMIT ? OFFSET ?
	`), userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// CountByOwner returns the total number of bookmarks owned by userID.
func (s *BookmarkStore) CountByOwner(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`), userID)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListByOwner returns all of the owner's bookmarks in insertion order, unpaginated.
func (s *BookmarkStore) ListByOwner(ctx context.Context, userID string) ([]*Bookmark, error) {
	bookmarks := []*Bookmark{}
	err := s.db.SelectContext(ctx, &bookmarks, s.q(`
		SELECT * FROM bookmarks WHERE user_id = ? ORDER BY id ASC
	`), userID)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// Update mutates url and body of an owned bookmark and refreshes updated_at.
// short_url, visits, user_id, and created_at are never touched. Returns
// ErrNotFound when no owned row matches, ErrURLTaken when the new url
// collides with another bookmark.
func (s *BookmarkStore) Update(ctx context.Context, userID string, id int64, url, body string) (*Bookmark, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE bookmarks SET url = ?, body = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`), url, body, now, id, userID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrURLTaken
		}
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetByOwnerAndID(ctx, userID, id)
}

// Delete removes an owned bookmark permanently. Returns ErrNotFound when no
// owned row matches.
func (s *BookmarkStore) Delete(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM bookmarks WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
