package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested record does not exist or is
	// not owned by the requesting user. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrURLTaken is returned when a bookmark URL already exists in the
	// store, regardless of which user owns it.
	ErrURLTaken = errors.New("url already exists")
)

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
