package store

import (
	"errors"
	"net/url"
	"strings"
)

// ErrURLInvalid is returned when a string is not a syntactically valid
// absolute http(s) URL.
var ErrURLInvalid = errors.New("enter a valid url")

// ValidateURL checks that raw is an absolute http or https URL with a host.
// It does NOT check uniqueness — that is handled at the database layer via
// the unique index on bookmarks.url.
func ValidateURL(raw string) error {
	if raw == "" {
		return ErrURLInvalid
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ErrURLInvalid
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return ErrURLInvalid
	}
	if u.Host == "" {
		return ErrURLInvalid
	}
	return nil
}
