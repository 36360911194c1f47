package api

import "time"

// --- Bookmark types ---

// CreateBookmarkRequest is the request body for POST /api/v1/bookmarks.
type CreateBookmarkRequest struct {
	URL  string `json:"url"`
	Body string `json:"body,omitempty"`
}

// UpdateBookmarkRequest is the request body for PUT/PATCH /api/v1/bookmarks/{id}.
// Only url and body are mutable; other fields in the payload are ignored.
type UpdateBookmarkRequest struct {
	URL  string `json:"url"`
	Body string `json:"body,omitempty"`
}

// BookmarkResponse is the JSON representation of a single bookmark.
type BookmarkResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Body      string    `json:"body"`
	ShortURL  string    `json:"short_url"`
	Visits    int64     `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListMeta carries pagination metadata. Prev and NextPage are null when
// there is no previous or next page.
type ListMeta struct {
	Page       int   `json:"page"`
	Pages      int   `json:"pages"`
	TotalCount int64 `json:"total_count"`
	Prev       *int  `json:"prev"`
	NextPage   *int  `json:"next_page"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// BookmarkListResponse is the paginated response for GET /api/v1/bookmarks.
type BookmarkListResponse struct {
	Data []BookmarkResponse `json:"data"`
	Meta ListMeta           `json:"meta"`
}

// BookmarkStats is one entry in the stats response.
type BookmarkStats struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	ShortURL string `json:"short_url"`
	Visits   int64  `json:"visits"`
}

// BookmarkStatsResponse is the response for GET /api/v1/bookmarks/stats.
type BookmarkStatsResponse struct {
	Data []BookmarkStats `json:"data"`
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
// ExpiresIn is an optional Go duration string (e.g. "720h").
type CreateTokenRequest struct {
	Name      string `json:"name"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

// TokenResponse is the JSON representation of an API token.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenCreatedResponse carries the plaintext token, shown exactly once.
type TokenCreatedResponse struct {
	TokenResponse
	Token string `json:"token"`
}

// TokenListResponse is the response for GET /api/v1/tokens.
type TokenListResponse struct {
	Tokens []*TokenResponse `json:"tokens"`
}
