package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/bookmarkd/bookmarkd/internal/api"
	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/logger"
	"github.com/bookmarkd/bookmarkd/internal/store"
	"github.com/bookmarkd/bookmarkd/internal/testutil"
)

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	DB            *sqlx.DB
	Router        http.Handler
	BookmarkStore *store.BookmarkStore
	UserStore     *store.UserStore
	TokenStore    *auth.SQLTokenStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	us := store.NewUserStore(db)
	bs := store.NewBookmarkStore(db)
	ts := auth.NewSQLTokenStore(db)
	bearer := auth.NewBearerTokenMiddleware(ts, us)

	router := api.NewRouter(api.Deps{
		DB:            db,
		Logger:        logger.Nop(),
		BearerAuth:    bearer,
		BookmarkStore: bs,
		TokenStore:    ts,
	})

	return &testEnv{
		DB:            db,
		Router:        router,
		BookmarkStore: bs,
		UserStore:     us,
		TokenStore:    ts,
	}
}

// seedUser creates a user and returns the user record.
func seedUser(t *testing.T, env *testEnv, email string) *store.User {
	t.Helper()
	u, err := env.UserStore.Upsert(context.Background(), email, "Test User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedToken creates a real API token for a user and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil); err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// seedBookmark inserts a bookmark directly through the store.
func seedBookmark(t *testing.T, env *testEnv, userID, url, body string) *store.Bookmark {
	t.Helper()
	b, err := env.BookmarkStore.Create(context.Background(), userID, url, body, "abc123")
	if err != nil {
		t.Fatalf("seed bookmark %q: %v", url, err)
	}
	return b
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
