package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bookmarkd/bookmarkd/internal/store"
)

type contextKey string

// UserContextKey is the context key under which the authenticated user is stored.
const UserContextKey contextKey = "user"

// UserFromContext returns the authenticated user, or nil if the request is
// unauthenticated.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// BearerTokenMiddleware authenticates API requests via Bearer token.
type BearerTokenMiddleware struct {
	tokens TokenStore
	users  *store.UserStore
}

func NewBearerTokenMiddleware(ts TokenStore, us *store.UserStore) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{tokens: ts, users: us}
}

// Authenticate extracts and validates a Bearer token. On success the token
// owner's *store.User lands in the request context and last_used_at is
// touched asynchronously. Missing, unknown, revoked, or expired tokens all
// get the same 401.
func (m *BearerTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			writeUnauthorized(w)
			return
		}
		plaintext := strings.TrimPrefix(authHeader, "Bearer ")
		if plaintext == "" {
			writeUnauthorized(w)
			return
		}

		hash := HashToken(plaintext)
		rec, err := m.tokens.GetByHash(r.Context(), hash)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		if rec.RevokedAt.Valid {
			writeUnauthorized(w)
			return
		}
		if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
			writeUnauthorized(w)
			return
		}

		user, err := m.users.GetByID(r.Context(), rec.UserID)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		// Async to avoid a write on every read.
		go m.tokens.UpdateLastUsed(context.Background(), rec.ID)

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeUnauthorized writes a 401 JSON response with {"error": "unauthorized"}.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
