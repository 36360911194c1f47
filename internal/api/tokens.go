package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/metrics"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// tokensAPIHandler provides REST handlers for API token management.
type tokensAPIHandler struct {
	tokens auth.TokenStore
}

// registerTokenRoutes registers token management routes on r.
func registerTokenRoutes(r chi.Router, tokens auth.TokenStore) {
	h := &tokensAPIHandler{tokens: tokens}
	r.Get("/tokens", h.List)
	r.Post("/tokens", h.Create)
	r.Delete("/tokens/{id}", h.Revoke)
}

// List returns the caller's tokens. Hashes are never returned.
// GET /api/v1/tokens
func (h *tokensAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	records, err := h.tokens.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := &TokenListResponse{Tokens: make([]*TokenResponse, 0, len(records))}
	for _, rec := range records {
		if rec.RevokedAt.Valid {
			continue
		}
		resp.Tokens = append(resp.Tokens, toTokenResponse(rec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create generates a new token and returns the plaintext once.
// POST /api/v1/tokens
func (h *tokensAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresIn != "" {
		d, err := time.ParseDuration(req.ExpiresIn)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "expires_in must be a positive duration", "BAD_REQUEST")
			return
		}
		t := time.Now().UTC().Add(d)
		expiresAt = &t
	}

	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed", "INTERNAL_ERROR")
		return
	}

	rec, err := h.tokens.Create(r.Context(), user.ID, req.Name, hash, expiresAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token creation failed", "INTERNAL_ERROR")
		return
	}

	metrics.TokensIssuedTotal.Inc()
	writeJSON(w, http.StatusCreated, TokenCreatedResponse{
		TokenResponse: *toTokenResponse(rec),
		Token:         plaintext,
	})
}

// Revoke soft-deletes a token owned by the caller. Other users' tokens are a 404.
// DELETE /api/v1/tokens/{id}
func (h *tokensAPIHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	tokenID := chi.URLParam(r, "id")
	err := h.tokens.Revoke(r.Context(), tokenID, user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "revoke failed", "INTERNAL_ERROR")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTokenResponse(rec *auth.TokenRecord) *TokenResponse {
	item := &TokenResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
	}
	if rec.LastUsedAt.Valid {
		t := rec.LastUsedAt.Time
		item.LastUsedAt = &t
	}
	if rec.ExpiresAt.Valid {
		t := rec.ExpiresAt.Time
		item.ExpiresAt = &t
	}
	return item
}
