package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bookmarkd/bookmarkd/internal/api"
)

func TestTokens_List_OK(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	req := authRequest(httptest.NewRequest("GET", "/api/v1/tokens", nil), token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp api.TokenListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Tokens) != 1 {
		t.Fatalf("len(tokens) = %d, want 1", len(resp.Tokens))
	}
	if resp.Tokens[0].Name != "test-token" {
		t.Errorf("name = %q, want %q", resp.Tokens[0].Name, "test-token")
	}
}

func TestTokens_List_OwnedOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com")
	bob := seedUser(t, env, "bob@example.com")
	aliceToken := seedToken(t, env, alice.ID)
	seedToken(t, env, bob.ID)

	req := authRequest(httptest.NewRequest("GET", "/api/v1/tokens", nil), aliceToken)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	var resp api.TokenListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Tokens) != 1 {
		t.Fatalf("len(tokens) = %d, want only alice's token", len(resp.Tokens))
	}
}

func TestTokens_Create_Created(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	body := strings.NewReader(`{"name": "ci-deploy"}`)
	req := authRequest(httptest.NewRequest("POST", "/api/v1/tokens", body), token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var resp api.TokenCreatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Name != "ci-deploy" {
		t.Errorf("name = %q, want %q", resp.Name, "ci-deploy")
	}
	if !strings.HasPrefix(resp.Token, "bm_") {
		t.Errorf("token %q missing bm_ prefix", resp.Token)
	}

	// The freshly minted token must authenticate.
	req = authRequest(httptest.NewRequest("GET", "/api/v1/tokens", nil), resp.Token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("new token auth status = %d, want 200", rec.Code)
	}
}

func TestTokens_Create_WithExpiry(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	body := strings.NewReader(`{"name": "short-lived", "expires_in": "24h"}`)
	req := authRequest(httptest.NewRequest("POST", "/api/v1/tokens", body), token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.TokenCreatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ExpiresAt == nil {
		t.Error("expires_at = nil, want a timestamp")
	}
}

func TestTokens_Create_MissingName(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	body := strings.NewReader(`{}`)
	req := authRequest(httptest.NewRequest("POST", "/api/v1/tokens", body), token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTokens_Create_BadExpiry(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	for _, expiresIn := range []string{"yesterday", "-1h", "0s"} {
		body := strings.NewReader(`{"name": "bad", "expires_in": "` + expiresIn + `"}`)
		req := authRequest(httptest.NewRequest("POST", "/api/v1/tokens", body), token)
		rec := httptest.NewRecorder()
		env.Router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expires_in %q: status = %d, want 400", expiresIn, rec.Code)
		}
	}
}

func TestTokens_Revoke_NoContent(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	// Mint a second token through the API, then revoke it.
	body := strings.NewReader(`{"name": "doomed"}`)
	req := authRequest(httptest.NewRequest("POST", "/api/v1/tokens", body), token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	var created api.TokenCreatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	req = authRequest(httptest.NewRequest("DELETE", "/api/v1/tokens/"+created.ID, nil), token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("revoke status = %d, want 204; body: %s", rec.Code, rec.Body.String())
	}

	// Revoked token no longer authenticates.
	req = authRequest(httptest.NewRequest("GET", "/api/v1/tokens", nil), created.Token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token auth status = %d, want 401", rec.Code)
	}

	// And it no longer shows up in listings.
	req = authRequest(httptest.NewRequest("GET", "/api/v1/tokens", nil), token)
	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	var resp api.TokenListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, item := range resp.Tokens {
		if item.ID == created.ID {
			t.Error("revoked token still listed")
		}
	}
}

func TestTokens_Revoke_OtherOwner_NotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com")
	bob := seedUser(t, env, "bob@example.com")
	seedToken(t, env, alice.ID)
	bobToken := seedToken(t, env, bob.ID)

	// Find alice's token id directly.
	var aliceTokenID string
	if err := env.DB.Get(&aliceTokenID, `SELECT id FROM api_tokens WHERE user_id = ?`, alice.ID); err != nil {
		t.Fatalf("lookup token id: %v", err)
	}

	req := authRequest(httptest.NewRequest("DELETE", "/api/v1/tokens/"+aliceTokenID, nil), bobToken)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
