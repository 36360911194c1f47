package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/store"
	"github.com/bookmarkd/bookmarkd/internal/testutil"
)

func TestGenerateToken(t *testing.T) {
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(plaintext, "bm_") {
		t.Errorf("plaintext %q missing bm_ prefix", plaintext)
	}
	if len(hash) != 64 {
		t.Errorf("len(hash) = %d, want 64 hex chars", len(hash))
	}
	if auth.HashToken(plaintext) != hash {
		t.Error("HashToken(plaintext) does not match returned hash")
	}

	other, _, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if other == plaintext {
		t.Error("two generated tokens are identical")
	}
}

func TestSQLTokenStore_CreateAndGetByHash(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	rec, err := ts.Create(ctx, u.ID, "laptop", hash, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == "" || rec.Name != "laptop" || rec.UserID != u.ID {
		t.Errorf("record = %+v", rec)
	}
	if rec.ExpiresAt.Valid {
		t.Error("expires_at set without expiry")
	}

	got, err := ts.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("get by hash: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("id = %q, want %q", got.ID, rec.ID)
	}

	if _, err := ts.GetByHash(ctx, "deadbeef"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown hash: err = %v, want ErrNotFound", err)
	}
}

func TestSQLTokenStore_Revoke(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_, hash, _ := auth.GenerateToken()
	rec, err := ts.Create(ctx, u.ID, "laptop", hash, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ts.Revoke(ctx, rec.ID, u.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	got, err := ts.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("get after revoke: %v", err)
	}
	if !got.RevokedAt.Valid {
		t.Error("revoked_at not set")
	}

	// Revoking someone else's token is a not found.
	if err := ts.Revoke(ctx, rec.ID, "other-user"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign revoke: err = %v, want ErrNotFound", err)
	}
}

func TestSQLTokenStore_UpdateLastUsed(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_, hash, _ := auth.GenerateToken()
	rec, err := ts.Create(ctx, u.ID, "laptop", hash, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.LastUsedAt.Valid {
		t.Fatal("last_used_at set on a fresh token")
	}

	if err := ts.UpdateLastUsed(ctx, rec.ID); err != nil {
		t.Fatalf("update last used: %v", err)
	}
	got, err := ts.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.LastUsedAt.Valid {
		t.Error("last_used_at not set")
	}
}

func TestSQLTokenStore_ListByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	ctx := context.Background()

	alice, _ := us.Upsert(ctx, "alice@example.com", "Alice")
	bob, _ := us.Upsert(ctx, "bob@example.com", "Bob")

	for _, name := range []string{"laptop", "phone"} {
		_, hash, _ := auth.GenerateToken()
		if _, err := ts.Create(ctx, alice.ID, name, hash, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	_, hash, _ := auth.GenerateToken()
	if _, err := ts.Create(ctx, bob.ID, "bob-token", hash, nil); err != nil {
		t.Fatalf("create bob token: %v", err)
	}

	records, err := ts.ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.UserID != alice.ID {
			t.Errorf("record %q belongs to %q", rec.Name, rec.UserID)
		}
	}
}

func TestSQLTokenStore_Create_WithExpiry(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	exp := time.Now().UTC().Add(time.Hour)
	_, hash, _ := auth.GenerateToken()
	rec, err := ts.Create(ctx, u.ID, "short-lived", hash, &exp)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !rec.ExpiresAt.Valid {
		t.Fatal("expires_at not set")
	}
}
