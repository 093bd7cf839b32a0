package denylist

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRevokeLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{Memory: &MemoryConfig{GCInterval: 10 * time.Millisecond}})
	t.Cleanup(func() {
		_ = store.Close(ctx)
	})

	revoked, err := store.IsRevoked(ctx, "jti-unknown")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatalf("unknown jti must not be revoked")
	}

	if err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	revoked, err = store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if !revoked {
		t.Fatalf("expected jti-1 to be revoked")
	}
}

func TestMemoryStoreIgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{Memory: &MemoryConfig{GCInterval: time.Hour}})
	t.Cleanup(func() {
		_ = store.Close(ctx)
	})

	if err := store.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	revoked, err := store.IsRevoked(ctx, "jti-old")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatalf("an already expired token needs no denylist entry")
	}
}

func TestMemoryStoreEntryExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(Config{Memory: &MemoryConfig{GCInterval: 5 * time.Millisecond}})
	t.Cleanup(func() {
		_ = store.Close(ctx)
	})

	if err := store.Revoke(ctx, "jti-short", time.Now().Add(30*time.Millisecond)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		revoked, err := store.IsRevoked(ctx, "jti-short")
		if err != nil {
			t.Fatalf("IsRevoked returned error: %v", err)
		}
		if !revoked {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected entry to expire")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
