package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "spotlight/contexts/identity-access/onboarding-service/domain/errors"
	"spotlight/contexts/identity-access/onboarding-service/ports"
)

func TestIdempotencyRecordExpires(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record := ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", Payload: []byte(`{}`), ExpiresAt: now.Add(time.Hour)}
	if err := store.Put(ctx, record); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k1", now.Add(30*time.Minute)); !found {
		t.Fatal("expected record before expiry")
	}
	if err := store.Put(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", ExpiresAt: now.Add(time.Hour)}); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, found, _ := store.Get(ctx, "k1", now.Add(2*time.Hour)); found {
		t.Fatal("expected record to expire")
	}
}
