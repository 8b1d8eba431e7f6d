package security

import (
	"strings"
	"testing"
	"time"

	"spotlight/contexts/identity-access/identity-service/ports"

	"golang.org/x/crypto/bcrypt"
)

func TestJWTSignerRoundTrip(t *testing.T) {
	signer, err := NewJWTSigner("spotlight-test", strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	raw, err := signer.Sign(ports.TokenClaims{
		AccountID: "acct-1",
		SessionID: "sess-1",
		Email:     "brand@example.com",
		Role:      "brand",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := signer.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != "acct-1" || claims.SessionID != "sess-1" || claims.Role != "brand" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", claims.ExpiresAt)
	}
}

func TestJWTSignerRejectsExpiredToken(t *testing.T) {
	signer, _ := NewEphemeralJWTSigner("spotlight-test")
	past := time.Now().UTC().Add(-2 * time.Hour)
	raw, err := signer.Sign(ports.TokenClaims{
		AccountID: "acct-1",
		SessionID: "sess-1",
		IssuedAt:  past,
		ExpiresAt: past.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := signer.ParseAndValidate(raw); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestJWTSignerRejectsForeignSecret(t *testing.T) {
	first, _ := NewEphemeralJWTSigner("spotlight-test")
	second, _ := NewEphemeralJWTSigner("spotlight-test")
	now := time.Now().UTC()
	raw, _ := first.Sign(ports.TokenClaims{AccountID: "acct-1", SessionID: "sess-1", IssuedAt: now, ExpiresAt: now.Add(time.Hour)})

	if _, err := second.ParseAndValidate(raw); err == nil {
		t.Fatalf("expected token signed by another secret to be rejected")
	}
}

func TestNewJWTSignerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTSigner("spotlight", "short"); err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
}

func TestBcryptHasherCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := hasher.Compare(hash, "correct horse"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := hasher.Compare(hash, "wrong horse"); err == nil {
		t.Fatalf("expected mismatch")
	}
}
