package auth

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	tok, err := svc.Issue("admin-1", "admin", "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.IDAdmin != "admin-1" || claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != TokenTTL {
		t.Fatalf("expected %s lifetime, got %s", TokenTTL, got)
	}
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := NewTokenService("test-secret").WithClock(fixedClock(issuedAt))
	tok, err := svc.Issue("admin-1", "admin", "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Still valid just inside the 24h window.
	svc.WithClock(fixedClock(issuedAt.Add(TokenTTL - time.Second)))
	if _, err := svc.Verify(tok); err != nil {
		t.Fatalf("expected token valid within 24h, got %v", err)
	}

	// 24h plus one second: expired.
	svc.WithClock(fixedClock(issuedAt.Add(TokenTTL + time.Second)))
	_, err = svc.Verify(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	svc := NewTokenService("test-secret")
	tok, err := svc.Issue("admin-1", "admin", "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip the final signature character to another valid base64url symbol.
	last := tok[len(tok)-1]
	flip := byte('A')
	if last == 'A' {
		flip = 'B'
	}
	tampered := tok[:len(tok)-1] + string(flip)

	_, err = svc.Verify(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered signature, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := NewTokenService("right-secret").Issue("admin-1", "admin", "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService("wrong-secret").Verify(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := NewTokenService("test-secret")

	for _, tok := range []string{"", "not-a-jwt", "a.b"} {
		_, err := svc.Verify(tok)
		if !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", tok, err)
		}
	}
}
