package jwt

import (
	"errors"
	"testing"
	"time"
)

func testManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = []byte("jwt-test-secret-0123456789")
	}
	if cfg.Lifetime == 0 {
		cfg.Lifetime = 24 * time.Hour
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := testManager(t, Config{Issuer: "adminauth"})

	token, expiresAt, err := m.Issue("u1", "alice", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if until := time.Until(expiresAt); until < 23*time.Hour || until > 25*time.Hour {
		t.Fatalf("expected roughly 24h expiry, got %v", until)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.AccountID != "u1" || claims.Username != "alice" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	// NumericDate carries second precision.
	if claims.ExpiresAt == nil || claims.ExpiresAt.Unix() != expiresAt.Unix() {
		t.Fatalf("claims expiry %v does not match issue result %v", claims.ExpiresAt, expiresAt)
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := testManager(t, Config{Lifetime: time.Hour})

	issuedAt := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Issue("u1", "alice", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	m.now = time.Now
	if _, err := m.Parse(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseLeewayToleratesSmallSkew(t *testing.T) {
	m := testManager(t, Config{Lifetime: time.Hour, Leeway: time.Minute})

	issuedAt := time.Now().Add(-time.Hour - 30*time.Second)
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Issue("u1", "alice", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// 30s past expiry but inside the 1m leeway.
	m.now = time.Now
	if _, err := m.Parse(token); err != nil {
		t.Fatalf("expected token inside leeway to parse, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	issuer := testManager(t, Config{Secret: []byte("secret-one-0123456789")})
	verifier := testManager(t, Config{Secret: []byte("secret-two-0123456789")})

	token, _, err := issuer.Issue("u1", "alice", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for wrong secret, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	m := testManager(t, Config{})

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		if _, err := m.Parse(token); !errors.Is(err, ErrMalformed) {
			t.Fatalf("token %q: expected ErrMalformed, got %v", token, err)
		}
	}
}

func TestParseIssuerMismatch(t *testing.T) {
	issuer := testManager(t, Config{Issuer: "adminauth"})
	verifier := testManager(t, Config{Issuer: "someone-else"})

	token, _, err := issuer.Issue("u1", "alice", "admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for issuer mismatch, got %v", err)
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{Lifetime: time.Hour}); err == nil {
		t.Fatal("expected NewManager to fail without a secret")
	}
	if _, err := NewManager(Config{Secret: []byte("x"), Lifetime: 0}); err == nil {
		t.Fatal("expected NewManager to fail without a lifetime")
	}
}
