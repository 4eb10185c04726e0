package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := New(Config{Cost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	digest, err := h.Hash("correct-password-123")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("expected bcrypt modular crypt format, got %q", digest)
	}

	if !h.Verify("correct-password-123", digest) {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify("wrong-password", digest) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct digests for the same password")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := newTestHasher(t)

	for _, digest := range []string{"", "not-a-digest", "$2a$nonsense", "$argon2id$v=19$..."} {
		if h.Verify("anything", digest) {
			t.Fatalf("expected malformed digest %q to fail verification", digest)
		}
	}
}

func TestDefaultCost(t *testing.T) {
	if DefaultCost != 12 {
		t.Fatalf("expected default cost 12, got %d", DefaultCost)
	}

	h, err := New(Config{})
	if err != nil {
		t.Fatalf("New with zero config failed: %v", err)
	}
	digest, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	cost, err := h.Cost(digest)
	if err != nil {
		t.Fatalf("Cost failed: %v", err)
	}
	if cost != DefaultCost {
		t.Fatalf("expected embedded cost %d, got %d", DefaultCost, cost)
	}
}

func TestNewRejectsOutOfRangeCost(t *testing.T) {
	if _, err := New(Config{Cost: bcrypt.MaxCost + 1}); err == nil {
		t.Fatal("expected cost above MaxCost to be rejected")
	}
	if _, err := New(Config{Cost: 2}); err == nil {
		t.Fatal("expected cost below MinCost to be rejected")
	}
}

func TestNeedsUpgrade(t *testing.T) {
	low := newTestHasher(t)
	digest, err := low.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	standard, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	needs, err := standard.NeedsUpgrade(digest)
	if err != nil {
		t.Fatalf("NeedsUpgrade failed: %v", err)
	}
	if !needs {
		t.Fatal("expected MinCost digest to need an upgrade at default cost")
	}
	needs, err = low.NeedsUpgrade(digest)
	if err != nil {
		t.Fatalf("NeedsUpgrade failed: %v", err)
	}
	if needs {
		t.Fatal("expected digest at current cost to not need an upgrade")
	}
}
