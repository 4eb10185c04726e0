package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the work factor applied when configuration does not
// override it. Raising it is a config change, never a code change.
const DefaultCost = 12

// Config defines the hasher work factor.
type Config struct {
	Cost int
}

// Hasher produces and verifies salted bcrypt digests. Each Hash call embeds
// a fresh random salt, so two digests of the same plaintext never compare
// equal; only Verify can relate plaintext to digest.
type Hasher struct {
	config Config
}

// New validates the work factor and returns a Hasher.
func New(cfg Config) (*Hasher, error) {
	if cfg.Cost == 0 {
		cfg.Cost = DefaultCost
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &Hasher{config: cfg}, nil
}

// Hash returns the salted digest of plaintext at the configured cost.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.config.Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed or truncated
// digests verify false; attacker-controlled input never produces an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Cost extracts the work factor embedded in digest. Used to detect digests
// hashed under an older, weaker configuration.
func (h *Hasher) Cost(digest string) (int, error) {
	return bcrypt.Cost([]byte(digest))
}

// NeedsUpgrade reports whether digest was produced with a lower work factor
// than currently configured.
func (h *Hasher) NeedsUpgrade(digest string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return false, err
	}
	return cost < h.config.Cost, nil
}
