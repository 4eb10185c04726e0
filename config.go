package adminauth

import (
	"errors"
	"time"

	"github.com/prismacost/adminauth/password"
)

// Config defines the engine configuration. All values are established at
// startup and treated as immutable afterwards. There is no default signing
// secret: [Builder.Build] fails when Token.Secret is empty.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	TOTP     TOTPConfig
	MFALogin MFALoginConfig
	Security SecurityConfig
	Audit    AuditConfig
}

// TokenConfig controls session token issuance and verification.
type TokenConfig struct {
	Secret   []byte
	Lifetime time.Duration
	Issuer   string
	Leeway   time.Duration
}

// PasswordConfig controls the bcrypt work factor.
type PasswordConfig struct {
	Cost int
}

// TOTPConfig controls one-time code verification. Digits is the fixed code
// length; Skew is the number of adjacent time steps tolerated on either
// side of the current one.
type TOTPConfig struct {
	Digits    int
	Period    int
	Algorithm string // "SHA1" (default), "SHA256", "SHA512"
	Skew      int
}

// MFALoginConfig controls the pending-challenge store.
type MFALoginConfig struct {
	ChallengeTTL time.Duration
	MaxAttempts  int
	RedisPrefix  string
}

// SecurityConfig controls login attempt throttling.
type SecurityConfig struct {
	MaxLoginAttempts     int
	LoginCooldown        time.Duration
	EnableSourceThrottle bool
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig returns the configuration [New] seeds the builder with.
// The token secret is intentionally absent and must be set by the caller.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			Lifetime: 24 * time.Hour,
			Issuer:   "adminauth",
			Leeway:   30 * time.Second,
		},
		Password: PasswordConfig{
			Cost: password.DefaultCost,
		},
		TOTP: TOTPConfig{
			Digits:    6,
			Period:    30,
			Algorithm: "SHA1",
			Skew:      1,
		},
		MFALogin: MFALoginConfig{
			ChallengeTTL: 5 * time.Minute,
			MaxAttempts:  5,
			RedisPrefix:  "amfa",
		},
		Security: SecurityConfig{
			MaxLoginAttempts:     10,
			LoginCooldown:        15 * time.Minute,
			EnableSourceThrottle: true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
		},
	}
}

func (c Config) validate() error {
	if len(c.Token.Secret) == 0 {
		return errors.New("token signing secret is required")
	}
	if c.Token.Lifetime <= 0 {
		return errors.New("token lifetime must be positive")
	}
	if c.TOTP.Digits < 6 || c.TOTP.Digits > 10 {
		return errors.New("totp digits must be between 6 and 10")
	}
	if c.TOTP.Period <= 0 {
		return errors.New("totp period must be positive")
	}
	if c.TOTP.Skew < 1 {
		return errors.New("totp skew must tolerate at least one adjacent step")
	}
	if c.MFALogin.ChallengeTTL <= 0 {
		return errors.New("mfa challenge ttl must be positive")
	}
	if c.MFALogin.MaxAttempts < 1 {
		return errors.New("mfa max attempts must be at least 1")
	}
	if c.Security.MaxLoginAttempts < 1 {
		return errors.New("max login attempts must be at least 1")
	}
	if c.Security.LoginCooldown <= 0 {
		return errors.New("login cooldown must be positive")
	}
	return nil
}

// cloneConfig copies the config so a caller mutating its struct after Build
// cannot affect a running engine. The token secret is the only reference
// field and gets its own copy.
func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.Token.Secret) > 0 {
		out.Token.Secret = make([]byte, len(cfg.Token.Secret))
		copy(out.Token.Secret, cfg.Token.Secret)
	}
	return out
}
