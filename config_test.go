package adminauth

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Token.Secret = []byte("secret")
	if err := valid.validate(); err != nil {
		t.Fatalf("expected default config with secret to validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Token.Secret = nil }},
		{"zero lifetime", func(c *Config) { c.Token.Lifetime = 0 }},
		{"digits too small", func(c *Config) { c.TOTP.Digits = 4 }},
		{"digits too large", func(c *Config) { c.TOTP.Digits = 11 }},
		{"zero period", func(c *Config) { c.TOTP.Period = 0 }},
		{"zero skew", func(c *Config) { c.TOTP.Skew = 0 }},
		{"zero challenge ttl", func(c *Config) { c.MFALogin.ChallengeTTL = 0 }},
		{"zero mfa attempts", func(c *Config) { c.MFALogin.MaxAttempts = 0 }},
		{"zero login attempts", func(c *Config) { c.Security.MaxLoginAttempts = 0 }},
		{"zero cooldown", func(c *Config) { c.Security.LoginCooldown = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.Token.Secret = []byte("secret")
		tc.mutate(&cfg)
		if err := cfg.validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Token.Lifetime != 24*time.Hour {
		t.Fatalf("expected 24h token lifetime, got %v", cfg.Token.Lifetime)
	}
	if len(cfg.Token.Secret) != 0 {
		t.Fatal("default config must not carry a token secret")
	}
	if cfg.Password.Cost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.Password.Cost)
	}
	if cfg.TOTP.Digits != 6 || cfg.TOTP.Period != 30 || cfg.TOTP.Skew != 1 {
		t.Fatalf("unexpected TOTP defaults: %+v", cfg.TOTP)
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("original")

	cloned := cloneConfig(cfg)
	cfg.Token.Secret[0] = 'X'

	if string(cloned.Token.Secret) != "original" {
		t.Fatalf("expected cloned secret to be independent, got %q", cloned.Token.Secret)
	}
}
