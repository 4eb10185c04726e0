// Package appconfig handles runtime configuration for the adminauthd
// server: defaults, then environment variables, then command-line flags.
package appconfig

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the server process.
//
// Fields:
//   - ListenAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - RedisAddr / RedisPassword / RedisDB: challenge store and limiter
//     backend.
//   - TokenSecret: HMAC secret for signing session tokens (HS256). There
//     is no default; the process refuses to start without one.
//   - TokenLifetime: session token validity.
//   - MFAChallengeTTL / MFAMaxAttempts: MFA challenge tuning.
//   - AuditLogPath: optional JSONL audit mirror, empty disables it.
//   - LogLevel: "debug", "info", "warn" or "error".
type Config struct {
	ListenAddr      string
	DatabaseDSN     string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	TokenSecret     string
	TokenLifetime   time.Duration
	MFAChallengeTTL time.Duration
	MFAMaxAttempts  int
	AuditLogPath    string
	LogLevel        string
}

func (c *Config) loadDefaults() {
	c.ListenAddr = ":8080"
	c.RedisAddr = "127.0.0.1:6379"
	c.TokenLifetime = 24 * time.Hour
	c.MFAChallengeTTL = 5 * time.Minute
	c.MFAMaxAttempts = 5
	c.LogLevel = "info"
}

func (c *Config) loadEnv() {
	setString(&c.ListenAddr, "ADMINAUTH_LISTEN_ADDR")
	setString(&c.DatabaseDSN, "ADMINAUTH_DATABASE_DSN")
	setString(&c.RedisAddr, "ADMINAUTH_REDIS_ADDR")
	setString(&c.RedisPassword, "ADMINAUTH_REDIS_PASSWORD")
	setInt(&c.RedisDB, "ADMINAUTH_REDIS_DB")
	setString(&c.TokenSecret, "ADMINAUTH_TOKEN_SECRET")
	setDuration(&c.TokenLifetime, "ADMINAUTH_TOKEN_LIFETIME")
	setDuration(&c.MFAChallengeTTL, "ADMINAUTH_MFA_CHALLENGE_TTL")
	setInt(&c.MFAMaxAttempts, "ADMINAUTH_MFA_MAX_ATTEMPTS")
	setString(&c.AuditLogPath, "ADMINAUTH_AUDIT_LOG_PATH")
	setString(&c.LogLevel, "ADMINAUTH_LOG_LEVEL")
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("adminauthd", flag.ContinueOnError)

	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "HTTP bind address")
	fs.StringVar(&c.DatabaseDSN, "database-dsn", c.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "redis address")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "redis password")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "redis database index")
	fs.DurationVar(&c.TokenLifetime, "token-lifetime", c.TokenLifetime, "session token lifetime")
	fs.DurationVar(&c.MFAChallengeTTL, "mfa-challenge-ttl", c.MFAChallengeTTL, "MFA challenge time to live")
	fs.IntVar(&c.MFAMaxAttempts, "mfa-max-attempts", c.MFAMaxAttempts, "MFA code attempts per challenge")
	fs.StringVar(&c.AuditLogPath, "audit-log", c.AuditLogPath, "JSONL audit log path, empty disables the file mirror")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")

	return fs.Parse(args)
}

// Validate rejects configurations the server cannot safely run with. The
// token secret deliberately has no fallback.
func (c *Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("token secret is required (ADMINAUTH_TOKEN_SECRET)")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required (ADMINAUTH_DATABASE_DSN)")
	}
	if c.RedisAddr == "" {
		return errors.New("redis address is required (ADMINAUTH_REDIS_ADDR)")
	}
	if c.TokenLifetime <= 0 {
		return errors.New("token lifetime must be positive")
	}
	if c.MFAMaxAttempts < 1 {
		return errors.New("mfa max attempts must be at least 1")
	}
	return nil
}

// Load builds a Config by applying defaults, then environment variables,
// then command-line flags, and validates the result.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.loadDefaults()
	cfg.loadEnv()
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
