package adminauth

import (
	"errors"
	"log/slog"

	internalaudit "github.com/prismacost/adminauth/internal/audit"
	"github.com/prismacost/adminauth/internal/rate"
	"github.com/prismacost/adminauth/internal/stores"
	"github.com/prismacost/adminauth/jwt"
	"github.com/prismacost/adminauth/password"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine] from configuration and host-supplied
// dependencies. A Builder is single use; Build fails on reuse.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	accountProvider AccountProvider
	auditSink       AuditSink
	logger          *slog.Logger

	built bool
}

// New returns a Builder seeded with default configuration. The token secret
// has no default and must be supplied through [Builder.WithConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale. Zero-valued
// sections are not backfilled with defaults; start from [DefaultConfig] and
// override fields instead of constructing a Config from scratch.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the redis client backing the MFA challenge store and the
// login rate limiter.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAccountProvider sets the account lookup backend.
func (b *Builder) WithAccountProvider(provider AccountProvider) *Builder {
	b.accountProvider = provider
	return b
}

// WithAuditSink sets the destination for audit records. Without a sink the
// engine uses [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger for non-fatal engine warnings. Defaults to
// [slog.Default].
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and dependencies and constructs the
// engine. The caller owns the returned engine's lifecycle and should call
// [Engine.Close] on shutdown to flush the audit dispatcher.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.accountProvider == nil {
		return nil, errors.New("account provider required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		Secret:   cfg.Token.Secret,
		Lifetime: cfg.Token.Lifetime,
		Issuer:   cfg.Token.Issuer,
		Leeway:   cfg.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.New(password.Config{Cost: cfg.Password.Cost})
	if err != nil {
		return nil, err
	}

	sink := b.auditSink
	if sink == nil {
		sink = internalaudit.NoOpSink{}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	engine := &Engine{
		config:       cfg,
		accounts:     b.accountProvider,
		passwordHash: hasher,
		totp:         newTOTPManager(cfg.TOTP),
		jwtManager:   jwtManager,
		mfaStore:     stores.NewMFAChallengeStore(b.redis, cfg.MFALogin.RedisPrefix),
		rateLimiter: rate.New(b.redis, rate.Config{
			EnableSourceThrottle: cfg.Security.EnableSourceThrottle,
			MaxLoginAttempts:     cfg.Security.MaxLoginAttempts,
			LoginCooldown:        cfg.Security.LoginCooldown,
		}),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, sink),
		logger: logger,
	}
	return engine, nil
}
