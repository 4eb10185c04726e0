package adminauth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	internalaudit "github.com/prismacost/adminauth/internal/audit"
	"github.com/prismacost/adminauth/internal/rate"
	"github.com/prismacost/adminauth/internal/stores"
	"github.com/prismacost/adminauth/jwt"
	"github.com/prismacost/adminauth/password"
)

// Engine is the authentication core. Construct one through [New] and the
// builder chain; the zero value is not usable. An Engine is safe for
// concurrent use.
type Engine struct {
	config       Config
	accounts     AccountProvider
	passwordHash *password.Hasher
	totp         *totpManager
	jwtManager   *jwt.Manager
	mfaStore     *stores.MFAChallengeStore
	rateLimiter  *rate.Limiter
	audit        *internalaudit.Dispatcher
	logger       *slog.Logger
}

// Close flushes and stops the audit dispatcher. Records emitted after Close
// are dropped.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit records were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// VerifyToken parses and validates a session token and returns its claims.
// Expired tokens return [ErrTokenExpired]; every other rejection, including
// bad signatures and wrong signing methods, returns [ErrTokenMalformed].
func (e *Engine) VerifyToken(ctx context.Context, token string) (*Claims, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims, err := e.jwtManager.Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenMalformed
		}
	}

	out := &Claims{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (e *Engine) warn(msg string, args ...any) {
	if e == nil || e.logger == nil {
		return
	}
	e.logger.Warn(msg, args...)
}

func mapChallengeStoreError(err error) error {
	switch {
	case errors.Is(err, stores.ErrChallengeNotFound):
		return ErrMFAChallengeInvalid
	case errors.Is(err, stores.ErrChallengeExpired):
		return ErrMFAChallengeExpired
	default:
		return ErrServiceUnavailable
	}
}

func mapProviderError(err error) error {
	if errors.Is(err, ErrAccountNotFound) {
		return ErrAccountNotFound
	}
	return ErrServiceUnavailable
}

func mapRateError(err error) error {
	if errors.Is(err, rate.ErrRateLimited) {
		return ErrLoginRateLimited
	}
	return ErrServiceUnavailable
}

func unixOrZero(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}
