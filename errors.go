package adminauth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown identifier and for a
	// wrong password alike; callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidMFACode is returned when a submitted one-time code does not
	// match any tolerated time step.
	ErrInvalidMFACode = errors.New("invalid mfa code")
	// ErrMFARequired is returned by [Engine.Login] when the account needs a
	// second factor and the caller must continue with [Engine.SubmitMFA].
	ErrMFARequired = errors.New("mfa required")
	// ErrMFAChallengeInvalid is returned for an unknown or already consumed
	// challenge handle.
	ErrMFAChallengeInvalid = errors.New("mfa challenge invalid")
	// ErrMFAChallengeExpired is returned when the challenge TTL has elapsed
	// before the code was submitted.
	ErrMFAChallengeExpired = errors.New("mfa challenge expired")
	// ErrMFAAttemptsExceeded is returned when the challenge attempt budget
	// is exhausted; the challenge is destroyed.
	ErrMFAAttemptsExceeded = errors.New("mfa challenge attempts exceeded")
	// ErrTokenExpired is returned by [Engine.VerifyToken] for a valid token
	// past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned by [Engine.VerifyToken] for any other
	// verification failure.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrLoginRateLimited is returned when the login attempt budget for the
	// identifier or source is spent.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrServiceUnavailable is returned when the credential store or the
	// challenge backend is unreachable. Infrastructure faults never
	// masquerade as ErrInvalidCredentials.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrAccountNotFound is the sentinel an [AccountProvider] returns when
	// no account matches; it never escapes the engine.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEngineNotReady is returned when the engine is used before Build
	// wired all dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
