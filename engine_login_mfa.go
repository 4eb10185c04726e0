package adminauth

import (
	"context"
	"errors"
	"time"

	"github.com/prismacost/adminauth/internal"
	"github.com/prismacost/adminauth/internal/flows"
	"github.com/prismacost/adminauth/internal/stores"
)

// SubmitCredentials runs the first step of the login state machine. For
// accounts without a second factor it returns a session token. For
// MFA-enabled accounts it returns MFARequired=true with a single-use
// challenge handle and no token; the caller completes the login through
// [Engine.SubmitMFA].
//
// Every credential rejection, including unknown identifiers and blocked
// accounts, returns [ErrInvalidCredentials] so responses do not reveal
// whether an account exists.
func (e *Engine) SubmitCredentials(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	result, err := flows.RunSubmitCredentials(ctx, identifier, password, e.loginDeps())
	if err != nil {
		return nil, err
	}
	return e.loginResultFromFlow(result), nil
}

// SubmitMFA runs the second step of the login state machine: it redeems the
// challenge handle from [Engine.SubmitCredentials] against a TOTP code and
// returns the session token. Failed codes consume challenge attempts; an
// exhausted or expired challenge requires restarting the login.
func (e *Engine) SubmitMFA(ctx context.Context, challenge, code string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	result, err := flows.RunSubmitMFA(ctx, challenge, code, e.loginDeps())
	if err != nil {
		return nil, err
	}
	return e.loginResultFromFlow(result), nil
}

// Login is the single-call convenience for accounts without a second
// factor. MFA-enabled accounts fail with [ErrMFARequired]; use
// [Engine.SubmitCredentials] and [Engine.SubmitMFA] instead.
func (e *Engine) Login(ctx context.Context, identifier, password string) (string, error) {
	result, err := e.SubmitCredentials(ctx, identifier, password)
	if err != nil {
		return "", err
	}
	if result.MFARequired {
		return "", ErrMFARequired
	}
	return result.Token, nil
}

func (e *Engine) loginDeps() flows.LoginDeps {
	deps := flows.LoginDeps{
		MFAChallengeTTL:   e.config.MFALogin.ChallengeTTL,
		MFAMaxAttempts:    e.config.MFALogin.MaxAttempts,
		BlockedStatus:     StatusBlocked,
		SourceFromContext: sourceFromContext,

		FindAccount: func(ctx context.Context, identifier string) (flows.AccountRecord, error) {
			account, err := e.accounts.FindAccount(ctx, identifier)
			if err != nil {
				return flows.AccountRecord{}, mapProviderError(err)
			}
			if account == nil {
				return flows.AccountRecord{}, ErrAccountNotFound
			}
			return accountToFlowRecord(account), nil
		},
		FindAccountByID: func(ctx context.Context, id string) (flows.AccountRecord, error) {
			account, err := e.accounts.FindAccountByID(ctx, id)
			if err != nil {
				return flows.AccountRecord{}, mapProviderError(err)
			}
			if account == nil {
				return flows.AccountRecord{}, ErrAccountNotFound
			}
			return accountToFlowRecord(account), nil
		},
		IsNotFound: func(err error) bool {
			return errors.Is(err, ErrAccountNotFound)
		},

		VerifyPassword:  e.passwordHash.Verify,
		DecodeMFASecret: decodeMFASecret,
		VerifyTOTPCode:  e.totp.VerifyCode,

		GetChallenge: func(ctx context.Context, id string) (*flows.ChallengeRecord, error) {
			record, err := e.mfaStore.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return &flows.ChallengeRecord{
				AccountID: record.AccountID,
				ExpiresAt: record.ExpiresAt,
				Attempts:  record.Attempts,
			}, nil
		},
		SaveChallenge: func(ctx context.Context, id string, record *flows.ChallengeRecord, ttl time.Duration) error {
			return e.mfaStore.Save(ctx, id, &stores.MFAChallenge{
				AccountID: record.AccountID,
				ExpiresAt: record.ExpiresAt,
				Attempts:  record.Attempts,
			}, ttl)
		},
		DeleteChallenge:        e.mfaStore.Delete,
		RecordChallengeFailure: e.mfaStore.RecordFailure,
		MapChallengeStoreError: mapChallengeStoreError,
		NewChallengeID: func() (string, error) {
			id, err := internal.NewChallengeID()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},

		IssueToken: e.jwtManager.Issue,

		EmitAudit: e.emitAudit,
		Warn:      e.warn,

		Events: flows.LoginEvents{
			Login:       AuditActionLogin,
			LoginFailed: AuditActionLoginFailed,
		},
		Errors: flows.LoginErrors{
			EngineNotReady:     ErrEngineNotReady,
			InvalidCredentials: ErrInvalidCredentials,
			InvalidMFACode:     ErrInvalidMFACode,
			ChallengeInvalid:   ErrMFAChallengeInvalid,
			ChallengeExpired:   ErrMFAChallengeExpired,
			AttemptsExceeded:   ErrMFAAttemptsExceeded,
			RateLimited:        ErrLoginRateLimited,
			Unavailable:        ErrServiceUnavailable,
		},
	}

	if e.rateLimiter != nil {
		deps.CheckLoginRate = func(ctx context.Context, identifier, source string) error {
			if err := e.rateLimiter.CheckLogin(ctx, identifier, source); err != nil {
				return mapRateError(err)
			}
			return nil
		}
		deps.IncrementLoginRate = func(ctx context.Context, identifier, source string) error {
			if err := e.rateLimiter.IncrementLogin(ctx, identifier, source); err != nil {
				return mapRateError(err)
			}
			return nil
		}
		deps.ResetLoginRate = e.rateLimiter.ResetLogin
	}

	return deps
}

func (e *Engine) loginResultFromFlow(result *flows.LoginResult) *LoginResult {
	if result == nil {
		return nil
	}
	return &LoginResult{
		Token:          result.Token,
		TokenExpiresAt: unixOrZero(result.TokenExpiresAt),
		AccountID:      result.AccountID,
		Username:       result.Username,
		Role:           result.Role,
		MFARequired:    result.MFARequired,
		Challenge:      result.Challenge,
	}
}

func accountToFlowRecord(account *Account) flows.AccountRecord {
	return flows.AccountRecord{
		ID:           account.ID,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Role:         account.Role,
		Status:       account.Status,
		MFAEnabled:   account.MFAEnabled,
		MFASecret:    account.MFASecret,
	}
}
