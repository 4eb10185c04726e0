package flows

import (
	"context"
	"time"
)

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	Token          string
	TokenExpiresAt int64
	AccountID      string
	Username       string
	Role           string
	MFARequired    bool
	Challenge      string
}

// AccountRecord is a flow-local account model used by the login flows.
type AccountRecord struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	Status       string
	MFAEnabled   bool
	MFASecret    string
}

// ChallengeRecord is a flow-local pending MFA challenge.
type ChallengeRecord struct {
	AccountID string
	ExpiresAt int64
	Attempts  uint16
}

// LoginEvents carries audit action names used by the login flows.
type LoginEvents struct {
	Login       string
	LoginFailed string
}

// LoginErrors carries host-level sentinel errors used by the login flows.
type LoginErrors struct {
	EngineNotReady     error
	InvalidCredentials error
	InvalidMFACode     error
	ChallengeInvalid   error
	ChallengeExpired   error
	AttemptsExceeded   error
	RateLimited        error
	Unavailable        error
}

// LoginDeps captures credential and MFA login dependencies.
type LoginDeps struct {
	MFAChallengeTTL time.Duration
	MFAMaxAttempts  int
	BlockedStatus   string

	SourceFromContext func(context.Context) string
	Now               func() time.Time

	CheckLoginRate     func(context.Context, string, string) error
	IncrementLoginRate func(context.Context, string, string) error
	ResetLoginRate     func(context.Context, string, string) error

	FindAccount     func(context.Context, string) (AccountRecord, error)
	FindAccountByID func(context.Context, string) (AccountRecord, error)
	IsNotFound      func(error) bool

	VerifyPassword  func(string, string) bool
	DecodeMFASecret func(string) ([]byte, error)
	VerifyTOTPCode  func([]byte, string, time.Time) (bool, int64, error)

	GetChallenge           func(context.Context, string) (*ChallengeRecord, error)
	SaveChallenge          func(context.Context, string, *ChallengeRecord, time.Duration) error
	DeleteChallenge        func(context.Context, string) (bool, error)
	RecordChallengeFailure func(context.Context, string, int) (bool, error)
	MapChallengeStoreError func(error) error
	NewChallengeID         func() (string, error)

	IssueToken func(string, string, string) (string, time.Time, error)

	EmitAudit func(context.Context, string, bool, string, error, func() map[string]string)
	Warn      func(string, ...any)

	Events LoginEvents
	Errors LoginErrors
}

// RunSubmitCredentials executes the first login step. On success it either
// issues a session token directly or, for MFA-enabled accounts, stores a
// challenge and returns its handle with no token.
func RunSubmitCredentials(ctx context.Context, identifier, password string, deps LoginDeps) (*LoginResult, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.SourceFromContext == nil {
		deps.SourceFromContext = func(context.Context) string { return "" }
	}
	if deps.IsNotFound == nil {
		deps.IsNotFound = func(error) bool { return false }
	}
	if deps.FindAccount == nil ||
		deps.VerifyPassword == nil ||
		deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}

	source := deps.SourceFromContext(ctx)

	if deps.CheckLoginRate != nil {
		if err := deps.CheckLoginRate(ctx, identifier, source); err != nil {
			deps.EmitAudit(ctx, deps.Events.LoginFailed, false, "", err, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
					"reason":     "rate_limited",
				}
			})
			return nil, err
		}
	}

	if identifier == "" || password == "" {
		return failCredentialAttempt(ctx, identifier, source, "", "empty_input", deps)
	}

	account, err := deps.FindAccount(ctx, identifier)
	if err != nil {
		if deps.IsNotFound(err) {
			return failCredentialAttempt(ctx, identifier, source, "", "account_not_found", deps)
		}
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, "", deps.Errors.Unavailable, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "provider_failure",
			}
		})
		return nil, deps.Errors.Unavailable
	}

	if !deps.VerifyPassword(password, account.PasswordHash) {
		return failCredentialAttempt(ctx, identifier, source, account.ID, "password_mismatch", deps)
	}
	password = ""

	// Blocked accounts fail with the same generic error as a bad password
	// so the response does not reveal account state.
	if account.Status == deps.BlockedStatus {
		return failCredentialAttempt(ctx, identifier, source, account.ID, "account_blocked", deps)
	}

	if account.MFAEnabled {
		if account.MFASecret == "" {
			deps.Warn("mfa enabled without secret", "account_id", account.ID)
			deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, deps.Errors.Unavailable, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
					"reason":     "mfa_misconfigured",
				}
			})
			return nil, deps.Errors.Unavailable
		}
		challengeID, err := RunCreateMFAChallenge(ctx, account.ID, deps)
		if err != nil {
			deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, err, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
					"reason":     "challenge_create_failed",
				}
			})
			return nil, err
		}
		return &LoginResult{
			AccountID:   account.ID,
			Username:    account.Username,
			Role:        account.Role,
			MFARequired: true,
			Challenge:   challengeID,
		}, nil
	}

	return runIssueSessionToken(ctx, identifier, source, account, nil, deps)
}

// RunSubmitMFA executes the second login step: it redeems a challenge handle
// against a submitted TOTP code and issues the session token.
func RunSubmitMFA(ctx context.Context, challengeID, code string, deps LoginDeps) (*LoginResult, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
	if deps.SourceFromContext == nil {
		deps.SourceFromContext = func(context.Context) string { return "" }
	}
	if deps.MapChallengeStoreError == nil {
		deps.MapChallengeStoreError = func(error) error { return deps.Errors.Unavailable }
	}
	if deps.GetChallenge == nil ||
		deps.DeleteChallenge == nil ||
		deps.RecordChallengeFailure == nil ||
		deps.FindAccountByID == nil ||
		deps.DecodeMFASecret == nil ||
		deps.VerifyTOTPCode == nil ||
		deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}
	if challengeID == "" {
		return nil, deps.Errors.ChallengeInvalid
	}

	record, err := deps.GetChallenge(ctx, challengeID)
	if err != nil {
		mapped := deps.MapChallengeStoreError(err)
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, "", mapped, func() map[string]string {
			return map[string]string{
				"reason": "challenge_load_failed",
			}
		})
		return nil, mapped
	}

	account, err := deps.FindAccountByID(ctx, record.AccountID)
	if err != nil {
		_, _ = deps.DeleteChallenge(ctx, challengeID)
		if deps.IsNotFound != nil && deps.IsNotFound(err) {
			deps.EmitAudit(ctx, deps.Events.LoginFailed, false, record.AccountID, deps.Errors.ChallengeInvalid, func() map[string]string {
				return map[string]string{
					"reason": "account_missing",
				}
			})
			return nil, deps.Errors.ChallengeInvalid
		}
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, record.AccountID, deps.Errors.Unavailable, nil)
		return nil, deps.Errors.Unavailable
	}

	if account.Status == deps.BlockedStatus {
		_, _ = deps.DeleteChallenge(ctx, challengeID)
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, deps.Errors.InvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "account_blocked",
			}
		})
		return nil, deps.Errors.InvalidCredentials
	}

	if !account.MFAEnabled || account.MFASecret == "" {
		_, _ = deps.DeleteChallenge(ctx, challengeID)
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, deps.Errors.ChallengeInvalid, func() map[string]string {
			return map[string]string{
				"reason": "mfa_disabled_or_missing",
			}
		})
		return nil, deps.Errors.ChallengeInvalid
	}

	if code == "" {
		return failMFAAttempt(ctx, challengeID, account.ID, deps.Errors.InvalidMFACode, deps)
	}

	secret, err := deps.DecodeMFASecret(account.MFASecret)
	if err != nil {
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, deps.Errors.Unavailable, func() map[string]string {
			return map[string]string{
				"reason": "mfa_secret_decode_failed",
			}
		})
		return nil, deps.Errors.Unavailable
	}

	ok, _, verr := deps.VerifyTOTPCode(secret, code, deps.Now())
	if verr != nil || !ok {
		return failMFAAttempt(ctx, challengeID, account.ID, deps.Errors.InvalidMFACode, deps)
	}

	// Single use: the first confirmation wins, a concurrent redemption of
	// the same handle observes deleted=false and is rejected.
	deleted, err := deps.DeleteChallenge(ctx, challengeID)
	if err != nil {
		mapped := deps.MapChallengeStoreError(err)
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, mapped, nil)
		return nil, mapped
	}
	if !deleted {
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, deps.Errors.ChallengeInvalid, func() map[string]string {
			return map[string]string{
				"reason": "challenge_already_redeemed",
			}
		})
		return nil, deps.Errors.ChallengeInvalid
	}

	identifier := account.Username
	if identifier == "" {
		identifier = account.ID
	}
	return runIssueSessionToken(ctx, identifier, deps.SourceFromContext(ctx), account, map[string]string{"mfa": "totp"}, deps)
}

// RunCreateMFAChallenge generates a challenge handle and stores the pending
// challenge under the configured TTL.
func RunCreateMFAChallenge(ctx context.Context, accountID string, deps LoginDeps) (string, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MapChallengeStoreError == nil {
		deps.MapChallengeStoreError = func(error) error { return deps.Errors.Unavailable }
	}
	if deps.SaveChallenge == nil || deps.NewChallengeID == nil {
		return "", deps.Errors.EngineNotReady
	}

	challengeID, err := deps.NewChallengeID()
	if err != nil {
		return "", deps.Errors.Unavailable
	}

	ttl := deps.MFAChallengeTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	record := &ChallengeRecord{
		AccountID: accountID,
		ExpiresAt: deps.Now().Add(ttl).Unix(),
		Attempts:  0,
	}
	if err := deps.SaveChallenge(ctx, challengeID, record, ttl); err != nil {
		return "", deps.MapChallengeStoreError(err)
	}
	return challengeID, nil
}

func runIssueSessionToken(
	ctx context.Context,
	identifier string,
	source string,
	account AccountRecord,
	extraMetadata map[string]string,
	deps LoginDeps,
) (*LoginResult, error) {
	token, expiresAt, err := deps.IssueToken(account.ID, account.Username, account.Role)
	if err != nil {
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, account.ID, err, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "token_issue_failed",
			}
		})
		return nil, err
	}

	if deps.ResetLoginRate != nil {
		if err := deps.ResetLoginRate(ctx, identifier, source); err != nil {
			deps.Warn("login limiter reset failed", "identifier", identifier)
		}
	}

	deps.EmitAudit(ctx, deps.Events.Login, true, account.ID, nil, func() map[string]string {
		metadata := map[string]string{
			"identifier": identifier,
		}
		for k, v := range extraMetadata {
			metadata[k] = v
		}
		return metadata
	})

	return &LoginResult{
		Token:          token,
		TokenExpiresAt: expiresAt.Unix(),
		AccountID:      account.ID,
		Username:       account.Username,
		Role:           account.Role,
	}, nil
}

func failCredentialAttempt(
	ctx context.Context,
	identifier string,
	source string,
	accountID string,
	reason string,
	deps LoginDeps,
) (*LoginResult, error) {
	if deps.IncrementLoginRate != nil {
		if err := deps.IncrementLoginRate(ctx, identifier, source); err != nil {
			deps.EmitAudit(ctx, deps.Events.LoginFailed, false, accountID, err, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
					"reason":     "rate_limited",
				}
			})
			return nil, err
		}
	}
	deps.EmitAudit(ctx, deps.Events.LoginFailed, false, accountID, deps.Errors.InvalidCredentials, func() map[string]string {
		return map[string]string{
			"identifier": identifier,
			"reason":     reason,
		}
	})
	return nil, deps.Errors.InvalidCredentials
}

func failMFAAttempt(
	ctx context.Context,
	challengeID string,
	accountID string,
	cause error,
	deps LoginDeps,
) (*LoginResult, error) {
	exceeded, recErr := deps.RecordChallengeFailure(ctx, challengeID, deps.MFAMaxAttempts)
	if recErr != nil {
		mapped := deps.MapChallengeStoreError(recErr)
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, accountID, mapped, nil)
		return nil, mapped
	}
	if exceeded {
		deps.EmitAudit(ctx, deps.Events.LoginFailed, false, accountID, deps.Errors.AttemptsExceeded, nil)
		return nil, deps.Errors.AttemptsExceeded
	}
	if cause == nil {
		cause = deps.Errors.InvalidMFACode
	}
	deps.EmitAudit(ctx, deps.Events.LoginFailed, false, accountID, cause, func() map[string]string {
		return map[string]string{
			"reason": "code_mismatch",
		}
	})
	return nil, cause
}
