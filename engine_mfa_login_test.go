package adminauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

// RFC 6238 test secret, base32 of "12345678901234567890".
const testMFASecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func mfaAccount(t *testing.T, id, username string) *Account {
	t.Helper()
	account := activeAccount(t, id, username)
	account.MFAEnabled = true
	account.MFASecret = testMFASecret
	return account
}

func mfaCodeForNow(t *testing.T, cfg TOTPConfig) string {
	t.Helper()
	key, err := decodeMFASecret(testMFASecret)
	if err != nil {
		t.Fatalf("decodeMFASecret failed: %v", err)
	}
	counter := time.Now().Unix() / int64(cfg.Period)
	code, err := hotpCode(key, counter, cfg.Digits, cfg.Algorithm)
	if err != nil {
		t.Fatalf("hotpCode failed: %v", err)
	}
	return code
}

func TestSubmitCredentialsReturnsChallengeForMFAAccount(t *testing.T) {
	provider := newMockAccountProvider(mfaAccount(t, "u1", "alice"))
	engine, _, client, _ := newLoginTestEngine(t, loginTestConfig(), provider)

	result, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("SubmitCredentials failed: %v", err)
	}
	if !result.MFARequired || result.Challenge == "" {
		t.Fatalf("expected MFA challenge, got %+v", result)
	}
	if result.Token != "" {
		t.Fatal("expected no token before MFA confirmation")
	}
	if exists := client.Exists(context.Background(), "amfa:"+result.Challenge).Val(); exists != 1 {
		t.Fatal("expected challenge key in redis")
	}
}

func TestSubmitMFAConfirmsAndIssuesToken(t *testing.T) {
	cfg := loginTestConfig()
	provider := newMockAccountProvider(mfaAccount(t, "u1", "alice"))
	engine, _, client, sink := newLoginTestEngine(t, cfg, provider)

	result, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("SubmitCredentials failed: %v", err)
	}

	confirmed, err := engine.SubmitMFA(context.Background(), result.Challenge, mfaCodeForNow(t, cfg.TOTP))
	if err != nil {
		t.Fatalf("SubmitMFA failed: %v", err)
	}
	if confirmed.MFARequired || confirmed.Token == "" {
		t.Fatalf("expected completed login, got %+v", confirmed)
	}
	if confirmed.AccountID != "u1" {
		t.Fatalf("unexpected account in result: %+v", confirmed)
	}
	if exists := client.Exists(context.Background(), "amfa:"+result.Challenge).Val(); exists != 0 {
		t.Fatal("expected challenge to be deleted after confirmation")
	}

	record := nextAuditRecord(t, sink)
	if record.Action != AuditActionLogin || !record.Success {
		t.Fatalf("unexpected audit record: %+v", record)
	}
	if record.Metadata["mfa"] != "totp" {
		t.Fatalf("expected mfa metadata on audit record, got %+v", record.Metadata)
	}
}

func TestSubmitMFAWrongCodeConsumesAttempts(t *testing.T) {
	cfg := loginTestConfig()
	cfg.MFALogin.MaxAttempts = 2
	provider := newMockAccountProvider(mfaAccount(t, "u1", "alice"))
	engine, _, client, _ := newLoginTestEngine(t, cfg, provider)

	result, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("SubmitCredentials failed: %v", err)
	}

	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, "000000"); !errors.Is(err, ErrInvalidMFACode) {
		t.Fatalf("expected ErrInvalidMFACode, got %v", err)
	}
	if exists := client.Exists(context.Background(), "amfa:"+result.Challenge).Val(); exists != 1 {
		t.Fatal("expected challenge to survive the first failed attempt")
	}

	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, "000000"); !errors.Is(err, ErrMFAAttemptsExceeded) {
		t.Fatalf("expected ErrMFAAttemptsExceeded, got %v", err)
	}
	if exists := client.Exists(context.Background(), "amfa:"+result.Challenge).Val(); exists != 0 {
		t.Fatal("expected challenge to be deleted after exhausting attempts")
	}

	// The handle is dead; even the right code cannot revive it.
	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, mfaCodeForNow(t, cfg.TOTP)); !errors.Is(err, ErrMFAChallengeInvalid) {
		t.Fatalf("expected ErrMFAChallengeInvalid, got %v", err)
	}
}

func TestSubmitMFAChallengeExpires(t *testing.T) {
	cfg := loginTestConfig()
	cfg.MFALogin.ChallengeTTL = 30 * time.Second
	provider := newMockAccountProvider(mfaAccount(t, "u1", "alice"))
	engine, mr, _, _ := newLoginTestEngine(t, cfg, provider)

	result, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("SubmitCredentials failed: %v", err)
	}

	mr.FastForward(time.Minute)
	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, mfaCodeForNow(t, cfg.TOTP)); !errors.Is(err, ErrMFAChallengeInvalid) {
		t.Fatalf("expected ErrMFAChallengeInvalid after expiry, got %v", err)
	}
}

func TestSubmitMFAUnknownChallenge(t *testing.T) {
	provider := newMockAccountProvider(mfaAccount(t, "u1", "alice"))
	engine, _, _, _ := newLoginTestEngine(t, loginTestConfig(), provider)

	if _, err := engine.SubmitMFA(context.Background(), "no-such-challenge", "000000"); !errors.Is(err, ErrMFAChallengeInvalid) {
		t.Fatalf("expected ErrMFAChallengeInvalid, got %v", err)
	}
	if _, err := engine.SubmitMFA(context.Background(), "", "000000"); !errors.Is(err, ErrMFAChallengeInvalid) {
		t.Fatalf("expected ErrMFAChallengeInvalid for empty handle, got %v", err)
	}
}

func TestSubmitMFASingleUse(t *testing.T) {
	cfg := loginTestConfig()
	provider := newMockAccountProvider(mfaAccount(t, "u1", "alice"))
	engine, _, _, _ := newLoginTestEngine(t, cfg, provider)

	result, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("SubmitCredentials failed: %v", err)
	}

	code := mfaCodeForNow(t, cfg.TOTP)
	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, code); err != nil {
		t.Fatalf("first SubmitMFA failed: %v", err)
	}
	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, code); !errors.Is(err, ErrMFAChallengeInvalid) {
		t.Fatalf("expected second redemption to fail, got %v", err)
	}
}

func TestSubmitCredentialsFailsClosedOnMissingMFASecret(t *testing.T) {
	account := activeAccount(t, "u1", "alice")
	account.MFAEnabled = true
	account.MFASecret = ""
	provider := newMockAccountProvider(account)
	engine, _, _, _ := newLoginTestEngine(t, loginTestConfig(), provider)

	if _, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123"); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable for misconfigured MFA, got %v", err)
	}
}

func TestSubmitMFABlockedAccountInvalidatesChallenge(t *testing.T) {
	cfg := loginTestConfig()
	account := mfaAccount(t, "u1", "alice")
	provider := newMockAccountProvider(account)
	engine, _, client, _ := newLoginTestEngine(t, cfg, provider)

	result, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("SubmitCredentials failed: %v", err)
	}

	// Account gets blocked between the two steps.
	provider.mu.Lock()
	provider.accounts["u1"].Status = StatusBlocked
	provider.mu.Unlock()

	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, mfaCodeForNow(t, cfg.TOTP)); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blocked account, got %v", err)
	}
	if exists := client.Exists(context.Background(), "amfa:"+result.Challenge).Val(); exists != 0 {
		t.Fatal("expected challenge to be deleted for blocked account")
	}
}

func TestSubmitMFARedisOutage(t *testing.T) {
	cfg := loginTestConfig()
	provider := newMockAccountProvider(mfaAccount(t, "u1", "alice"))
	engine, mr, _, _ := newLoginTestEngine(t, cfg, provider)

	result, err := engine.SubmitCredentials(context.Background(), "alice", "correct-password-123")
	if err != nil {
		t.Fatalf("SubmitCredentials failed: %v", err)
	}

	mr.SetError("connection refused")
	defer mr.SetError("")

	if _, err := engine.SubmitMFA(context.Background(), result.Challenge, mfaCodeForNow(t, cfg.TOTP)); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable during outage, got %v", err)
	}
}
