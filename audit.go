package adminauth

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/prismacost/adminauth/internal/audit"
)

type auditErrorCode string

const (
	auditErrInvalidCredentials auditErrorCode = "invalid_credentials"
	auditErrInvalidCode        auditErrorCode = "invalid_code"
	auditErrChallengeInvalid   auditErrorCode = "challenge_invalid"
	auditErrChallengeExpired   auditErrorCode = "challenge_expired"
	auditErrAttemptsExceeded   auditErrorCode = "attempts_exceeded"
	auditErrRateLimited        auditErrorCode = "rate_limited"
	auditErrUnavailable        auditErrorCode = "backend_unavailable"
	auditErrInternal           auditErrorCode = "internal_error"
)

// emitAudit appends one audit record for a terminal login transition. The
// record is handed to the async dispatcher; the login path never blocks on
// the sink unless the buffer is full and DropIfFull is off.
func (e *Engine) emitAudit(
	ctx context.Context,
	action string,
	success bool,
	accountID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	record := internalaudit.Record{
		Timestamp: time.Now().UTC(),
		Action:    action,
		AccountID: accountID,
		Source:    sourceFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditCodeForError(err); code != "" {
		record.Error = string(code)
	}

	e.audit.Emit(ctx, record)
}

func auditCodeForError(err error) auditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrInvalidMFACode):
		return auditErrInvalidCode
	case errors.Is(err, ErrMFAChallengeInvalid):
		return auditErrChallengeInvalid
	case errors.Is(err, ErrMFAChallengeExpired):
		return auditErrChallengeExpired
	case errors.Is(err, ErrMFAAttemptsExceeded):
		return auditErrAttemptsExceeded
	case errors.Is(err, ErrLoginRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrServiceUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
