package pgstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/prismacost/adminauth"
)

// AuditSink persists audit records to the audit_log table. It satisfies
// [adminauth.AuditSink]; insert failures are logged and never surfaced to
// the login path.
type AuditSink struct {
	store  *Store
	logger *slog.Logger
}

func NewAuditSink(store *Store, logger *slog.Logger) *AuditSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditSink{store: store, logger: logger}
}

func (s *AuditSink) Emit(ctx context.Context, record adminauth.AuditRecord) {
	var metadata []byte
	if len(record.Metadata) > 0 {
		encoded, err := json.Marshal(record.Metadata)
		if err != nil {
			s.logger.Warn("audit metadata encode failed", "error", err)
		} else {
			metadata = encoded
		}
	}

	query := `INSERT INTO audit_log (occurred_at, action, account_id, source, success, error_code, metadata)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7)`
	_, err := s.store.db.ExecContext(ctx, query,
		record.Timestamp,
		record.Action,
		record.AccountID,
		record.Source,
		record.Success,
		record.Error,
		metadata,
	)
	if err != nil {
		s.logger.Warn("audit insert failed", "action", record.Action, "error", err)
	}
}
