package pgstore

import (
	"context"
	"database/sql"
	"fmt"
)

// Branding returns every branding configuration key. Missing rows mean an
// unconfigured installation and return an empty map.
func (s *Store) Branding(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM branding_config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query branding: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan branding: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan branding: %w", err)
	}
	return out, nil
}

// SetBranding upserts the given branding keys inside one transaction so a
// partial update never becomes visible.
func (s *Store) SetBranding(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin branding update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO branding_config (key, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			return fmt.Errorf("upsert branding %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit branding update: %w", err)
	}
	return nil
}
