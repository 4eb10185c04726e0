package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/prismacost/adminauth"
	"github.com/prismacost/adminauth/pgstore/migrations"
)

// Store is the PostgreSQL-backed account provider. It satisfies
// [adminauth.AccountProvider] and is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL through the pgx stdlib driver and verifies
// the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection pool. The caller keeps ownership of
// the pool's lifecycle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports backend reachability for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

const accountColumns = `id, username, email, password_hash, role, status, mfa_enabled, COALESCE(mfa_secret, ''), created_at`

// FindAccount looks up an account by username or email exactly. Unknown
// identifiers return [adminauth.ErrAccountNotFound].
func (s *Store) FindAccount(ctx context.Context, identifier string) (*adminauth.Account, error) {
	query := `SELECT ` + accountColumns + `
		 FROM accounts
		 WHERE username = $1 OR email = $1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, identifier))
}

// FindAccountByID looks up an account by its primary key.
func (s *Store) FindAccountByID(ctx context.Context, id string) (*adminauth.Account, error) {
	query := `SELECT ` + accountColumns + `
		 FROM accounts
		 WHERE id = $1`
	return s.scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// CreateAccount inserts a new account row. The caller supplies the ID and
// an already hashed password.
func (s *Store) CreateAccount(ctx context.Context, account *adminauth.Account) error {
	query := `INSERT INTO accounts (id, username, email, password_hash, role, status, mfa_enabled, mfa_secret)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))`
	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.MFAEnabled,
		account.MFASecret,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// SetAccountStatus flips an account between active and blocked.
func (s *Store) SetAccountStatus(ctx context.Context, id, status string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return adminauth.ErrAccountNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanAccount(row rowScanner) (*adminauth.Account, error) {
	var (
		account   adminauth.Account
		createdAt time.Time
	)
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.MFAEnabled,
		&account.MFASecret,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, adminauth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	account.CreatedAt = createdAt.UTC()
	return &account, nil
}
