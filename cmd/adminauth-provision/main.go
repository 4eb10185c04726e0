// Command adminauth-provision creates administration accounts directly in
// the database. It exists for bootstrap and operations; account signup is
// not part of the login service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prismacost/adminauth"
	"github.com/prismacost/adminauth/password"
	"github.com/prismacost/adminauth/pgstore"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dsn        = flag.String("database-dsn", os.Getenv("ADMINAUTH_DATABASE_DSN"), "PostgreSQL DSN")
		username   = flag.String("username", "", "account username")
		email      = flag.String("email", "", "account email")
		role       = flag.String("role", adminauth.RoleAdmin, "account role: admin or user")
		mfaSecret  = flag.String("mfa-secret", "", "base32 TOTP secret, empty leaves MFA disabled")
		passwdEnv  = flag.String("password-env", "ADMINAUTH_PROVISION_PASSWORD", "environment variable holding the plaintext password")
		runMigrate = flag.Bool("migrate", false, "apply schema migrations before inserting")
	)
	flag.Parse()

	if *dsn == "" {
		return errors.New("database DSN is required")
	}
	if *username == "" || *email == "" {
		return errors.New("username and email are required")
	}
	if *role != adminauth.RoleAdmin && *role != adminauth.RoleUser {
		return fmt.Errorf("unknown role %q", *role)
	}
	plaintext := os.Getenv(*passwdEnv)
	if plaintext == "" {
		return fmt.Errorf("password must be provided through %s", *passwdEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := pgstore.Open(ctx, *dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	if *runMigrate {
		if err := store.RunMigrations(ctx); err != nil {
			return err
		}
	}

	hasher, err := password.New(password.Config{})
	if err != nil {
		return err
	}
	digest, err := hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	account := &adminauth.Account{
		ID:           uuid.NewString(),
		Username:     *username,
		Email:        *email,
		PasswordHash: digest,
		Role:         *role,
		Status:       adminauth.StatusActive,
		MFAEnabled:   *mfaSecret != "",
		MFASecret:    normalizeSecret(*mfaSecret),
	}
	if err := store.CreateAccount(ctx, account); err != nil {
		return err
	}

	fmt.Printf("created account %s (%s, role=%s, mfa=%t)\n",
		account.ID, account.Username, account.Role, account.MFAEnabled)
	return nil
}

func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.TrimRight(strings.TrimSpace(secret), "="))
}
