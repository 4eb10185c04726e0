package adminauth

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/prismacost/adminauth/internal/audit"
)

// Account roles. The store enforces the enumeration; the engine only
// copies the value into token claims.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account lifecycle states.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Account is the credential record the engine reads from the store. It is
// created and mutated by out-of-scope provisioning; the engine treats it
// as read-only.
//
// Invariant: MFASecret is non-empty if and only if MFAEnabled is true.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	MFAEnabled   bool
	MFASecret    string // base32, no padding
	CreatedAt    time.Time
}

// AccountProvider is the credential store contract. FindAccount matches the
// identifier against username or email exactly (case-sensitive) and returns
// [ErrAccountNotFound] when nothing matches; any other error is treated as
// an infrastructure fault and surfaces to callers as [ErrServiceUnavailable].
type AccountProvider interface {
	FindAccount(ctx context.Context, identifier string) (*Account, error)
	FindAccountByID(ctx context.Context, id string) (*Account, error)
}

// LoginResult is returned by [Engine.SubmitCredentials] and
// [Engine.SubmitMFA]. Either a token is present, or MFARequired is set and
// Challenge carries the opaque handle for the second step.
type LoginResult struct {
	Token          string
	TokenExpiresAt time.Time
	AccountID      string
	Username       string
	Role           string

	MFARequired bool
	Challenge   string
}

// Claims is the verified identity carried by a session token.
type Claims struct {
	AccountID string
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Audit actions appended once per terminal login transition.
const (
	AuditActionLogin       = internalaudit.ActionLogin
	AuditActionLoginFailed = internalaudit.ActionLoginFailed
)

// AuditRecord is one append-only entry per completed or rejected
// authentication attempt.
type AuditRecord = internalaudit.Record

// AuditSink receives [AuditRecord] values from the engine's dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all records.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded records to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
