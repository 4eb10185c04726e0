// Package adminauth provides the authentication core for an administration
// backend: bcrypt password verification, a two-step login state machine with
// an optional TOTP second factor, signed session tokens, and append-only
// audit records for every completed or rejected login.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// adminauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Account, LoginResult, Claims, AuditRecord). All internal
// coordination (flow orchestration, challenge storage, rate limiting, audit
// dispatch) lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its
//     public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Reveal account existence or state through its error surface: every
//     credential rejection is [ErrInvalidCredentials].
//
// # Login state machine
//
// [Engine.SubmitCredentials] verifies identifier and password. Accounts
// without a second factor receive a session token directly. MFA-enabled
// accounts receive a single-use challenge handle instead; the submitted
// password is never held beyond the first step, and the handle carries no
// identity. [Engine.SubmitMFA] redeems the handle against a TOTP code and
// issues the token. [Engine.VerifyToken] validates presented tokens on
// every authenticated request.
package adminauth
