// Package middleware exposes HTTP middleware adapters built on top of
// adminauth.Engine token verification.
//
// # Guards
//
//   - [Guard] verifies the bearer token and injects claims into the
//     request context.
//   - [RequireRole] additionally requires a specific role claim.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself; all decisions are delegated to
// Engine.VerifyToken.
package middleware
