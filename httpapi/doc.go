// Package httpapi exposes the authentication engine over HTTP/JSON.
//
// # Endpoints
//
//   - POST /api/auth/login: credential step, returns a token or an MFA
//     challenge handle.
//   - POST /api/auth/verify-mfa: code step, redeems the challenge handle.
//   - POST /api/auth/verify: validates a presented session token.
//   - GET  /health: backend reachability.
//   - GET  /api/admin/branding, PUT /api/admin/branding: branding
//     configuration, admin role required.
//
// # Error surface
//
// Failure responses carry a stable machine-readable error kind and nothing
// else. Credential failures are byte-identical regardless of cause so the
// API never reveals whether an account exists.
package httpapi
