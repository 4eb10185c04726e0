// Package flows contains the pure decision logic for the authentication
// engine.
//
// # Components
//
//   - login.go: credential submission, MFA challenge confirmation, token
//     issuance.
//
// # Architecture boundaries
//
// Flow functions never touch redis, sql, or crypto packages directly. Every
// side effect enters through a deps struct of function fields so the host
// package can wire real stores and tests can wire fakes. Flow-local record
// types keep this package free of host types; the host converts at the call
// boundary.
package flows
