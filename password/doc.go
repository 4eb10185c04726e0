// Package password implements password hashing and verification with bcrypt.
//
// # Output format
//
// Digests use the bcrypt modular crypt format, salt and work factor
// embedded:
//
//	$2a$<cost>$<salt+hash>
//
// The [Hasher] supports transparent work-factor upgrades: if a stored
// digest was produced at a lower cost, [Hasher.NeedsUpgrade] returns true
// so the caller can re-hash on the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Credential lookup and
// authentication decisions belong to the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive digests.
//   - Import any other adminauth package.
//   - Log plaintext passwords.
package password
