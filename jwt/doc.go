// Package jwt manages session token issuance and verification with a
// symmetric server-held secret and strict validation semantics.
package jwt
