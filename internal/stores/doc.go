// Package stores provides the Redis-backed, short-lived record store for
// pending MFA login challenges.
//
// # Design
//
// A challenge is a versioned, binary-encoded record persisted in Redis with
// a TTL. RecordFailure uses a WATCH/MULTI optimistic transaction with
// automatic retry on contention, so concurrent code submissions against the
// same challenge never lose an attempt increment. Records are single-use:
// deleted on success, on expiry, and when the attempt budget is exhausted.
//
// # Architecture boundaries
//
// This package owns persistence and concurrency control for transient
// challenge records. It does not verify codes or make authentication
// decisions; those belong to the flow functions in internal/flows.
package stores
