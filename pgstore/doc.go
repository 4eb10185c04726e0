// Package pgstore provides the PostgreSQL persistence layer: the account
// provider backing the authentication engine, the durable audit sink, and
// the branding configuration table. Schema migrations are embedded and run
// through goose.
package pgstore
