// Package audit implements async dispatching of authentication audit records.
//
// # Components
//
//   - [Sink]: interface for record consumers (channel, JSON writer, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Record]: one append-only entry per terminal login transition.
//
// # Architecture boundaries
//
// This package owns record buffering and sink delivery. It does NOT decide
// which records to emit; that responsibility belongs to the Engine and the
// flow functions.
package audit
