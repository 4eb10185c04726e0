// Package rate provides the Redis-backed fixed-window login attempt
// limiter: INCR + conditional EXPIRE on the first hit in a window.
//
// Key prefixes:
//   - "al:" login attempts per identifier
//   - "als:" login attempts per source address
//
// The limiter counts failures only; a completed authentication resets the
// window. Policy (budgets, cooldowns, whether source throttling is on)
// comes from the engine configuration.
package rate
