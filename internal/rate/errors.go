package rate

import "errors"

var (
	// ErrRateLimited reports a spent login attempt budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable reports a Redis infrastructure failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
