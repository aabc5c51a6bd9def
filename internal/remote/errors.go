package remote

import "errors"

// Error classes surfaced by the gateway. The sync engine only ever matches
// these with errors.Is; everything else is treated as a generic failure.
var (
	ErrUnavailable   = errors.New("backend unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("rate limited")
	ErrQuotaExceeded = errors.New("quota exceeded")
)
