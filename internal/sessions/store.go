// Package sessions tracks per-session failed authentication attempts for
// brute-force throttling. Counters are ephemeral: created at zero on first
// contact, incremented on failure, and reset only by session expiry.
package sessions

import "context"

// AttemptStore is the per-session failure counter. Keys are opaque session
// identifiers; counters expire with the session TTL.
type AttemptStore interface {
	// Increment bumps the counter for key, creating it with the store's
	// TTL on first use, and returns the new count.
	Increment(ctx context.Context, key string) (int, error)
	// Count returns the current counter for key, zero if absent/expired.
	Count(ctx context.Context, key string) (int, error)
}
