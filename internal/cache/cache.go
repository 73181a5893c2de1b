// Package cache holds the read-through cache used for derived values such as
// company ratings. A miss is never an error.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values by key, plus monotonic version counters
// that let readers key their entries by generation. A writer bumps the
// counter after committing, so a fill computed before the commit lands under
// a version no later reader asks for.
type Cache interface {
	// Get decodes the value under key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	// Version returns the counter under key, zero when it was never bumped.
	Version(ctx context.Context, key string) (int64, error)
	// Bump increments the counters under keys.
	Bump(ctx context.Context, keys ...string) error
}

// Noop is a Cache that never stores anything. It is used when no Redis
// address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Version(context.Context, string) (int64, error)        { return 0, nil }
func (Noop) Bump(context.Context, ...string) error                 { return nil }
