// Package kv defines the small persistent cache used by the CLI to remember
// state between invocations, such as the item last shown by "next" and the
// result of the latest release check.
package kv

import (
	"context"
	"encoding/json"
	"time"
)

// Entry is a raw cache entry with its bookkeeping timestamps.
type Entry struct {
	Key       string
	Value     json.RawMessage
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the entry's TTL has passed at now.
func (e Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// KV is a persistent key-value store. Values are JSON encoded.
// Get on a missing or expired key returns an error wrapping sql.ErrNoRows.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	ListKeys(ctx context.Context) ([]string, error)
	GetRaw(ctx context.Context, key string) (Entry, error)
}

// Sweeper is implemented by stores that can drop expired entries in bulk.
type Sweeper interface {
	SweepExpired(ctx context.Context) error
}
