// Package stores implements the persistent cache on top of the SQLite
// database in internal/data/db.
package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brandonszeto/todo/internal/core/kv"
	"github.com/brandonszeto/todo/internal/data/db"
)

// KVStore implements kv.KV using SQLite. Expired entries are deleted when
// they are read and in bulk by SweepExpired.
type KVStore struct {
	q   *db.Queries
	now func() time.Time
}

var (
	_ kv.KV      = (*KVStore)(nil)
	_ kv.Sweeper = (*KVStore)(nil)
)

// NewKVStore creates a new SQLite-backed KV store.
func NewKVStore(database *db.DB) *KVStore {
	return &KVStore{q: database.Queries(), now: time.Now}
}

// WithClock replaces the clock used for TTL bookkeeping.
func (s *KVStore) WithClock(now func() time.Time) *KVStore {
	s.now = now
	return s
}

func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	entry, err := s.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return fmt.Errorf("kv decode %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	return s.put(ctx, key, value, nil)
}

func (s *KVStore) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	expires := s.now().Add(ttl)
	return s.put(ctx, key, value, &expires)
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.q.KVDelete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.GetRaw(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case IsNotFoundError(err):
		return false, nil
	default:
		return false, err
	}
}

// ListKeys returns all live keys in sorted order.
func (s *KVStore) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := s.q.KVListKeys(ctx, s.now().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}
	return keys, nil
}

// GetRaw returns the entry for key with its timestamps. Missing and expired
// keys yield an error wrapping sql.ErrNoRows; an expired row is removed.
func (s *KVStore) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	row, err := s.q.KVGet(ctx, key)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get %q: %w", key, err)
	}

	entry := toEntry(row)
	if entry.Expired(s.now()) {
		if err := s.q.KVDelete(ctx, key); err != nil {
			return kv.Entry{}, fmt.Errorf("kv expire %q: %w", key, err)
		}
		return kv.Entry{}, fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}

	return entry, nil
}

// SweepExpired deletes all entries whose TTL has passed.
func (s *KVStore) SweepExpired(ctx context.Context) error {
	if err := s.q.KVSweepExpired(ctx, s.now().UnixNano()); err != nil {
		return fmt.Errorf("kv sweep: %w", err)
	}
	return nil
}

func (s *KVStore) put(ctx context.Context, key string, value any, expires *time.Time) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv encode %q: %w", key, err)
	}

	now := s.now().UnixNano()
	params := db.KVSetParams{
		Key:       key,
		Value:     data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if expires != nil {
		params.ExpiresAt = sql.NullInt64{Int64: expires.UnixNano(), Valid: true}
	}

	if err := s.q.KVSet(ctx, params); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func toEntry(row db.KvStore) kv.Entry {
	entry := kv.Entry{
		Key:       row.Key,
		Value:     json.RawMessage(row.Value),
		CreatedAt: time.Unix(0, row.CreatedAt),
		UpdatedAt: time.Unix(0, row.UpdatedAt),
	}
	if row.ExpiresAt.Valid {
		at := time.Unix(0, row.ExpiresAt.Int64)
		entry.ExpiresAt = &at
	}
	return entry
}
