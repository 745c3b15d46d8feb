package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/brandonszeto/todo/internal/core/kv"
	"github.com/brandonszeto/todo/internal/data/db"
	"github.com/brandonszeto/todo/internal/data/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T, now *time.Time) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database).WithClock(func() time.Time { return *now })
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	store := newTestKV(t, &now)

	next := kv.Scoped[string](store, "next")
	update := kv.Scoped[string](store, "update-check")

	require.NoError(t, next.Set(ctx, "item", "6X7"))
	require.NoError(t, update.Set(ctx, "item", "v1.0.0"))

	a, err := next.Get(ctx, "item")
	require.NoError(t, err)
	assert.Equal(t, "6X7", a)

	b, err := update.Get(ctx, "item")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", b)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"next:item", "update-check:item"}, keys)
	assert.Equal(t, "next:item", next.Key("item"))
}

func TestTypedKV_Lookup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	store := newTestKV(t, &now)
	typed := kv.Scoped[int](store, "ns")

	_, ok, err := typed.Lookup(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, typed.SetTTL(ctx, "count", 3, time.Minute))
	v, ok, err := typed.Lookup(ctx, "count")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	now = now.Add(time.Minute)
	_, ok, err = typed.Lookup(ctx, "count")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypedKV_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	store := newTestKV(t, &now)
	typed := kv.Scoped[string](store, "ns")

	require.NoError(t, typed.Set(ctx, "key", "val"))
	has, err := typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, typed.Delete(ctx, "key"))
	has, err = typed.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestTypedKV_StructValue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	store := newTestKV(t, &now)

	type release struct {
		Tag       string    `json:"tag"`
		CheckedAt time.Time `json:"checked_at"`
	}

	typed := kv.Scoped[release](store, "update-check")
	require.NoError(t, typed.Set(ctx, "latest", release{Tag: "v1.2.0", CheckedAt: now}))

	got, err := typed.Get(ctx, "latest")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", got.Tag)
	assert.True(t, got.CheckedAt.Equal(now))
}

func TestEntry_Expired(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	assert.False(t, kv.Entry{}.Expired(now))
	assert.True(t, kv.Entry{ExpiresAt: &past}.Expired(now))
	assert.True(t, kv.Entry{ExpiresAt: &now}.Expired(now))
	assert.False(t, kv.Entry{ExpiresAt: &future}.Expired(now))
}
