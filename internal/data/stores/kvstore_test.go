package stores

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/brandonszeto/todo/internal/core/kv"
	"github.com/brandonszeto/todo/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestKVStore(t *testing.T) (*KVStore, *fakeClock) {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	clock := &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
	return NewKVStore(database).WithClock(clock.Now), clock
}

func TestKVStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestKVStore(t)

	type nextItem struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}

	require.NoError(t, store.Set(ctx, "next:item", nextItem{ID: "6X7", Content: "Pay rent"}))

	var got nextItem
	require.NoError(t, store.Get(ctx, "next:item", &got))
	assert.Equal(t, nextItem{ID: "6X7", Content: "Pay rent"}, got)
}

func TestKVStore_GetNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestKVStore(t)

	var v string
	err := store.Get(ctx, "nonexistent", &v)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.True(t, IsNotFoundError(err))
}

func TestKVStore_SetOverwriteKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestKVStore(t)

	require.NoError(t, store.Set(ctx, "key", "first"))
	first, err := store.GetRaw(ctx, "key")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	require.NoError(t, store.Set(ctx, "key", "second"))

	var got string
	require.NoError(t, store.Get(ctx, "key", &got))
	assert.Equal(t, "second", got)

	second, err := store.GetRaw(ctx, "key")
	require.NoError(t, err)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestKVStore_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestKVStore(t)

	has, err := store.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.Set(ctx, "key", true))
	has, err = store.Has(ctx, "key")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete(ctx, "key"))
	has, err = store.Has(ctx, "key")
	require.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, store.Delete(ctx, "key"), "deleting a missing key is not an error")
}

func TestKVStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestKVStore(t)

	require.NoError(t, store.SetTTL(ctx, "update-check:latest", "v1.2.0", time.Hour))

	var got string
	require.NoError(t, store.Get(ctx, "update-check:latest", &got))
	assert.Equal(t, "v1.2.0", got)

	entry, err := store.GetRaw(ctx, "update-check:latest")
	require.NoError(t, err)
	require.NotNil(t, entry.ExpiresAt)
	assert.True(t, entry.ExpiresAt.Equal(clock.now.Add(time.Hour)))

	clock.Advance(time.Hour)

	err = store.Get(ctx, "update-check:latest", &got)
	require.ErrorIs(t, err, sql.ErrNoRows)

	has, err := store.Has(ctx, "update-check:latest")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestKVStore_ListKeysAndSweep(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestKVStore(t)

	require.NoError(t, store.Set(ctx, "b", 1))
	require.NoError(t, store.Set(ctx, "a", 2))
	require.NoError(t, store.SetTTL(ctx, "c", 3, time.Minute))

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	clock.Advance(2 * time.Minute)

	keys, err = store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, store.SweepExpired(ctx))

	_, err = store.GetRaw(ctx, "c")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestKVStore_Scoped(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestKVStore(t)

	ids := kv.Scoped[string](store, "next")
	require.NoError(t, ids.Set(ctx, "item", "42"))

	got, err := ids.Get(ctx, "item")
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"next:item"}, keys)
}
