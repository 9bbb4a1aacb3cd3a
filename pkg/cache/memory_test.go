package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestMemory(t *testing.T, opts ...MemoryOption) (*MemoryCache, *fakeClock) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts = append([]MemoryOption{WithMemoryCleanup(0), WithMemoryClock(clk.Now)}, opts...)
	mc := NewMemoryCache(opts...)
	t.Cleanup(func() { _ = mc.Close() })
	return mc, clk
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Minute))
	got, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	got[0] = 'x'
	again, _ := mc.Get(ctx, "a")
	assert.Equal(t, []byte("1"), again, "returned slices must not alias storage")

	require.NoError(t, mc.Delete(ctx, "a"))
	_, err = mc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestMemory(t)

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Second))
	ok, _ := mc.Exists(ctx, "k")
	assert.True(t, ok)

	clk.Advance(2 * time.Second)
	ok, _ = mc.Exists(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Second))
	extended, err := mc.Expire(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, extended)
	clk.Advance(time.Minute)
	_, err = mc.Get(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t, WithMemoryMaxSize(2))

	require.NoError(t, mc.Set(ctx, "a", []byte("a"), 0))
	require.NoError(t, mc.Set(ctx, "b", []byte("b"), 0))
	_, _ = mc.Get(ctx, "a")
	require.NoError(t, mc.Set(ctx, "c", []byte("c"), 0))

	assert.Equal(t, 2, mc.Len())
	_, err := mc.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryCache_TryLock(t *testing.T) {
	ctx := context.Background()
	mc, clk := newTestMemory(t)

	ok, err := mc.TryLock(ctx, "l", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.TryLock(ctx, "l", time.Second)
	assert.False(t, ok)

	clk.Advance(2 * time.Second)
	ok, _ = mc.TryLock(ctx, "l", time.Second)
	assert.True(t, ok, "expired lock can be retaken")

	require.NoError(t, mc.Unlock(ctx, "l"))
	ok, _ = mc.TryLock(ctx, "l", time.Second)
	assert.True(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	mc, _ := newTestMemory(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, SetJSON(ctx, mc, "p", payload{Name: "x", Count: 3}, 0))

	got, err := GetJSON[payload](ctx, mc, "p")
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "x", Count: 3}, got)

	_, err = GetJSON[payload](ctx, mc, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestLayeredCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	remote, _ := newTestMemory(t)
	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(time.Hour))
	t.Cleanup(func() { _ = lc.memCache.Close() })

	require.NoError(t, remote.Set(ctx, "k", []byte("remote"), 0))
	got, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote"), got)

	require.NoError(t, lc.Set(ctx, "k", []byte("both"), 0))
	fromRemote, _ := remote.Get(ctx, "k")
	assert.Equal(t, []byte("both"), fromRemote)

	require.NoError(t, lc.Delete(ctx, "k"))
	_, err = lc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	ok, _ := lc.TryLock(ctx, "lock", time.Second)
	assert.True(t, ok)
	ok, _ = remote.TryLock(ctx, "lock", time.Second)
	assert.False(t, ok, "locks live in the remote layer")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "chat:abc", GenerateKey("chat", "abc"))
	assert.Equal(t, "chat:abc:lock", LockKey(GenerateKey("chat", "abc")))
}

func TestLayeredCache_GetFreshBypassesLocalCopy(t *testing.T) {
	ctx := context.Background()
	remote, _ := newTestMemory(t)
	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(time.Hour))
	t.Cleanup(func() { _ = lc.memCache.Close() })

	require.NoError(t, lc.Set(ctx, "k", []byte("v1"), 0))
	require.NoError(t, remote.Set(ctx, "k", []byte("v2"), 0))

	stale, err := lc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), stale)

	fresh, err := GetFresh(ctx, lc, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), fresh)

	refreshed, _ := lc.Get(ctx, "k")
	assert.Equal(t, []byte("v2"), refreshed)

	plain, err := GetFresh(ctx, remote, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), plain)
}
