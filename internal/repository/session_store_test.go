package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*CacheSessionStore, *cache.MemoryCache) {
	t.Helper()
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mc.Close() })
	return NewCacheSessionStore(mc, time.Hour, time.Second), mc
}

func msg(role models.Role, content string) models.ChatMessage {
	return models.ChatMessage{Role: role, Content: content}
}

func TestSessionStore_CreateGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	require.NoError(t, s.Create(ctx, &models.ChatSession{ID: "a", History: []models.ChatMessage{msg(models.RoleAssistant, "hi")}}))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	require.Len(t, got.History, 1)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = s.Append(ctx, "missing", msg(models.RoleUser, "x"))
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestSessionStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Create(ctx, &models.ChatSession{ID: "a"}))
	require.NoError(t, s.Create(ctx, &models.ChatSession{ID: "b"}))

	_, err := s.Append(ctx, "a", msg(models.RoleUser, "q"), msg(models.RoleAssistant, "r"))
	require.NoError(t, err)

	a, _ := s.Get(ctx, "a")
	b, _ := s.Get(ctx, "b")
	assert.Len(t, a.History, 2)
	assert.Empty(t, b.History)
}

func TestSessionStore_ConcurrentAppendsKeepPairs(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.Create(ctx, &models.ChatSession{ID: "a"}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Append(ctx, "a", msg(models.RoleUser, "q"), msg(models.RoleAssistant, "r"))
		}()
	}
	wg.Wait()

	a, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 0, len(a.History)%2)
	for i := 0; i < len(a.History); i += 2 {
		assert.Equal(t, models.RoleUser, a.History[i].Role)
		assert.Equal(t, models.RoleAssistant, a.History[i+1].Role)
	}
}

func TestSessionStore_BusyWhenLockHeld(t *testing.T) {
	ctx := context.Background()
	s, mc := newStore(t)
	require.NoError(t, s.Create(ctx, &models.ChatSession{ID: "a"}))

	ok, err := mc.TryLock(ctx, cache.LockKey(sessionKey("a")), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.Append(ctx, "a", msg(models.RoleUser, "q"))
	assert.ErrorIs(t, err, models.ErrSessionBusy)
}

func TestSessionStore_LayeredReplicasKeepEveryTurn(t *testing.T) {
	ctx := context.Background()
	remote := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	replicaA := cache.NewLayeredCache(remote, cache.WithLayeredMemoryTTL(time.Hour))
	replicaB := cache.NewLayeredCache(remote, cache.WithLayeredMemoryTTL(time.Hour))
	t.Cleanup(func() {
		_ = replicaA.Close()
		_ = replicaB.Close()
	})
	a := NewCacheSessionStore(replicaA, time.Hour, time.Second)
	b := NewCacheSessionStore(replicaB, time.Hour, time.Second)

	require.NoError(t, a.Create(ctx, &models.ChatSession{ID: "s", History: []models.ChatMessage{msg(models.RoleAssistant, "hi")}}))
	_, err := b.Get(ctx, "s")
	require.NoError(t, err)

	_, err = a.Append(ctx, "s", msg(models.RoleUser, "q1"), msg(models.RoleAssistant, "a1"))
	require.NoError(t, err)
	got, err := b.Append(ctx, "s", msg(models.RoleUser, "q2"), msg(models.RoleAssistant, "a2"))
	require.NoError(t, err)

	contents := func(sess *models.ChatSession) []string {
		out := make([]string, len(sess.History))
		for i, m := range sess.History {
			out[i] = m.Content
		}
		return out
	}
	want := []string{"hi", "q1", "a1", "q2", "a2"}
	assert.Equal(t, want, contents(got))

	fresh, err := cache.GetFreshJSON[models.ChatSession](ctx, replicaA, sessionKey("s"))
	require.NoError(t, err)
	assert.Equal(t, want, contents(&fresh))
}
