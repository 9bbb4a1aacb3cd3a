package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/domain/repository"
	"FinDash/pkg/cache"
)

const (
	sessionKeyPrefix = "chat:session"
	lockAttempts     = 5
	lockBackoff      = 20 * time.Millisecond
)

// CacheSessionStore keeps chat sessions as JSON documents in a cache.Service.
// Appends are serialised per session with the cache's advisory lock.
type CacheSessionStore struct {
	cache   cache.Service
	ttl     time.Duration
	lockTTL time.Duration
	now     func() time.Time
}

// NewCacheSessionStore creates a session store over c.
func NewCacheSessionStore(c cache.Service, ttl, lockTTL time.Duration) *CacheSessionStore {
	return &CacheSessionStore{cache: c, ttl: ttl, lockTTL: lockTTL, now: time.Now}
}

var _ repository.SessionStore = (*CacheSessionStore)(nil)

func (s *CacheSessionStore) Create(ctx context.Context, sess *models.ChatSession) error {
	if err := cache.SetJSON(ctx, s.cache, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("create session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *CacheSessionStore) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	return s.load(ctx, id, cache.GetJSON[models.ChatSession])
}

func (s *CacheSessionStore) load(ctx context.Context, id string,
	get func(context.Context, cache.Service, string) (models.ChatSession, error),
) (*models.ChatSession, error) {
	sess, err := get(ctx, s.cache, sessionKey(id))
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *CacheSessionStore) Append(ctx context.Context, id string, msgs ...models.ChatMessage) (*models.ChatSession, error) {
	key := sessionKey(id)
	lock := cache.LockKey(key)

	if err := s.acquire(ctx, lock); err != nil {
		return nil, err
	}
	defer func() {
		// Lock expiry bounds the damage if this fails.
		_ = s.cache.Unlock(context.WithoutCancel(ctx), lock)
	}()

	// A layered cache may hold a stale local copy; only the locked
	// remote value is safe to extend.
	sess, err := s.load(ctx, id, cache.GetFreshJSON[models.ChatSession])
	if err != nil {
		return nil, err
	}
	sess.History = append(sess.History, msgs...)
	sess.UpdatedAt = s.now()

	if err := cache.SetJSON(ctx, s.cache, key, sess, s.ttl); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	return sess, nil
}

func (s *CacheSessionStore) acquire(ctx context.Context, lock string) error {
	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := s.cache.TryLock(ctx, lock, s.lockTTL)
		if err != nil {
			return fmt.Errorf("lock %s: %w", lock, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockBackoff * time.Duration(attempt+1)):
		}
	}
	return models.ErrSessionBusy
}

func sessionKey(id string) string {
	return cache.GenerateKey(sessionKeyPrefix, id)
}
