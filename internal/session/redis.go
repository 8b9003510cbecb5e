package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigapp/gig/backend/pkg/redis"
)

// RedisStore keeps the token in Redis so several processes share one login
type RedisStore struct {
	cache   *redis.Cache
	profile string
}

// NewRedisStore creates a store on an enabled Redis client
func NewRedisStore(client *redis.Client, profile string) (*RedisStore, error) {
	if client == nil || !client.Enabled() {
		return nil, errors.New("redis session store requires REDIS_ENABLED=true")
	}
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{
		cache:   redis.NewCache(client, "gig"),
		profile: profile,
	}, nil
}

// Token returns the stored token or ErrNoSession
func (s *RedisStore) Token(ctx context.Context) (string, error) {
	var rec record
	found, err := s.cache.Get(ctx, redis.SessionKey(s.profile), &rec)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	if !found || rec.Token == "" {
		return "", ErrNoSession
	}
	return rec.Token, nil
}

// Save stores the token for redis.TTLSession
func (s *RedisStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := s.cache.Set(ctx, redis.SessionKey(s.profile), record{Token: token}, redis.TTLSession); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear deletes the stored token
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.cache.Delete(ctx, redis.SessionKey(s.profile)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
