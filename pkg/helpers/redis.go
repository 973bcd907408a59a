package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// OAuthStateStore persists the random state tokens minted before redirecting
// to an OAuth provider. A state is single-use: Consume deletes it on read, so
// a replayed callback fails the CSRF check.
type OAuthStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOAuthStateStore(rdb *redis.Client, ttl time.Duration) *OAuthStateStore {
	return &OAuthStateStore{rdb: rdb, ttl: ttl}
}

func stateKey(state string) string { return "oauth:state:" + state }

// Put stores the state mapped to its provider name.
func (s *OAuthStateStore) Put(ctx context.Context, state, provider string) error {
	return s.rdb.Set(ctx, stateKey(state), provider, s.ttl).Err()
}

// Consume returns the provider the state was minted for and deletes it.
// A missing or expired state returns ("", false, nil).
func (s *OAuthStateStore) Consume(ctx context.Context, state string) (string, bool, error) {
	provider, err := s.rdb.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(redis.Nil, err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return provider, true, nil
}
