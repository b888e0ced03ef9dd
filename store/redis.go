package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stayops/stayauth/auth"
)

// RedisRevocationStore is a Redis-backed token denylist shared across
// instances. Entries carry a TTL matching the revoked token's remaining
// lifetime, so the denylist cleans itself as tokens expire naturally.
type RedisRevocationStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis revocation store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisRevocationStore connects a revocation store to Redis.
func NewRedisRevocationStore(cfg RedisConfig) (*RedisRevocationStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("store: redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisRevocationStore{client: client}, nil
}

// Revoke marks the token identified by (subjectID, issuedAt) as invalid
// until ttl elapses. A ttl <= 0 keeps the entry indefinitely.
func (s *RedisRevocationStore) Revoke(ctx context.Context, subjectID string, issuedAt time.Time, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, revocationKey(subjectID, issuedAt), 1, ttl).Err()
}

// IsRevoked reports whether the token has been revoked.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, subjectID string, issuedAt time.Time) (bool, error) {
	n, err := s.client.Exists(ctx, revocationKey(subjectID, issuedAt)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping verifies the Redis connection.
func (s *RedisRevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client connection pool.
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}

// Ensure RedisRevocationStore implements auth.RevocationStore
var _ auth.RevocationStore = (*RedisRevocationStore)(nil)
