package redis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"trivia-board-host/internal/domain"
)

// Fallback is a slower durable store consulted on cache misses (e.g. Postgres).
type Fallback interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// SnapshotStore keeps snapshots as plain string values:
//
//	SET trivia:snapshot:{key} {json}
//
// With a fallback configured it acts as a read-through, write-through cache
// whose entries expire after ttl (plus jitter). Without one, ttl is ignored
// and values never expire.
type SnapshotStore struct {
	client   *redis.Client
	fallback Fallback
	ttl      time.Duration
	sf       singleflight.Group
}

func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

// NewCachedSnapshotStore fronts fallback with Redis.
func NewCachedSnapshotStore(client *redis.Client, fallback Fallback, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, fallback: fallback, ttl: ttl}
}

func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	if s.fallback == nil {
		return nil, domain.ErrSnapshotNotFound
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if value, err := s.client.Get(ctx, s.redisKey(key)).Bytes(); err == nil {
			return value, nil
		}
		value, err := s.fallback.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		_ = s.client.Set(ctx, s.redisKey(key), value, s.ttlWithJitter()).Err()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Set writes through to the fallback first so Redis never holds state the durable store lacks.
func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if s.fallback != nil {
		if err := s.fallback.Set(ctx, key, value); err != nil {
			return err
		}
	}
	if err := s.client.Set(ctx, s.redisKey(key), value, s.ttlWithJitter()).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *SnapshotStore) redisKey(key string) string {
	return "trivia:snapshot:" + key
}

func (s *SnapshotStore) ttlWithJitter() time.Duration {
	if s.fallback == nil || s.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
