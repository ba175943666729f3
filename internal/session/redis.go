package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "authsess:"

// RedisStore keeps auth sessions in Redis so multiple server instances can
// share them. Expiry is handled by key TTLs.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (r *RedisStore) Create(ctx context.Context, tokenHash string, userID uint, ttl time.Duration) error {
	return r.rdb.Set(ctx, redisKeyPrefix+tokenHash, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, tokenHash string) (*Record, error) {
	key := redisKeyPrefix + tokenHash

	val, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session value for %s: %w", key, err)
	}

	ttl, err := r.rdb.TTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return &Record{UserID: uint(userID), ExpiresAt: time.Now().Add(ttl)}, nil
}

func (r *RedisStore) Delete(ctx context.Context, tokenHash string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+tokenHash).Err()
}

// DeleteExpired is a no-op: Redis evicts expired keys itself.
func (r *RedisStore) DeleteExpired(context.Context) error { return nil }

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error { return r.rdb.Close() }
