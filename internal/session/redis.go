package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"ussd_lms/internal/logger"
)

const redisKeyPrefix = "ussd:session:"

// RedisStore keeps sessions in Redis with a native key TTL, so expiry
// needs no sweeper. Each Save rewrites the whole value under one key,
// which keeps the atomic-replace guarantee of the memory store.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	clock  func() time.Time
}

// NewRedisStore connects to Redis at the given URL and verifies the
// connection before returning.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is required for the redis session backend")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl, clock: time.Now}, nil
}

func (r *RedisStore) GetOrCreate(ctx context.Context, id string) (Session, error) {
	now := r.clock()

	data, err := r.client.Get(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(id, now), nil
		}
		// Transport failure: hand back a fresh session so the request
		// can still be answered, and report the error for logging.
		return New(id, now), fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := sonic.Unmarshal([]byte(data), &s); err != nil {
		logger.Warn().Str("session_id", id).Err(err).Msg("discarding undecodable session")
		return New(id, now), nil
	}

	// Refresh TTL on read, matching the idle-expiry semantics of the
	// memory store.
	r.client.Expire(ctx, redisKeyPrefix+id, r.ttl)
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	s.LastTouchedAt = r.clock()

	data, err := sonic.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context) ([]Session, error) {
	var out []Session
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue
		}
		var s Session
		if err := sonic.Unmarshal([]byte(data), &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return out, nil
}

// SweepExpired is a no-op for Redis; keys carry their own TTL.
func (r *RedisStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

// Close releases the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
