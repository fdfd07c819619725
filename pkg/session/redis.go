package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379/0").
	URL string

	// Prefix namespaces buffer keys. Defaults to "mermaidflow:buffer:".
	Prefix string

	// ConnectTimeout bounds the initial ping.
	ConnectTimeout time.Duration
}

// RedisStore shares buffers between server instances. Keys expire with
// the buffer, so Cleanup has nothing to do.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = "mermaidflow:buffer:"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: opts.Prefix}, nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Buffer, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get buffer %s: %w", id, err)
	}

	var buf Buffer
	if err := json.Unmarshal(data, &buf); err != nil {
		return nil, fmt.Errorf("parse buffer: %w", err)
	}
	if buf.IsExpired() {
		return nil, nil
	}
	return &buf, nil
}

func (s *RedisStore) Set(ctx context.Context, buf *Buffer) error {
	ttl := time.Until(buf.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, buf.ID)
	}

	data, err := json.Marshal(buf)
	if err != nil {
		return fmt.Errorf("marshal buffer: %w", err)
	}
	if err := s.client.Set(ctx, s.key(buf.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set buffer %s: %w", buf.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete buffer %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Cleanup(ctx context.Context) error { return nil }

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
