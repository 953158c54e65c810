// Package redis stores replayable command responses keyed by the Idempotency-Key header.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "auction"
	idempotencyPrefix = "idempotency"
)

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// IdempotencyStore wraps the handful of redis commands the idempotency middleware uses.
type IdempotencyStore struct {
	store cmdable
	raw   *redis.Client
}

// New connects to addr and verifies the connection.
func New(ctx context.Context, addr string) (*IdempotencyStore, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("redis address is required")
	}

	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &IdempotencyStore{store: raw, raw: raw}, nil
}

// NewWithClient wraps an existing client. Used by tests with a fake.
func NewWithClient(client cmdable) *IdempotencyStore {
	return &IdempotencyStore{store: client}
}

// Get returns the stored value, or "" when the key does not exist.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	if s.store == nil {
		return "", errNotInitialized
	}
	value, err := s.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

// SetNX stores value only if key is free.
func (s *IdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.store == nil {
		return false, errNotInitialized
	}
	return s.store.SetNX(ctx, key, value, ttl).Result()
}

func (s *IdempotencyStore) Del(ctx context.Context, keys ...string) error {
	if s.store == nil {
		return errNotInitialized
	}
	return s.store.Del(ctx, keys...).Err()
}

func (s *IdempotencyStore) Ping(ctx context.Context) error {
	if s.store == nil {
		return errNotInitialized
	}
	return s.store.Ping(ctx).Err()
}

// IdempotencyKey returns the namespaced key for a caller scope and client-supplied key.
func (s *IdempotencyStore) IdempotencyKey(scope, id string) string {
	parts := []string{keyNamespace, idempotencyPrefix}
	for _, part := range []string{scope, id} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ":")
}

func (s *IdempotencyStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
