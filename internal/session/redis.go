package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
)

const sessionKeyPrefix = "session:"

// RedisStore keeps session records in Redis with the session TTL as key
// expiry. Unlike the read cache, errors here are surfaced: a session lookup
// that cannot reach Redis must fail the request, not silently log the user
// out.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, token string, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: store session: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", apperrors.ErrStoreUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
