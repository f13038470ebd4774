package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/handystore/storefront-bot/internal/entity"
)

const sessionKeyPrefix = "storefront:session:"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a session registry backed by Redis. Sessions
// expire after ttl of inactivity; zero ttl means they never expire.
// Idle expiry doubles as the session reset policy across restarts.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context, userID string) (*entity.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", userID, err)
	}

	var ses entity.Session
	if err := json.Unmarshal(raw, &ses); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", userID, err)
	}
	return &ses, nil
}

func (s *redisStore) Save(ctx context.Context, ses *entity.Session) error {
	raw, err := json.Marshal(ses)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", ses.UserID, err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+ses.UserID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", ses.UserID, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", userID, err)
	}
	return nil
}
