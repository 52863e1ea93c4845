package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists checkout sessions across requests and page reloads.
type Store interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Clear(ctx context.Context, id string) error
}

const sessionKeyPrefix = "checkout:session:"

// RedisStore stores sessions as JSON in redis. A session in the
// confirmation step gets a short TTL so the success screen can render
// once more before the session expires.
type RedisStore struct {
	client          redis.UniversalClient
	sessionTTL      time.Duration
	confirmationTTL time.Duration
}

// NewRedisStore creates a new redis-backed session store.
func NewRedisStore(client redis.UniversalClient, sessionTTL, confirmationTTL time.Duration) *RedisStore {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if confirmationTTL <= 0 {
		confirmationTTL = time.Minute
	}
	return &RedisStore{
		client:          client,
		sessionTTL:      sessionTTL,
		confirmationTTL: confirmationTTL,
	}
}

func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := s.sessionTTL
	if session.Step == StepConfirmation {
		ttl = s.confirmationTTL
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
