package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/protekweb/support-chatbot/internal/domain"
)

const sessionKeyPrefix = "chatbot:session:"

// RedisSessionStore keeps sessions in Redis so conversations survive process
// restarts. Per-caller serialization is provided by a local keyed mutex; the
// service runs as a single instance in front of Redis.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *keyedMutex
}

// NewRedisSessionStore builds the store. A zero ttl disables expiry.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		locks:  newKeyedMutex(),
	}
}

// Get loads and decodes the caller's session.
func (s *RedisSessionStore) Get(ctx context.Context, callerID string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+callerID).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Update applies fn under the caller's lock and writes the result back.
func (s *RedisSessionStore) Update(ctx context.Context, callerID string, fn func(*domain.Session) (*domain.Session, error)) (*domain.Session, error) {
	lock := s.locks.lock(callerID)
	defer lock.Unlock()

	working, err := s.Get(ctx, callerID)
	if err == ErrSessionNotFound {
		working = domain.NewSession(callerID)
	} else if err != nil {
		return nil, err
	}

	updated, err := fn(working)
	if err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now()

	raw, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+callerID, raw, s.ttl).Err(); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the caller's session.
func (s *RedisSessionStore) Delete(ctx context.Context, callerID string) error {
	lock := s.locks.lock(callerID)
	defer lock.Unlock()
	return s.client.Del(ctx, sessionKeyPrefix+callerID).Err()
}
