// Package session keeps per-user planning sessions in Redis and applies gamification events
// to them.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")

const DefaultKeyPrefix = "esg:session:"

// RedisStore stores sessions as JSON under <prefix><sessionId>, expiring at the session's
// ExpiresAt. Concurrent writes to one session are last-write-wins.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ models.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.PlanningSession, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, apperrors.NewSessionStoreFailedError(err)
	}

	var session models.PlanningSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperrors.NewSessionStoreFailedError(fmt.Errorf("decode session %s: %w", sessionID, err))
	}
	if session.IsExpired() {
		return nil, fmt.Errorf("%w: %s expired", ErrSessionNotFound, sessionID)
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *models.PlanningSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperrors.NewSessionStoreFailedError(fmt.Errorf("session %s already expired", session.ID))
	}

	data, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewSessionStoreFailedError(fmt.Errorf("encode session %s: %w", session.ID, err))
	}
	if err := s.client.Set(ctx, s.key(session.ID), data, ttl).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return apperrors.NewSessionStoreFailedError(err)
	}
	return nil
}
