package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyloop/quiz-service/internal/models"
)

// DefaultTTL bounds how long abandoned hand-off entries linger.
const DefaultTTL = 2 * time.Hour

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed hand-off store.
func NewRedisStore(client *redis.Client, ttl time.Duration) HandoffStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisStore{
		client: client,
		ttl:    ttl,
	}
}

func documentKey(sessionID string) string {
	return fmt.Sprintf("handoff:document:%s", sessionID)
}

func resultKey(sessionID string) string {
	return fmt.Sprintf("handoff:result:%s", sessionID)
}

func (r *redisStore) PutDocument(ctx context.Context, sessionID, content string) error {
	if err := r.client.Set(ctx, documentKey(sessionID), content, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	return nil
}

func (r *redisStore) GetDocument(ctx context.Context, sessionID string) (string, error) {
	content, err := r.client.Get(ctx, documentKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return content, nil
}

func (r *redisStore) PutResult(ctx context.Context, sessionID string, result *models.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := r.client.Set(ctx, resultKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

func (r *redisStore) GetResult(ctx context.Context, sessionID string) (*models.Result, error) {
	data, err := r.client.Get(ctx, resultKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}
	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}

func (r *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, documentKey(sessionID), resultKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear hand-off entries: %w", err)
	}
	return nil
}
