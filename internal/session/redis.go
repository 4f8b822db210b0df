package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyKeyPrefix  = "historial:"
	locationKeyPrefix = "ubicacion:"
)

// RedisStore keeps session state in Redis with per-key TTLs, so idle
// conversations expire on their own.
type RedisStore struct {
	client      *redis.Client
	historyTTL  time.Duration
	locationTTL time.Duration
}

// NewRedisStore wraps an existing client. historyTTL and locationTTL
// bound how long idle state survives.
func NewRedisStore(client *redis.Client, historyTTL, locationTTL time.Duration) *RedisStore {
	return &RedisStore{
		client:      client,
		historyTTL:  historyTTL,
		locationTTL: locationTTL,
	}
}

func (s *RedisStore) History(ctx context.Context, userID int64) ([]Message, error) {
	raw, err := s.client.Get(ctx, historyKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}

	var messages []Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		// Corrupt state is dropped rather than poisoning every request.
		return nil, nil
	}
	return messages, nil
}

func (s *RedisStore) SaveHistory(ctx context.Context, userID int64, messages []Message) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := s.client.Set(ctx, historyKey(userID), raw, s.historyTTL).Err(); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

func (s *RedisStore) Location(ctx context.Context, userID int64) (*Location, error) {
	raw, err := s.client.Get(ctx, locationKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching location: %w", err)
	}

	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, nil
	}
	return &loc, nil
}

func (s *RedisStore) SaveLocation(ctx context.Context, userID int64, loc Location) error {
	raw, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encoding location: %w", err)
	}
	if err := s.client.Set(ctx, locationKey(userID), raw, s.locationTTL).Err(); err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, historyKey(userID), locationKey(userID)).Err(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func historyKey(userID int64) string  { return fmt.Sprintf("%s%d", historyKeyPrefix, userID) }
func locationKey(userID int64) string { return fmt.Sprintf("%s%d", locationKeyPrefix, userID) }
