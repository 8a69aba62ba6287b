package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/deeplinks/internal/models"
	"github.com/redis/go-redis/v9"
)

const deferredKeyPrefix = "deferred:"

// takeScript is used when the server predates GETDEL (Redis < 6.2).
var takeScript = redis.NewScript(`local v=redis.call('GET', KEYS[1]); if v then redis.call('DEL', KEYS[1]); end; return v`)

// RedisDeferredStore relies on key expiry for the TTL, so DeleteExpired has
// nothing to do.
type RedisDeferredStore struct {
	client *redis.Client
}

func NewRedisDeferredStore(client *redis.Client) *RedisDeferredStore {
	return &RedisDeferredStore{client: client}
}

func (s *RedisDeferredStore) Put(ctx context.Context, entry *models.DeferredEntry) error {
	ttl := time.Until(time.UnixMilli(entry.ExpiresAt))
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode deferred entry: %w", err)
	}

	if err := s.client.Set(ctx, deferredKeyPrefix+entry.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save deferred entry: %w", err)
	}

	return nil
}

func (s *RedisDeferredStore) Take(ctx context.Context, key string) (*models.DeferredEntry, error) {
	redisKey := deferredKeyPrefix + key

	val, err := s.client.GetDel(ctx, redisKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		val, err = takeScript.Run(ctx, s.client, []string{redisKey}).Text()
	}
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take deferred entry: %w", err)
	}

	var entry models.DeferredEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to decode deferred entry: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, nil
	}

	return &entry, nil
}

func (s *RedisDeferredStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// Close is a no-op; the client is shared and owned by the caller.
func (s *RedisDeferredStore) Close() error {
	return nil
}
