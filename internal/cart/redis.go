package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each scope's cart as a JSON array under a
// namespaced string key. Carts have no TTL; a user's cart survives
// logout and is restored on the next login.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client, prefix: "shuttleshop"}
}

func (s *RedisStorage) slot(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]LineItem, bool, error) {
	raw, err := s.client.Get(ctx, s.slot(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("corrupt cart data under %s: %w", key, err)
	}
	return items, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, items []LineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.slot(key), raw, 0).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.slot(key)).Err()
}
