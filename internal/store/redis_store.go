package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/formaworks/uniform-cart-service/internal/errors"
	"github.com/redis/go-redis/v9"
)

// redisStore persists cart state in Redis. Keys carry an optional TTL so
// abandoned session carts age out on their own; ttl <= 0 keeps them forever.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *redisStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {

		if err == redis.Nil {
			return false, nil
		}

		return false, apperrors.PersistenceError(fmt.Sprintf("failed to get key %s from redis", key)).WithError(err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, apperrors.PersistenceError(fmt.Sprintf("failed to unmarshal stored data for key %s", key)).WithError(err)
	}

	return true, nil
}

func (r *redisStore) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.PersistenceError(fmt.Sprintf("failed to marshal value for key %s", key)).WithError(err)
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return apperrors.PersistenceError(fmt.Sprintf("failed to set key %s in redis", key)).WithError(err)
	}

	return nil
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return apperrors.PersistenceError(fmt.Sprintf("failed to delete key %s from redis", key)).WithError(err)
	}

	return nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
