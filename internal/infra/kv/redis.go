package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a redis client to the Store contract. Entries never
// expire; the card list and slug map are long-lived documents.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an already-connected client. All keys are namespaced
// under prefix to keep the database shareable.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "cardpress"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+":"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+":"+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+":"+key).Err()
}
