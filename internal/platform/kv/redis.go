// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis implements [Storage] on top of a go-redis client.
//
// Keys never expire: a session lives until the user logs out.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an already connected client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

/*
Get retrieves the value stored under key.

Returns:
  - string: Stored value
  - bool: false if the key is absent
  - error: Connectivity errors
*/
func (store *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := store.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_kv_get_failed: %w", err)
	}
	return value, true, nil
}

// Set stores the value without TTL.
func (store *Redis) Set(ctx context.Context, key, value string) error {
	if err := store.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis_kv_set_failed: %w", err)
	}
	return nil
}

// Delete removes the keys in a single round trip.
func (store *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := store.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis_kv_delete_failed: %w", err)
	}
	return nil
}
