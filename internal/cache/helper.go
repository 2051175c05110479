package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetJSON fetches the value at key and unmarshals it into dest.
// Returns false on a miss, on an unavailable cache, or on a decode error.
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores the JSON encoding of value at key with the given TTL.
// Failures are ignored; the cache is best effort.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// Aside implements the cache-aside pattern: when key is cached, unmarshal it
// into dest and return. Otherwise run loader, which is expected to populate
// dest, and cache dest on success.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, loader func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}

	if err := loader(); err != nil {
		return err
	}

	SetJSON(ctx, key, dest, ttl)
	return nil
}
