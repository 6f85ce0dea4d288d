package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductCacheTTL  = 5 * time.Minute
	CategoryCacheTTL = 10 * time.Minute
	SettingsCacheTTL = 30 * time.Minute
)

// GetJSON lit une valeur JSON. (false, nil) si la clé est absente ;
// une valeur illisible est supprimée et traitée comme absente.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("⚠️ Entrée de cache illisible, suppression", zap.String("key", key), zap.Error(err))
		c.rdb.Del(ctx, c.prefix+key)
		return false, nil
	}
	return true, nil
}

// SetJSON stocke une valeur en JSON avec une durée de vie.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Delete supprime une ou plusieurs clés du cache.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

// InvalidatePrefix supprime toutes les clés commençant par prefix (SCAN, jamais KEYS).
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	iter := c.rdb.Scan(ctx, 0, c.prefix+prefix+"*", 100).Iterator()
	n := 0
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return n, err
		}
		n++
	}
	return n, iter.Err()
}
