package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache regroupe les usages Redis de la vitrine hors sessions :
// cache catalogue JSON et compteurs de rate limit.
type Cache struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger
}

func New(rdb *redis.Client, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, prefix: "storefront:", logger: logger}
}

// --- Rate Limiting ---

// IncrementRateLimit incrémente le compteur de la fenêtre courante et renvoie
// sa valeur et le temps restant avant réinitialisation.
func (c *Cache) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	key = c.prefix + "ratelimit:" + key

	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	// L'expiration n'est posée qu'à la première requête de la fenêtre.
	pipe := c.rdb.Pipeline()
	if count == 1 {
		pipe.Expire(ctx, key, window)
	}
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// Clé sans expiration (course avec une expiration) : on la repose.
		c.rdb.Expire(ctx, key, window)
		remaining = window
	}
	return count, remaining, nil
}

// GetRateLimit récupère le compteur courant (0 si absent).
func (c *Cache) GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := c.rdb.Get(ctx, c.prefix+"ratelimit:"+key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// Ping est utilisé par /health.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
