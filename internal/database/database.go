package database

import (
	"context"
	"fmt"
	"time"

	"honnylove_storefront/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Connections regroupe les backends optionnels de la vitrine.
// Un champ nil signifie que le backend n'est pas configuré.
type Connections struct {
	Redis   *redis.Client
	Elastic *elasticsearch.Client
}

// Connect ouvre Redis et Elasticsearch s'ils sont configurés.
// Un backend configuré mais injoignable est une erreur de démarrage.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conns := &Connections{}

	// 1. Redis
	if cfg.Redis.Host != "" {
		rdb, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		conns.Redis = rdb
		logger.Info("✅ Connecté à Redis", zap.String("host", cfg.Redis.Host))
	} else {
		logger.Warn("⚠️ REDIS_HOST non configuré, sessions en mémoire uniquement")
	}

	// 2. Elasticsearch
	if cfg.Elastic.URL != "" {
		es, err := connectElastic(cfg.Elastic)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elastic = es
		logger.Info("✅ Connecté à Elasticsearch", zap.String("url", cfg.Elastic.URL))
	} else {
		logger.Warn("⚠️ ELASTIC_URL non configuré, recherche via l'API uniquement")
	}

	return conns, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Host,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}
	return rdb, nil
}

func connectElastic(cfg config.ElasticConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("connexion Elasticsearch: %s", res.Status())
	}
	return client, nil
}

// Close ferme Redis ; le client Elasticsearch n'a pas de connexion persistante à fermer.
func (c *Connections) Close() error {
	if c == nil || c.Redis == nil {
		return nil
	}
	return c.Redis.Close()
}

// PingRedis est utilisé par /health.
func (c *Connections) PingRedis(ctx context.Context) error {
	return c.Redis.Ping(ctx).Err()
}

// PingElastic est utilisé par /health.
func (c *Connections) PingElastic(ctx context.Context) error {
	res, err := c.Elastic.Ping(c.Elastic.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: %s", res.Status())
	}
	return nil
}
