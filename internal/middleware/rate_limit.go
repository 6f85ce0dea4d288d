package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// Fenêtre commune aux limites de la vitrine
	RateWindow = 1 * time.Minute

	DefaultCartPerMinute = 20
	DefaultAPIPerMinute  = 100
)

// Counter compte les requêtes d'une fenêtre. *cache.Cache l'implémente.
type Counter interface {
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit autorise limit requêtes par fenêtre et par clé. Une clé vide ou
// une limite nulle laisse passer ; une panne Redis aussi, après un log.
func RateLimit(counter Counter, name string, limit int, keyFn func(*gin.Context) string, message string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if counter == nil || limit <= 0 || key == "" {
			c.Next()
			return
		}

		count, ttl, err := counter.IncrementRateLimit(c.Request.Context(), name+":"+key, RateWindow)
		if err != nil {
			logger.Warn("⚠️ Rate limit indisponible, requête acceptée", zap.String("limit", name), zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			retry := int(math.Ceil(ttl.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       message,
				"retry_after": retry,
			})
			return
		}

		c.Next()
	}
}

// APIRateLimit limite les requêtes par IP (général).
func APIRateLimit(counter Counter, limit int, logger *zap.Logger) gin.HandlerFunc {
	return RateLimit(counter, "api", limit, func(c *gin.Context) string {
		return c.ClientIP()
	}, "Слишком много запросов. Попробуйте через минуту", logger)
}

// CartRateLimit limite les modifications du panier par visiteur (anti-spam).
func CartRateLimit(counter Counter, limit int, logger *zap.Logger) gin.HandlerFunc {
	return RateLimit(counter, "cart", limit, VisitorID, "Слишком много действий с корзиной. Подождите немного", logger)
}
