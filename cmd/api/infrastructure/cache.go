package infrastructure

import (
	"context"

	"go.uber.org/zap"

	"book-catalog-service/internal/config"
	redisclient "book-catalog-service/pkg/redis"
)

// NewRedisClient connects to Redis. It returns a nil client when Redis is
// disabled, in which case caching and rate limiting are switched off.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled {
		l.Info("Redis disabled, book cache and rate limiter are off")
		return nil, nil
	}

	return redisclient.NewClient(ctx, redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
}
