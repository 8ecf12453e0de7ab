package di

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"book-catalog-service/cmd/api/infrastructure"
	"book-catalog-service/internal/adapter/cache"
	"book-catalog-service/internal/adapter/db/postgres"
	"book-catalog-service/internal/adapter/gin/handler"
	"book-catalog-service/internal/adapter/gin/middleware"
	"book-catalog-service/internal/adapter/gin/router"
	"book-catalog-service/internal/adapter/repository/cached"
	"book-catalog-service/internal/config"
	"book-catalog-service/internal/usecase/auth"
	"book-catalog-service/internal/usecase/book"
	redisclient "book-catalog-service/pkg/redis"
	"book-catalog-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	AuthUC      auth.Usecase
	BookUC      book.Usecase
	RateLimiter *middleware.RateLimiter
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	c := &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
	}

	tokens, err := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.JWTIssuer,
		time.Duration(cfg.Auth.JWTTTLMinutes)*time.Minute,
	)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	userRepo := postgres.NewUserRepoPG(db, l)
	c.AuthUC = auth.New(userRepo, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, l)

	var bookRepo book.Repository = postgres.NewBookRepoPG(db, l)
	if rdb != nil {
		bookCache := cache.NewRedisBookCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		bookRepo = cached.NewCachedBookRepository(bookRepo, bookCache, l)

		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}
	c.BookUC = book.New(bookRepo, cfg.Catalog.PageSize, l)

	c.Router = router.SetupRouter(router.Handlers{
		Auth: handler.NewAuthHandler(c.AuthUC, l),
		Book: handler.NewBookHandler(c.BookUC, l),
	}, c.AuthUC, c.RateLimiter, cfg.Logger.ServiceName, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
