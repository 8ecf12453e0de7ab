package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "book-catalog-service/internal/domain/book"
)

// BookCache defines the interface for book caching operations.
type BookCache interface {
	// Get retrieves a book from cache by ID.
	// Returns nil if the book is not cached.
	Get(ctx context.Context, id string) (*domain.Book, error)

	// Set stores a book in cache with the configured TTL.
	Set(ctx context.Context, b *domain.Book) error

	// Delete removes a book from cache by ID.
	Delete(ctx context.Context, id string) error
}

// cachedBook is the JSON layout stored in Redis.
type cachedBook struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RedisBookCache implements BookCache on Redis.
type RedisBookCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisBookCache creates a new Redis-backed book cache.
func NewRedisBookCache(client redis.Cmdable, ttl time.Duration, log *zap.Logger) *RedisBookCache {
	return &RedisBookCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Key returns the Redis key holding the book with the given id.
func Key(id string) string {
	return "book:" + id
}

// Get retrieves a book from Redis cache.
func (c *RedisBookCache) Get(ctx context.Context, id string) (*domain.Book, error) {
	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("book_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("book_id", id), zap.Error(err))
		return nil, err
	}

	var entry cachedBook
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.Error("failed to unmarshal cached book", zap.String("book_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("book_id", id))
	return &domain.Book{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
		Author:      entry.Author,
		Price:       entry.Price,
		Category:    domain.Category(entry.Category),
		UserID:      entry.UserID,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}, nil
}

// Set stores a book in Redis cache with TTL.
func (c *RedisBookCache) Set(ctx context.Context, b *domain.Book) error {
	if b == nil {
		return fmt.Errorf("cannot cache nil book")
	}

	data, err := json.Marshal(cachedBook{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Author:      b.Author,
		Price:       b.Price,
		Category:    string(b.Category),
		UserID:      b.UserID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	})
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, Key(b.ID), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("book_id", b.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached book", zap.String("book_id", b.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a book from Redis cache.
func (c *RedisBookCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("book_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.String("book_id", id))
	return nil
}
