package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"book-catalog-service/internal/domain/book"
	"book-catalog-service/internal/domain/store"
	"book-catalog-service/pkg/security"
)

// BookRepoPG stores books in PostgreSQL through GORM.
type BookRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewBookRepoPG creates a new instance of BookRepoPG.
func NewBookRepoPG(db *gorm.DB, log *zap.Logger) *BookRepoPG {
	return &BookRepoPG{db: db, log: log}
}

// BookSchema represents the database schema for the books table.
type BookSchema struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	Author      string    `gorm:"type:varchar(255);not null"`
	Price       float64   `gorm:"not null"`
	Category    string    `gorm:"type:varchar(32);not null"`
	UserID      string    `gorm:"type:varchar(36);not null;index:idx_books_user_id"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for the BookSchema model.
func (BookSchema) TableName() string {
	return "books"
}

func (m *BookSchema) toDomain() *book.Book {
	return &book.Book{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Author:      m.Author,
		Price:       m.Price,
		Category:    book.Category(m.Category),
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ClassifyError implements store.ErrorClassifier.
func (r *BookRepoPG) ClassifyError(err error) store.ErrorKind {
	return ClassifyError(err)
}

// IsValidID reports whether id has the UUID format used for book ids.
func (r *BookRepoPG) IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Create inserts b and fills in its generated ID and timestamps.
func (r *BookRepoPG) Create(ctx context.Context, b *book.Book) error {
	if b == nil {
		return errors.New("book cannot be nil")
	}

	model := BookSchema{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       b.Title,
		Description: b.Description,
		Author:      b.Author,
		Price:       b.Price,
		Category:    string(b.Category),
		UserID:      b.UserID,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create book in db", zap.Error(err), zap.String("user_id", b.UserID))
		return fmt.Errorf("failed to create book: %w", err)
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	r.log.Info("book created in db", zap.String("id", model.ID))
	return nil
}

// GetByID retrieves a book by its unique ID.
func (r *BookRepoPG) GetByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("book not found", zap.String("id", id))
			return nil, fmt.Errorf("book not found: id=%s: %w", id, err)
		}
		r.log.Error("failed to get book from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return model.toDomain(), nil
}

// List returns up to limit books after skipping offset, in insertion order,
// together with the total number of matches. A non-empty keyword matches
// titles case-insensitively as a substring.
func (r *BookRepoPG) List(ctx context.Context, keyword string, offset, limit int64) ([]book.Book, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&BookSchema{})
		if keyword != "" {
			pattern := "%" + security.SanitizeSearchString(strings.ToLower(keyword)) + "%"
			q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		r.log.Error("failed to count books", zap.Error(err), zap.String("keyword", keyword))
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var models []BookSchema
	if err := filtered().Order("id ASC").Offset(int(offset)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list books from db", zap.Error(err), zap.String("keyword", keyword),
			zap.Int64("offset", offset), zap.Int64("limit", limit))
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]book.Book, len(models))
	for i := range models {
		books[i] = *models[i].toDomain()
	}

	return books, total, nil
}

// Update writes the present fields of p and returns the row as stored afterwards.
func (r *BookRepoPG) Update(ctx context.Context, id string, p book.Patch) (*book.Book, error) {
	changes := map[string]interface{}{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		changes["title"] = *p.Title
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.Author != nil {
		changes["author"] = *p.Author
	}
	if p.Price != nil {
		changes["price"] = *p.Price
	}
	if p.Category != nil {
		changes["category"] = string(*p.Category)
	}

	var model BookSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&BookSchema{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to update book in db", zap.Error(err), zap.String("id", id))
		}
		return nil, fmt.Errorf("failed to update book: id=%s: %w", id, err)
	}

	r.log.Info("book updated in db", zap.String("id", id))
	return model.toDomain(), nil
}

// Delete removes the book and returns the row as it was before removal.
func (r *BookRepoPG) Delete(ctx context.Context, id string) (*book.Book, error) {
	var model BookSchema
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&BookSchema{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to delete book in db", zap.Error(err), zap.String("id", id))
		}
		return nil, fmt.Errorf("failed to delete book: id=%s: %w", id, err)
	}

	r.log.Info("book deleted in db", zap.String("id", id))
	return model.toDomain(), nil
}
