package book

import (
	"time"

	domain "book-catalog-service/internal/domain/book"
)

// ListBooksRequest selects one page of books, optionally filtered by a title keyword.
type ListBooksRequest struct {
	Page    int64
	Keyword string
}

// ListBooksResponse represents one page of the catalog.
type ListBooksResponse struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// CreateBookRequest represents the payload for adding a book.
type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required,max=2000"`
	Author      string  `json:"author" validate:"required,max=255"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,oneof=Adventure Classics Crime Fantasy"`
	// User must be empty; the owner always comes from the authenticated caller.
	User string `json:"user,omitempty"`
}

// UpdateBookRequest represents a partial update; nil fields are left unchanged.
type UpdateBookRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description" validate:"omitempty,min=1,max=2000"`
	Author      *string  `json:"author" validate:"omitempty,min=1,max=255"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=Adventure Classics Crime Fantasy"`
	User        *string  `json:"user,omitempty"`
}

func (r UpdateBookRequest) patch() domain.Patch {
	p := domain.Patch{
		Title:       r.Title,
		Description: r.Description,
		Author:      r.Author,
		Price:       r.Price,
	}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		p.Category = &c
	}
	return p
}

// Book represents a book DTO for API responses.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDTO(b *domain.Book) *Book {
	return &Book{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Author:      b.Author,
		Price:       b.Price,
		Category:    string(b.Category),
		User:        b.UserID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
