package book

import (
	"context"

	"book-catalog-service/internal/domain/user"
)

// Usecase defines the book catalog operations.
type Usecase interface {
	List(ctx context.Context, in ListBooksRequest) (*ListBooksResponse, error)
	Get(ctx context.Context, id string) (*Book, error)
	Create(ctx context.Context, in CreateBookRequest, owner *user.User) (*Book, error)
	Update(ctx context.Context, id string, in UpdateBookRequest, caller *user.User) (*Book, error)
	Delete(ctx context.Context, id string, caller *user.User) (*Book, error)
}
