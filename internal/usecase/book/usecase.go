package book

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "book-catalog-service/internal/domain/book"
	"book-catalog-service/internal/domain/store"
	"book-catalog-service/internal/domain/user"
	"book-catalog-service/internal/usecase"
	apperrors "book-catalog-service/pkg/errors"
	"book-catalog-service/pkg/logger"
)

// Repository defines the book data access the catalog needs.
type Repository interface {
	store.ErrorClassifier
	Create(ctx context.Context, b *domain.Book) error                                            // Create persists b and fills its ID and timestamps
	GetByID(ctx context.Context, id string) (*domain.Book, error)                                // GetByID returns a not found error when absent
	List(ctx context.Context, keyword string, offset, limit int64) ([]domain.Book, int64, error) // List returns one page and the total match count
	Update(ctx context.Context, id string, p domain.Patch) (*domain.Book, error)                 // Update returns the record after the change
	Delete(ctx context.Context, id string) (*domain.Book, error)                                 // Delete returns the record as it was before removal
	IsValidID(id string) bool                                                                    // IsValidID checks the id format without touching storage
}

// Service implements Usecase.
type Service struct {
	repo     Repository
	pageSize int64
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates the book catalog service. Listings return pageSize books per page.
func New(r Repository, pageSize int, log *zap.Logger) *Service {
	if pageSize <= 0 {
		pageSize = 2
	}
	return &Service{repo: r, pageSize: int64(pageSize), log: log, validate: usecase.NewValidator()}
}

// List returns one page of books whose title contains the keyword, case-insensitively.
func (s *Service) List(ctx context.Context, in ListBooksRequest) (*ListBooksResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if in.Page <= 0 {
		in.Page = 1
	}

	keyword := strings.TrimSpace(in.Keyword)
	log.Debug("listing books", zap.String("keyword", keyword), zap.Int64("page", in.Page))

	books, total, err := s.repo.List(ctx, keyword, domain.Offset(in.Page, s.pageSize), s.pageSize)
	if err != nil {
		log.Error("failed to list books", zap.String("keyword", keyword), zap.Int64("page", in.Page), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list books", err)
	}

	out := make([]Book, len(books))
	for i := range books {
		out[i] = *toDTO(&books[i])
	}

	p := domain.NewPagination(total, in.Page, s.pageSize)
	return &ListBooksResponse{
		Books: out,
		Pagination: Pagination{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages,
		},
	}, nil
}

// Get returns a single book. A malformed id is rejected before any lookup.
func (s *Service) Get(ctx context.Context, id string) (*Book, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(b), nil
}

// Create stores a new book owned by owner.
func (s *Service) Create(ctx context.Context, in CreateBookRequest, owner *user.User) (*Book, error) {
	log := logger.WithContext(ctx, s.log)

	if owner == nil || owner.ID == "" {
		return nil, apperrors.NewUnauthorizedError("login first to access this endpoint")
	}
	if in.User != "" {
		return nil, apperrors.NewValidationError("user", "you cannot pass user id")
	}
	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}

	b := &domain.Book{
		Title:       in.Title,
		Description: in.Description,
		Author:      in.Author,
		Price:       in.Price,
		Category:    domain.Category(in.Category),
		UserID:      owner.ID,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		log.Error("failed to create book", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create book", err)
	}

	log.Info("book created", zap.String("book_id", b.ID))
	return toDTO(b), nil
}

// Update merges the present fields of in into the book and returns the result.
// Only the owner may update a book.
func (s *Service) Update(ctx context.Context, id string, in UpdateBookRequest, caller *user.User) (*Book, error) {
	log := logger.WithContext(ctx, s.log)

	if !s.repo.IsValidID(id) {
		return nil, invalidID()
	}
	if in.User != nil {
		return nil, apperrors.NewValidationError("user", "you cannot pass user id")
	}
	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(current, caller); err != nil {
		log.Warn("update rejected", zap.String("book_id", id), zap.Error(err))
		return nil, err
	}

	patch := in.patch()
	if patch.IsEmpty() {
		return toDTO(current), nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if s.repo.ClassifyError(err) == store.KindNotFound {
			return nil, bookNotFound()
		}
		log.Error("failed to update book", zap.String("book_id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to update book", err)
	}

	log.Info("book updated", zap.String("book_id", id))
	return toDTO(updated), nil
}

// Delete removes the book and returns it as it was before removal.
// Only the owner may delete a book.
func (s *Service) Delete(ctx context.Context, id string, caller *user.User) (*Book, error) {
	log := logger.WithContext(ctx, s.log)

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(current, caller); err != nil {
		log.Warn("delete rejected", zap.String("book_id", id), zap.Error(err))
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if s.repo.ClassifyError(err) == store.KindNotFound {
			return nil, bookNotFound()
		}
		log.Error("failed to delete book", zap.String("book_id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to delete book", err)
	}

	log.Info("book deleted", zap.String("book_id", id))
	return toDTO(deleted), nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.Book, error) {
	if !s.repo.IsValidID(id) {
		return nil, invalidID()
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if s.repo.ClassifyError(err) == store.KindNotFound {
			return nil, bookNotFound()
		}
		logger.WithContext(ctx, s.log).Error("failed to get book", zap.String("book_id", id), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get book", err)
	}
	return b, nil
}

func checkOwner(b *domain.Book, caller *user.User) error {
	if caller == nil || caller.ID == "" {
		return apperrors.NewUnauthorizedError("login first to access this endpoint")
	}
	if !b.OwnedBy(caller.ID) {
		return apperrors.NewForbiddenError("only the owner can modify this book")
	}
	return nil
}

func invalidID() error {
	return apperrors.NewValidationError("id", "please enter a correct id")
}

func bookNotFound() error {
	return apperrors.NewNotFoundError("book", "book not found")
}
