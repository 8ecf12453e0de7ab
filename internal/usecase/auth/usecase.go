package auth

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"book-catalog-service/internal/domain/store"
	domain "book-catalog-service/internal/domain/user"
	"book-catalog-service/internal/usecase"
	apperrors "book-catalog-service/pkg/errors"
	"book-catalog-service/pkg/logger"
	"book-catalog-service/pkg/security"
)

const invalidCredentials = "invalid email or password"

// Repository defines the user data access the directory needs.
type Repository interface {
	store.ErrorClassifier
	Create(ctx context.Context, u *domain.User) error                   // Create persists u and fills its ID
	GetByID(ctx context.Context, id string) (*domain.User, error)       // GetByID returns a not found error when absent
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // GetByEmail returns a not found error when absent
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) bool
}

// TokenManager issues and verifies access tokens for a user id.
type TokenManager interface {
	Sign(userID string) (string, error)
	Verify(token string) (string, error)
}

// Service implements Usecase.
type Service struct {
	repo     Repository
	hasher   PasswordHasher
	tokens   TokenManager
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates the user directory service.
func New(r Repository, h PasswordHasher, t TokenManager, log *zap.Logger) *Service {
	return &Service{repo: r, hasher: h, tokens: t, log: log, validate: usecase.NewValidator()}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new user and returns a token for it.
func (s *Service) SignUp(ctx context.Context, in SignUpRequest) (*TokenResponse, error) {
	log := logger.WithContext(ctx, s.log)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	log.Info("signing up user", zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}
	if len(in.Password) > security.MaxPasswordBytes {
		log.Warn("validate failed", zap.Int("password_bytes", len(in.Password)))
		return nil, apperrors.NewValidationError("password", "password must be at most 72 bytes")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to register user", err)
	}

	u := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if s.repo.ClassifyError(err) == store.KindUnique {
			log.Warn("email already exists", zap.String("email", in.Email))
			return nil, apperrors.NewAlreadyExistsError("user", "duplicate email")
		}
		log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to register user", err)
	}

	return s.issue(log, u.ID)
}

// SignIn verifies credentials and returns a token. An unknown email and a wrong
// password produce the same error.
func (s *Service) SignIn(ctx context.Context, in SignInRequest) (*TokenResponse, error) {
	log := logger.WithContext(ctx, s.log)

	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if s.repo.ClassifyError(err) != store.KindNotFound {
			log.Error("failed to load user", zap.Error(err))
			return nil, apperrors.NewInternalError("failed to sign in", err)
		}
		// keep the timing of unknown emails close to a real comparison
		s.hasher.Compare("", in.Password)
		log.Info("sign in rejected", zap.String("email", in.Email), zap.String("reason", "unknown email"))
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	if !s.hasher.Compare(u.PasswordHash, in.Password) {
		log.Info("sign in rejected", zap.String("email", in.Email), zap.String("reason", "password mismatch"))
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	return s.issue(log, u.ID)
}

// Authenticate resolves the user a token was issued to.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		logger.WithContext(ctx, s.log).Debug("token rejected", zap.Error(err))
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if s.repo.ClassifyError(err) == store.KindNotFound {
			return nil, apperrors.NewUnauthorizedError("login first to access this endpoint")
		}
		logger.WithContext(ctx, s.log).Error("failed to load token subject", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to authenticate", err)
	}

	return u, nil
}

func (s *Service) issue(log *zap.Logger, userID string) (*TokenResponse, error) {
	token, err := s.tokens.Sign(userID)
	if err != nil {
		log.Error("failed to sign token", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	return &TokenResponse{Token: token}, nil
}
