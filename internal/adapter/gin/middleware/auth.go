package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog-service/internal/domain/user"
	apperrors "book-catalog-service/pkg/errors"
	"book-catalog-service/pkg/logger"
)

const userContextKey = "auth_user"

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// Auth rejects requests without a valid bearer token and stores the
// authenticated user for handlers.
func Auth(authn Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, log, apperrors.NewUnauthorizedError("login first to access this endpoint"))
			return
		}

		u, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, log, err)
			return
		}

		c.Set(userContextKey, u)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), u.ID))
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok && u != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortWithError(c *gin.Context, log *zap.Logger, err error) {
	var httpErr apperrors.HTTPError
	if errors.As(err, &httpErr) && httpErr.HTTPStatus() < http.StatusInternalServerError {
		c.AbortWithStatusJSON(httpErr.HTTPStatus(), gin.H{"error": httpErr.Code(), "message": httpErr.Error()})
		return
	}

	logger.WithContext(c.Request.Context(), log).Error("authentication failed", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An internal error occurred",
	})
}
