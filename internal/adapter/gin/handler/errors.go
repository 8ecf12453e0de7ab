package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "book-catalog-service/pkg/errors"
	"book-catalog-service/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondError converts usecase errors to HTTP responses. Internal causes are
// logged but never sent to the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var httpErr apperrors.HTTPError
	if errors.As(err, &httpErr) && httpErr.HTTPStatus() < http.StatusInternalServerError {
		c.JSON(httpErr.HTTPStatus(), ErrorResponse{
			Error:   httpErr.Code(),
			Message: httpErr.Error(),
		})
		return
	}

	logger.WithContext(c.Request.Context(), log).Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

func respondBadBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "invalid request body: " + err.Error(),
	})
}
