package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    HTTPError
		status int
		code   string
		msg    string
	}{
		{"validation with field", NewValidationError("id", "malformed"), http.StatusBadRequest, "validation_error", "validation failed: id - malformed"},
		{"validation without field", NewValidationError("", "bad input"), http.StatusBadRequest, "validation_error", "validation failed: bad input"},
		{"not found with message", NewNotFoundError("book", "book not found"), http.StatusNotFound, "not_found", "book not found"},
		{"not found default", NewNotFoundError("book", ""), http.StatusNotFound, "not_found", "book not found"},
		{"already exists", NewAlreadyExistsError("user", "duplicate email"), http.StatusConflict, "already_exists", "duplicate email"},
		{"already exists default", NewAlreadyExistsError("user", ""), http.StatusConflict, "already_exists", "user already exists"},
		{"unauthorized", NewUnauthorizedError("invalid email or password"), http.StatusUnauthorized, "unauthorized", "invalid email or password"},
		{"forbidden default", NewForbiddenError(""), http.StatusForbidden, "forbidden", "permission denied"},
		{"internal", NewInternalError("failed to create book", nil), http.StatusInternalServerError, "internal_error", "failed to create book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInternalError("failed to list books", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrors_AsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("usecase: %w", NewNotFoundError("book", "book not found"))

	var httpErr HTTPError
	require.True(t, stderrors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.HTTPStatus())
}
