package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "book-catalog-service/pkg/errors"
)

type sample struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Price    float64 `json:"price" validate:"gte=0"`
	Kind     string  `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestFormatValidationError(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sample{Email: "nope", Password: "123", Price: -1, Kind: "c"})
	require.Error(t, err)

	formatted := FormatValidationError(err)
	var ve *apperrors.ValidationError
	require.True(t, errors.As(formatted, &ve))

	assert.Equal(t, "email", ve.Field)
	assert.Contains(t, ve.Message, "email must be a valid email")
	assert.Contains(t, ve.Message, "password must be at least 6 characters")
	assert.Contains(t, ve.Message, "price must be greater than or equal to 0")
	assert.Contains(t, ve.Message, "kind must be one of [a b]")
}

func TestFormatValidationError_Required(t *testing.T) {
	err := NewValidator().Struct(sample{})
	require.Error(t, err)

	var ve *apperrors.ValidationError
	require.True(t, errors.As(FormatValidationError(err), &ve))
	assert.Contains(t, ve.Message, "email is required")
	assert.Contains(t, ve.Message, "password is required")
}

func TestFormatValidationError_PlainError(t *testing.T) {
	var ve *apperrors.ValidationError
	require.True(t, errors.As(FormatValidationError(errors.New("bad input")), &ve))
	assert.Equal(t, "bad input", ve.Message)
}
