package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required"`
}

func TestHandleValidationError(t *testing.T) {
	v := validator.New()

	t.Run("one field per error", func(t *testing.T) {
		detail := HandleValidationError(v.Struct(signup{Email: "nope"}))

		assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
		fields, ok := detail.Details.([]ErrorDetail)
		require.True(t, ok)
		require.Len(t, fields, 2)
		assert.Equal(t, "Email", fields[0].Field)
		assert.Equal(t, "Email must be a valid email address", fields[0].Message)
		assert.Equal(t, "Name is required", fields[1].Message)
		assert.Empty(t, detail.Field)
	})

	t.Run("single field is promoted", func(t *testing.T) {
		detail := HandleValidationError(v.Struct(signup{Email: "a@b.test"}))
		assert.Equal(t, "Name", detail.Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		var s signup
		err := json.Unmarshal([]byte(`{"Email":`), &s)
		detail := HandleValidationError(err)
		assert.Equal(t, "Invalid request format", detail.Message)
	})

	t.Run("other error", func(t *testing.T) {
		detail := HandleValidationError(errors.New("EOF"))
		assert.Equal(t, "Invalid request", detail.Message)
		assert.Equal(t, "EOF", detail.Details)
	})
}
