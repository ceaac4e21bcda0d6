package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MessagesAndCodes(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		err     *Error
		message string
		code    string
	}{
		{name: "not found", err: ErrNotFound, message: "Resource not found", code: CodeNotFound},
		{name: "validation", err: ValidationError("title: too long"), message: "Invalid input: title: too long", code: CodeValidation},
		{name: "invalid id", err: ErrInvalidID, message: "Invalid ID format", code: CodeInvalidID},
		{name: "store", err: &Error{Kind: KindStore, Err: cause}, message: "Database error", code: CodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.code, tt.err.Code())
		})
	}
}

func TestStoreError(t *testing.T) {
	assert.NoError(t, StoreError(nil))

	cause := errors.New("boom")
	err := StoreError(cause)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindStore))
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "boom")

	// wrapping twice keeps a single layer
	assert.Same(t, err, StoreError(err))
}

func TestAsError(t *testing.T) {
	wrapped := fmt.Errorf("get: %w", ErrNotFound)
	assert.Equal(t, KindNotFound, AsError(wrapped).Kind)

	unknown := errors.New("surprise")
	de := AsError(unknown)
	assert.Equal(t, KindStore, de.Kind)
	assert.ErrorIs(t, de, unknown)
}
