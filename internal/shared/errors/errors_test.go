package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("exists"), ErrorTypeConflict, http.StatusConflict},
		{"forbidden", NewForbiddenError("denied"), ErrorTypeForbidden, http.StatusForbidden},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"bad request", NewBadRequestError("nope"), ErrorTypeBadRequest, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_ErrorIncludesDetails(t *testing.T) {
	err := NewInternalError("failed to upsert license", "Error 1062: Duplicate entry")

	assert.Contains(t, err.Error(), "failed to upsert license")
	assert.Contains(t, err.Error(), "Duplicate entry")
}

func TestGetAppError(t *testing.T) {
	inner := NewConflictError("license row conflict")
	wrapped := fmt.Errorf("processing failed: %w", inner)

	require.True(t, IsAppError(wrapped))
	got := GetAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrorTypeConflict, got.Type)

	assert.Nil(t, GetAppError(stderrors.New("plain")))
	assert.False(t, IsAppError(nil))
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate entry", stderrors.New("Error 1062 (23000): Duplicate entry 'sub_123' for key 'licenses.stripe_subscription_id'"), true},
		{"generic duplicate key", stderrors.New("duplicate key value"), true},
		{"postgres unique violation", stderrors.New(`ERROR: duplicate key value violates unique constraint "user_credits_license_period"`), true},
		{"unrelated error", stderrors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateError(tt.err))
		})
	}
}
