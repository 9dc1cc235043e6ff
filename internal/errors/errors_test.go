package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	dup := NewError("code taken").
		WithHint("Coupon code already exists").
		Mark(ErrDuplicateCode)

	assert.True(t, IsDuplicateCode(dup))
	assert.True(t, IsAlreadyExists(dup))
	assert.False(t, IsValidation(dup))
	assert.False(t, IsNotFound(dup))

	wrapped := fmt.Errorf("create: %w", dup)
	assert.True(t, IsDuplicateCode(wrapped))

	db := WithError(fmt.Errorf("connection reset")).Mark(ErrDatabase)
	assert.True(t, IsDatabase(db))
}

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewError("bad").Mark(ErrValidation), http.StatusBadRequest},
		{"not found", NewError("gone").Mark(ErrNotFound), http.StatusNotFound},
		{"duplicate", NewError("dup").Mark(ErrDuplicateCode), http.StatusConflict},
		{"exists", NewError("dup").Mark(ErrAlreadyExists), http.StatusConflict},
		{"database", NewError("db").Mark(ErrDatabase), http.StatusInternalServerError},
		{"plain", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestDisplayMessageAndDetails(t *testing.T) {
	err := NewError("batch too large").
		WithHintf("at most %d requests per batch", 10).
		WithReportableDetails(map[string]any{"size": 12, "max": 10}).
		Mark(ErrValidation)

	assert.Equal(t, "at most 10 requests per batch", DisplayMessage(err))
	assert.Equal(t, map[string]any{"size": float64(12), "max": float64(10)}, ReportableDetails(err))

	plain := fmt.Errorf("no hint")
	assert.Equal(t, "An unexpected error occurred", DisplayMessage(plain))
	assert.Empty(t, ReportableDetails(plain))
}

func TestInternalErrorFormatting(t *testing.T) {
	assert.Equal(t, "validation_error: validation error", ErrValidation.Error())

	e := &InternalError{Code: ErrCodeDatabase, Message: "database error", Err: fmt.Errorf("timeout")}
	assert.Equal(t, "database_error: timeout", e.Error())
	assert.ErrorIs(t, e, ErrDatabase)
}
