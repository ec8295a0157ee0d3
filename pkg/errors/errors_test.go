package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	withDetails := ErrInsufficientStock.WithDetails(map[string]interface{}{"book_id": 1})

	assert.True(t, errors.Is(withDetails, ErrInsufficientStock))
	assert.True(t, errors.Is(fmt.Errorf("外层: %w", withDetails), ErrInsufficientStock))
	assert.False(t, errors.Is(withDetails, ErrBookNotFound))

	// WithDetails返回副本,不修改预定义错误
	assert.Nil(t, ErrInsufficientStock.Details)
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")

	err := Wrap(cause, "写入失败")
	assert.Equal(t, ErrCodeStorageFailure, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	err = WrapCode(cause, ErrCodeLockContention, "锁等待超时")
	assert.ErrorIs(t, err, ErrLockContention)
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(fmt.Errorf("包装: %w", ErrGenreNotFound))
	assert.Equal(t, ErrCodeGenreNotFound, appErr.Code)

	appErr = GetAppError(errors.New("panic recovered"))
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.NotNil(t, appErr.Err)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{ErrCodeInsufficientStock, http.StatusConflict},
		{ErrCodeGenreInUse, http.StatusConflict},
		{ErrCodeEmailDuplicate, http.StatusConflict},
		{ErrCodeInvalidQuantity, http.StatusUnprocessableEntity},
		{ErrCodeInvalidLineItems, http.StatusUnprocessableEntity},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeBindError, http.StatusBadRequest},
		{ErrCodeBookNotFound, http.StatusNotFound},
		{ErrCodeTransactionNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidPassword, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrCodeLockContention, http.StatusServiceUnavailable},
		{ErrCodeStorageFailure, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{12345, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.code), "code=%d", tt.code)
	}
}
