package dto

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantKind   shared.ErrorKind
		wantMsg    string
	}{
		{
			name:       "not found",
			err:        shared.NewNotFoundError("product", "p-1"),
			wantStatus: http.StatusNotFound,
			wantCode:   shared.CodeNotFound,
			wantKind:   shared.KindNotFound,
			wantMsg:    "product p-1 not found",
		},
		{
			name:       "validation keeps the line prefix",
			err:        shared.WrapDomainError(shared.CodeInsufficientStock, "line 2: insufficient stock", shared.ErrInsufficientStock),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeInsufficientStock,
			wantKind:   shared.KindValidation,
			wantMsg:    "line 2: insufficient stock",
		},
		{
			name:       "conflict",
			err:        shared.NewConflictError("serialization failure", errors.New("40001")),
			wantStatus: http.StatusConflict,
			wantCode:   shared.CodeConcurrencyConflict,
			wantKind:   shared.KindConflict,
			wantMsg:    "serialization failure",
		},
		{
			name:       "configuration becomes ERR_SETUP",
			err:        fmt.Errorf("allocate: %w", shared.ErrSeriesNotConfigured),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeSetup,
			wantKind:   shared.KindConfiguration,
			wantMsg:    "allocate: Number series is not configured",
		},
		{
			name:       "fatal hides the cause",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
			wantKind:   shared.KindFatal,
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := FromError(tt.err, "req-1")

			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, string(tt.wantKind), resp.Error.Kind)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, int64(41), resp.Meta.Total)
}

func TestHTTPStatus_UnknownKind(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(shared.ErrorKind("OTHER")))
}
