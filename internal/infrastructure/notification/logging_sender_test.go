package notification

import (
	"context"
	"testing"

	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingSender_Send(t *testing.T) {
	tests := []struct {
		name      string
		severity  inventory.Severity
		wantLevel zapcore.Level
	}{
		{name: "low stock warns", severity: inventory.SeverityWarning, wantLevel: zapcore.WarnLevel},
		{name: "out of stock errors", severity: inventory.SeverityError, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			sender := NewLoggingSender(zap.New(core))
			scope := shared.NewScope(uuid.New(), uuid.New())

			err := sender.Send(context.Background(), inventory.NotificationRequest{
				ID:          uuid.New(),
				Scope:       scope,
				Severity:    tt.severity,
				AlertType:   inventory.AlertTypeLowStock,
				Message:     "Product P-001 - Widget is below alert level",
				ProductID:   uuid.New(),
				ProductCode: "P-001",
				AlertQty:    decimal.NewFromInt(10),
				CurrentQty:  decimal.NewFromInt(3),
				DocumentNo:  "SO-00001",
			})
			require.NoError(t, err)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "Product P-001 - Widget is below alert level", entry.Message)
			fields := entry.ContextMap()
			assert.Equal(t, scope.TenantID.String(), fields["tenant_id"])
			assert.Equal(t, "P-001", fields["product_code"])
			assert.Equal(t, "3", fields["current_qty"])
			assert.Equal(t, "SO-00001", fields["document_no"])
		})
	}
}

func TestLoggingSender_NilLogger(t *testing.T) {
	sender := NewLoggingSender(nil)
	assert.NoError(t, sender.Send(context.Background(), inventory.NotificationRequest{}))
}
