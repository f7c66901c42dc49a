// Package notification holds the delivery adapters for low-stock alerts
package notification

import (
	"context"

	appnotification "github.com/erp/posting/internal/application/notification"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LoggingSender writes each alert as a structured log line.
// It is the default sender until a delivery channel is configured.
type LoggingSender struct {
	logger *zap.Logger
}

// NewLoggingSender creates a sender logging through l
func NewLoggingSender(l *zap.Logger) *LoggingSender {
	if l == nil {
		l = zap.NewNop()
	}
	return &LoggingSender{logger: l.Named("notification")}
}

// Send logs the alert at warn level for warnings and error level for out-of-stock
func (s *LoggingSender) Send(ctx context.Context, req inventory.NotificationRequest) error {
	l := s.logger.With(logger.ScopeFields(req.Scope)...)
	fields := []zap.Field{
		zap.String("notification_id", req.ID.String()),
		zap.String("alert_type", req.AlertType),
		zap.String("title", req.Title),
		zap.String("product_id", req.ProductID.String()),
		zap.String("product_code", req.ProductCode),
		zap.String("alert_qty", req.AlertQty.String()),
		zap.String("current_qty", req.CurrentQty.String()),
		zap.String("document_no", req.DocumentNo),
	}

	if req.Severity == inventory.SeverityError {
		l.Error(req.Message, fields...)
		return nil
	}
	l.Warn(req.Message, fields...)
	return nil
}

var _ appnotification.Sender = (*LoggingSender)(nil)
