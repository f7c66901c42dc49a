package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/shared"
	"go.uber.org/zap"
)

// Sender delivers a notification request to people. Delivery channels live outside this module.
type Sender interface {
	Send(ctx context.Context, req inventory.NotificationRequest) error
}

// Throttle suppresses repeated alerts for the same product within a window
type Throttle interface {
	// Allow reports whether an alert identified by key may be sent now.
	// A true result reserves the key for the window.
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}

// LowStockAlertHandler delivers committed LowStockAlertRaised events
type LowStockAlertHandler struct {
	logger   *zap.Logger
	sender   Sender
	throttle Throttle
	window   time.Duration
}

// NewLowStockAlertHandler creates a new handler for low stock alerts
func NewLowStockAlertHandler(sender Sender, logger *zap.Logger) *LowStockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockAlertHandler{
		logger: logger,
		sender: sender,
	}
}

// WithThrottle enables per-product throttling with the given window
func (h *LowStockAlertHandler) WithThrottle(throttle Throttle, window time.Duration) *LowStockAlertHandler {
	h.throttle = throttle
	h.window = window
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{inventory.EventTypeLowStockAlertRaised}
}

// Handle processes a LowStockAlertRaisedEvent
func (h *LowStockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alertEvent, ok := event.(*inventory.LowStockAlertRaisedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeLowStockAlertRaised),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeLowStockAlertRaised, event.EventType())
	}

	req := alertEvent.Notification
	req.Scope = alertEvent.Scope()

	if h.throttle != nil && h.window > 0 {
		allowed, err := h.throttle.Allow(ctx, ThrottleKey(req), h.window)
		if err != nil {
			// Redis being down must not drop the alert
			h.logger.Warn("alert throttle unavailable, sending anyway", zap.Error(err))
		} else if !allowed {
			h.logger.Debug("low stock alert throttled",
				zap.String("product_id", req.ProductID.String()),
				zap.String("alert_type", req.AlertType),
			)
			return nil
		}
	}

	if h.sender == nil {
		return nil
	}
	if err := h.sender.Send(ctx, req); err != nil {
		h.logger.Error("failed to send low stock alert",
			zap.String("product_id", req.ProductID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("low stock alert sent",
		zap.String("product_code", req.ProductCode),
		zap.String("severity", string(req.Severity)),
		zap.String("document_no", req.DocumentNo),
	)
	return nil
}

// ThrottleKey identifies repeated alerts for one product and alert type within a scope
func ThrottleKey(req inventory.NotificationRequest) string {
	return fmt.Sprintf("alert:%s:%s:%s:%s", req.Scope.TenantID, req.Scope.CompanyID, req.ProductID, req.AlertType)
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
