package inventory

import (
	"github.com/erp/posting/internal/domain/shared"
)

// Event types
const (
	AggregateTypeProduct         = "Product"
	EventTypeLowStockAlertRaised = "LowStockAlertRaised"
)

// LowStockAlertRaisedEvent carries a notification request through the transactional outbox
type LowStockAlertRaisedEvent struct {
	shared.EventEnvelope
	Notification NotificationRequest `json:"notification"`
}

// NewLowStockAlertRaisedEvent wraps a notification request in a domain event
func NewLowStockAlertRaisedEvent(req *NotificationRequest) *LowStockAlertRaisedEvent {
	return &LowStockAlertRaisedEvent{
		EventEnvelope: shared.NewEventEnvelope(EventTypeLowStockAlertRaised, AggregateTypeProduct, req.ProductID, req.Scope),
		Notification:  *req,
	}
}

// EventType returns the event type name
func (e *LowStockAlertRaisedEvent) EventType() string {
	return EventTypeLowStockAlertRaised
}
