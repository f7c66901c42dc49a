package event

import (
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/inventory"
)

// RegisterAllEvents registers every event type the posting engine writes to the outbox.
// The outbox processor can only replay types registered here.
func RegisterAllEvents(serializer *EventSerializer) {
	RegisterEvent[document.DocumentPostedEvent](serializer, document.EventTypeDocumentPosted)
	RegisterEvent[document.DocumentCancelledEvent](serializer, document.EventTypeDocumentCancelled)

	RegisterEvent[inventory.LowStockAlertRaisedEvent](serializer, inventory.EventTypeLowStockAlertRaised)
}
