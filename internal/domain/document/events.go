package document

import (
	"github.com/erp/posting/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types
const (
	AggregateTypeDocument      = "Document"
	EventTypeDocumentPosted    = "DocumentPosted"
	EventTypeDocumentCancelled = "DocumentCancelled"
)

// DocumentPostedEvent is raised once a document and its ledger entries are committed
type DocumentPostedEvent struct {
	shared.EventEnvelope
	Kind        Kind            `json:"kind"`
	ReferenceNo string          `json:"reference_no"`
	LineCount   int             `json:"line_count"`
	Total       decimal.Decimal `json:"total"`
	DueAmount   decimal.Decimal `json:"due_amount"`
}

// NewDocumentPostedEvent creates a DocumentPostedEvent
func NewDocumentPostedEvent(h *Header) *DocumentPostedEvent {
	return &DocumentPostedEvent{
		EventEnvelope: shared.NewEventEnvelope(EventTypeDocumentPosted, AggregateTypeDocument, h.ID, h.Scope),
		Kind:          h.Kind,
		ReferenceNo:   h.ReferenceNo,
		LineCount:     len(h.Lines),
		Total:         h.Total,
		DueAmount:     h.DueAmount,
	}
}

// EventType returns the event type name
func (e *DocumentPostedEvent) EventType() string {
	return EventTypeDocumentPosted
}

// DocumentCancelledEvent is raised when a document is cancelled
type DocumentCancelledEvent struct {
	shared.EventEnvelope
	Kind        Kind   `json:"kind"`
	ReferenceNo string `json:"reference_no"`
}

// NewDocumentCancelledEvent creates a DocumentCancelledEvent
func NewDocumentCancelledEvent(h *Header) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		EventEnvelope: shared.NewEventEnvelope(EventTypeDocumentCancelled, AggregateTypeDocument, h.ID, h.Scope),
		Kind:          h.Kind,
		ReferenceNo:   h.ReferenceNo,
	}
}

// EventType returns the event type name
func (e *DocumentCancelledEvent) EventType() string {
	return EventTypeDocumentCancelled
}
