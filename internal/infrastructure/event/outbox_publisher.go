package event

import (
	"context"

	"github.com/erp/posting/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events to the outbox inside the caller's transaction
type OutboxPublisher struct {
	serializer *EventSerializer
	maxAttempts int
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{
		serializer:  serializer,
		maxAttempts: shared.DefaultMaxAttempts,
	}
}

// WithMaxAttempts sets the delivery attempts allowed before an entry goes dead
func (p *OutboxPublisher) WithMaxAttempts(n int) *OutboxPublisher {
	if n > 0 {
		p.maxAttempts = n
	}
	return p
}

// PublishWithTx stores events through tx so they commit or roll back with the document
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(event, payload)
		entry.MaxAttempts = p.maxAttempts
		entries = append(entries, entry)
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}
