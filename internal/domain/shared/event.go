package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate inside a posting transaction. It is
// written to the outbox with the transaction and delivered after commit.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	Scope() Scope
}

// EventEnvelope is the header every concrete event embeds. Its JSON form is part of
// the outbox payload, so field tags must stay stable.
type EventEnvelope struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	OccurredOn    time.Time `json:"timestamp"`
	Aggregate     uuid.UUID `json:"aggregate_id"`
	AggregateKind string    `json:"aggregate_type"`
	Tenant        uuid.UUID `json:"tenant_id"`
	Company       uuid.UUID `json:"company_id"`
	Schema        int       `json:"schema_version,omitempty"`
}

// NewEventEnvelope stamps a new event of eventType raised by the aggregate in scope
func NewEventEnvelope(eventType, aggregateType string, aggregateID uuid.UUID, scope Scope) EventEnvelope {
	return EventEnvelope{
		ID:            uuid.New(),
		Type:          eventType,
		OccurredOn:    time.Now().UTC(),
		Aggregate:     aggregateID,
		AggregateKind: aggregateType,
		Tenant:        scope.TenantID,
		Company:       scope.CompanyID,
		Schema:        1,
	}
}

func (e *EventEnvelope) EventID() uuid.UUID     { return e.ID }
func (e *EventEnvelope) EventType() string      { return e.Type }
func (e *EventEnvelope) OccurredAt() time.Time  { return e.OccurredOn }
func (e *EventEnvelope) AggregateID() uuid.UUID { return e.Aggregate }
func (e *EventEnvelope) AggregateType() string  { return e.AggregateKind }
func (e *EventEnvelope) Scope() Scope           { return NewScope(e.Tenant, e.Company) }

// SchemaVersion is 1 for payloads written before versions were recorded
func (e *EventEnvelope) SchemaVersion() int {
	if e.Schema == 0 {
		return 1
	}
	return e.Schema
}
