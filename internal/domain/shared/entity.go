package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the identity and bookkeeping timestamps of a persisted row
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity returns an entity with a random ID, created and updated now
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// ScopedAggregateRoot is an entity owned by one tenant and company that guards its own
// consistency. Version backs optimistic locking; events raised by mutations are held
// until the surrounding unit of work records them.
type ScopedAggregateRoot struct {
	BaseEntity
	Scope   Scope
	Version int

	events []DomainEvent
}

// NewScopedAggregateRoot starts a version 1 aggregate in scope
func NewScopedAggregateRoot(scope Scope) ScopedAggregateRoot {
	return ScopedAggregateRoot{BaseEntity: NewBaseEntity(), Scope: scope, Version: 1}
}

// Bump advances the version and touches the entity
func (a *ScopedAggregateRoot) Bump() {
	a.Version++
	a.Touch()
}

// Raise queues an event for publication
func (a *ScopedAggregateRoot) Raise(event DomainEvent) {
	a.events = append(a.events, event)
}

// PendingEvents returns the queued events and empties the queue
func (a *ScopedAggregateRoot) PendingEvents() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
