package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the delivery state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	// DefaultMaxAttempts is how often delivery is tried before an entry goes dead
	DefaultMaxAttempts = 5
	// DefaultRetryDelay is the wait after the first failed attempt. It doubles per attempt.
	DefaultRetryDelay = time.Second
)

var (
	errNotClaimable = errors.New("outbox entry is not pending or failed")
	errNotDead      = errors.New("outbox entry is not dead")
)

// OutboxEntry is a serialized domain event written in the same transaction as the
// change that raised it. The outbox processor delivers it after commit.
type OutboxEntry struct {
	BaseEntity
	Scope Scope

	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte

	Status        OutboxStatus
	Attempts      int
	MaxAttempts   int
	LastError     string
	NextAttemptAt *time.Time
	SentAt        *time.Time
}

// NewOutboxEntry wraps a serialized event as a pending entry in the event's scope
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	return &OutboxEntry{
		BaseEntity:    NewBaseEntity(),
		Scope:         event.Scope(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxAttempts:   DefaultMaxAttempts,
	}
}

// Claimable reports whether a processor may pick the entry up
func (e *OutboxEntry) Claimable() bool {
	return e.Status == OutboxStatusPending || e.Status == OutboxStatusFailed
}

// Claim moves a pending or failed entry to processing
func (e *OutboxEntry) Claim() error {
	if !e.Claimable() {
		return errNotClaimable
	}
	e.Status = OutboxStatusProcessing
	e.Touch()
	return nil
}

// Delivered marks the entry sent
func (e *OutboxEntry) Delivered() {
	now := time.Now()
	e.Status = OutboxStatusSent
	e.SentAt = &now
	e.UpdatedAt = now
}

// AttemptFailed records a failed delivery. The entry is scheduled again after an
// exponentially growing delay, or goes dead once MaxAttempts is reached.
func (e *OutboxEntry) AttemptFailed(reason string) {
	e.Attempts++
	e.LastError = reason
	e.Touch()

	if e.Attempts >= e.MaxAttempts {
		e.Status = OutboxStatusDead
		e.NextAttemptAt = nil
		return
	}
	e.Status = OutboxStatusFailed
	next := e.UpdatedAt.Add(DefaultRetryDelay << (e.Attempts - 1))
	e.NextAttemptAt = &next
}

// Requeue gives a dead entry a fresh set of attempts
func (e *OutboxEntry) Requeue() error {
	if e.Status != OutboxStatusDead {
		return errNotDead
	}
	e.Status = OutboxStatusPending
	e.Attempts = 0
	e.LastError = ""
	e.NextAttemptAt = nil
	e.Touch()
	return nil
}

// OutboxRepository is the processor side of the outbox: claiming and settling entries
// across every scope.
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindPending returns up to limit pending entries, oldest first
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindRetryable returns failed entries whose next attempt is due before the cutoff
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	// MarkProcessing claims the entries and returns the ones this caller won
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeleteOlderThan purges entries sent before the cutoff
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// OutboxAdminRepository is the operator side of the outbox, always within one scope
type OutboxAdminRepository interface {
	FindDead(ctx context.Context, scope Scope, page, pageSize int) ([]*OutboxEntry, int64, error)
	FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*OutboxEntry, error)
	CountByStatus(ctx context.Context, scope Scope) (map[OutboxStatus]int64, error)
	Update(ctx context.Context, entry *OutboxEntry) error
}
