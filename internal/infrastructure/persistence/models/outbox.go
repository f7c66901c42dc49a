package models

import (
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// OutboxEntryModel is a row of outbox_events
type OutboxEntryModel struct {
	BaseModel
	ScopeModel
	EventID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string    `gorm:"type:varchar(255);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null"`
	AggregateType string    `gorm:"type:varchar(255);not null"`
	Payload       []byte    `gorm:"type:jsonb;not null"`

	Status        shared.OutboxStatus `gorm:"type:varchar(20);not null;default:PENDING"`
	Attempts      int                 `gorm:"not null;default:0"`
	MaxAttempts   int                 `gorm:"not null;default:5"`
	LastError     string              `gorm:"type:text"`
	NextAttemptAt *time.Time
	SentAt        *time.Time
}

func (OutboxEntryModel) TableName() string {
	return "outbox_events"
}

// ToDomain converts the row to an outbox entry
func (m *OutboxEntryModel) ToDomain() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		Scope:         m.ScopeModel.Scope(),
		EventID:       m.EventID,
		EventType:     m.EventType,
		AggregateID:   m.AggregateID,
		AggregateType: m.AggregateType,
		Payload:       m.Payload,
		Status:        m.Status,
		Attempts:      m.Attempts,
		MaxAttempts:   m.MaxAttempts,
		LastError:     m.LastError,
		NextAttemptAt: m.NextAttemptAt,
		SentAt:        m.SentAt,
	}
}

// OutboxEntryModelFromDomain builds the row for an outbox entry
func OutboxEntryModelFromDomain(e *shared.OutboxEntry) *OutboxEntryModel {
	m := &OutboxEntryModel{
		ScopeModel:    ScopeModelFromDomain(e.Scope),
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Payload:       e.Payload,
		Status:        e.Status,
		Attempts:      e.Attempts,
		MaxAttempts:   e.MaxAttempts,
		LastError:     e.LastError,
		NextAttemptAt: e.NextAttemptAt,
		SentAt:        e.SentAt,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
