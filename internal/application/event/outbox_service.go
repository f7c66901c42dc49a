package event

import (
	"context"
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultDeadLetterPageSize = 20
	maxDeadLetterPageSize     = 100
)

// OutboxService is the operator view of one scope's outbox: what is stuck and what is queued
type OutboxService struct {
	repo   shared.OutboxAdminRepository
	logger *zap.Logger
}

func NewOutboxService(repo shared.OutboxAdminRepository, logger *zap.Logger) *OutboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutboxService{repo: repo, logger: logger.Named("outbox_admin")}
}

// DeadLetter is an outbox entry that exhausted its delivery attempts
type DeadLetter struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateType string     `json:"aggregate_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	MaxAttempts   int        `json:"max_attempts"`
	LastError     string     `json:"last_error,omitempty"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DeadLetterFilter pages through dead letters
type DeadLetterFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OutboxStats counts entries per delivery status
type OutboxStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// ListDead returns a page of dead letters, most recently failed first
func (s *OutboxService) ListDead(ctx context.Context, scope shared.Scope, filter DeadLetterFilter) (shared.Paginated[DeadLetter], error) {
	page := max(filter.Page, 1)
	pageSize := filter.PageSize
	switch {
	case pageSize < 1:
		pageSize = defaultDeadLetterPageSize
	case pageSize > maxDeadLetterPageSize:
		pageSize = maxDeadLetterPageSize
	}

	entries, total, err := s.repo.FindDead(ctx, scope, page, pageSize)
	if err != nil {
		return shared.Paginated[DeadLetter]{}, err
	}
	items := make([]DeadLetter, len(entries))
	for i, entry := range entries {
		items[i] = toDeadLetter(entry)
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// Requeue gives a dead letter a fresh set of delivery attempts
func (s *OutboxService) Requeue(ctx context.Context, scope shared.Scope, id uuid.UUID) (*DeadLetter, error) {
	entry, err := s.repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Requeue(); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidStateTransition,
			"outbox entry "+id.String()+" is "+string(entry.Status), err)
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("dead letter requeued",
		zap.Stringer("id", id),
		zap.String("event_type", entry.EventType),
		zap.String("scope", scope.String()),
	)
	dl := toDeadLetter(entry)
	return &dl, nil
}

// Stats counts the scope's entries per status
func (s *OutboxService) Stats(ctx context.Context, scope shared.Scope) (*OutboxStats, error) {
	counts, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	stats := &OutboxStats{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	stats.Total = stats.Pending + stats.Processing + stats.Sent + stats.Failed + stats.Dead
	return stats, nil
}

func toDeadLetter(e *shared.OutboxEntry) DeadLetter {
	return DeadLetter{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		Status:        string(e.Status),
		Attempts:      e.Attempts,
		MaxAttempts:   e.MaxAttempts,
		LastError:     e.LastError,
		NextAttemptAt: e.NextAttemptAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
