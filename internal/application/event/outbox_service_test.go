package event

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	entries   map[uuid.UUID]*shared.OutboxEntry
	updateErr error
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *fakeOutboxRepo) add(scope shared.Scope, status shared.OutboxStatus) *shared.OutboxEntry {
	entry := &shared.OutboxEntry{
		BaseEntity:  shared.NewBaseEntity(),
		Scope:       scope,
		EventID:     uuid.New(),
		EventType:   "DocumentPosted",
		Status:      status,
		MaxAttempts: shared.DefaultMaxAttempts,
	}
	if status == shared.OutboxStatusDead {
		entry.Attempts = entry.MaxAttempts
		entry.LastError = "sender down"
	}
	r.entries[entry.ID] = entry
	return entry
}

func (r *fakeOutboxRepo) FindDead(ctx context.Context, scope shared.Scope, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Scope == scope && e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	total := int64(len(dead))
	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, total, nil
	}
	return dead[start:min(start+pageSize, len(dead))], total, nil
}

func (r *fakeOutboxRepo) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := r.entries[id]; ok && e.Scope == scope {
		return e, nil
	}
	return nil, shared.NewNotFoundError("outbox entry", id.String())
}

func (r *fakeOutboxRepo) CountByStatus(ctx context.Context, scope shared.Scope) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		if e.Scope == scope {
			counts[e.Status]++
		}
	}
	return counts, nil
}

func (r *fakeOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.entries[entry.ID] = entry
	return nil
}

func TestOutboxService_ListDead_Paging(t *testing.T) {
	repo := newFakeOutboxRepo()
	scope := shared.NewScope(uuid.New(), uuid.New())
	for range 5 {
		repo.add(scope, shared.OutboxStatusDead)
	}
	repo.add(scope, shared.OutboxStatusSent)
	repo.add(shared.NewScope(uuid.New(), uuid.New()), shared.OutboxStatusDead)

	svc := NewOutboxService(repo, zap.NewNop())

	tests := []struct {
		name         string
		filter       DeadLetterFilter
		wantPage     int
		wantPageSize int
		wantEntries  int
		wantPages    int
	}{
		{name: "defaults", filter: DeadLetterFilter{}, wantPage: 1, wantPageSize: 20, wantEntries: 5, wantPages: 1},
		{name: "second page", filter: DeadLetterFilter{Page: 2, PageSize: 2}, wantPage: 2, wantPageSize: 2, wantEntries: 2, wantPages: 3},
		{name: "page size capped", filter: DeadLetterFilter{PageSize: 500}, wantPage: 1, wantPageSize: 100, wantEntries: 5, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ListDead(context.Background(), scope, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(5), result.Total)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantPageSize, result.PageSize)
			assert.Len(t, result.Items, tt.wantEntries)
			assert.Equal(t, tt.wantPages, result.TotalPages)
		})
	}
}

func TestOutboxService_Requeue(t *testing.T) {
	scope := shared.NewScope(uuid.New(), uuid.New())

	t.Run("dead entry goes back to pending", func(t *testing.T) {
		repo := newFakeOutboxRepo()
		entry := repo.add(scope, shared.OutboxStatusDead)

		dto, err := NewOutboxService(repo, nil).Requeue(context.Background(), scope, entry.ID)

		require.NoError(t, err)
		assert.Equal(t, string(shared.OutboxStatusPending), dto.Status)
		assert.Zero(t, dto.Attempts)
		assert.Empty(t, dto.LastError)
		assert.Equal(t, shared.OutboxStatusPending, repo.entries[entry.ID].Status)
	})

	t.Run("entry that is not dead", func(t *testing.T) {
		repo := newFakeOutboxRepo()
		entry := repo.add(scope, shared.OutboxStatusSent)

		_, err := NewOutboxService(repo, nil).Requeue(context.Background(), scope, entry.ID)

		assert.ErrorIs(t, err, shared.NewDomainError(shared.CodeInvalidStateTransition, ""))
	})

	t.Run("entry of another scope", func(t *testing.T) {
		repo := newFakeOutboxRepo()
		entry := repo.add(shared.NewScope(uuid.New(), uuid.New()), shared.OutboxStatusDead)

		_, err := NewOutboxService(repo, nil).Requeue(context.Background(), scope, entry.ID)

		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("update failure", func(t *testing.T) {
		repo := newFakeOutboxRepo()
		repo.updateErr = errors.New("db down")
		entry := repo.add(scope, shared.OutboxStatusDead)

		_, err := NewOutboxService(repo, nil).Requeue(context.Background(), scope, entry.ID)

		assert.ErrorIs(t, err, repo.updateErr)
	})
}

func TestOutboxService_Stats(t *testing.T) {
	repo := newFakeOutboxRepo()
	scope := shared.NewScope(uuid.New(), uuid.New())
	repo.add(scope, shared.OutboxStatusPending)
	repo.add(scope, shared.OutboxStatusPending)
	repo.add(scope, shared.OutboxStatusSent)
	repo.add(scope, shared.OutboxStatusDead)
	repo.add(shared.NewScope(uuid.New(), uuid.New()), shared.OutboxStatusFailed)

	stats, err := NewOutboxService(repo, nil).Stats(context.Background(), scope)

	require.NoError(t, err)
	assert.Equal(t, &OutboxStats{Pending: 2, Sent: 1, Dead: 1, Total: 4}, stats)
}
