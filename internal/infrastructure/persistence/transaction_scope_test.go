package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/tests/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingOutbox struct {
	events []shared.DomainEvent
}

func (o *recordingOutbox) PublishWithTx(_ context.Context, _ *gorm.DB, events ...shared.DomainEvent) error {
	o.events = append(o.events, events...)
	return nil
}

type testEvent struct {
	shared.EventEnvelope
}

func TestGormTransactionScope_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("commits all repository writes", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		fx := testutil.NewFixture(t, db)
		outbox := &recordingOutbox{}
		txScope := NewGormTransactionScope(db, outbox)

		err := txScope.Execute(ctx, func(repos posting.TransactionalRepositories) error {
			if _, err := repos.CounterRepo().Next(ctx, fx.Scope, numbering.CounterStockEntry); err != nil {
				return err
			}
			return repos.Events().Record(ctx, &testEvent{
				EventEnvelope: shared.NewEventEnvelope("Test", "Test", uuid.New(), fx.Scope),
			})
		})
		require.NoError(t, err)

		current, err := NewGormCounterRepository(db).Current(ctx, fx.Scope, numbering.CounterStockEntry)
		require.NoError(t, err)
		assert.Equal(t, int64(1), current)
		assert.Len(t, outbox.events, 1)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		fx := testutil.NewFixture(t, db)
		txScope := NewGormTransactionScope(db, &recordingOutbox{})

		err := txScope.Execute(ctx, func(repos posting.TransactionalRepositories) error {
			if _, err := repos.CounterRepo().Next(ctx, fx.Scope, numbering.CounterStockEntry); err != nil {
				return err
			}
			return shared.ErrInsufficientStock
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		current, err := NewGormCounterRepository(db).Current(ctx, fx.Scope, numbering.CounterStockEntry)
		require.NoError(t, err)
		assert.Equal(t, int64(0), current)
	})

	t.Run("translates storage conflicts", func(t *testing.T) {
		db := testutil.NewSQLiteDB(t)
		txScope := NewGormTransactionScope(db, nil)

		err := txScope.Execute(ctx, func(posting.TransactionalRepositories) error {
			return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
		})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.True(t, shared.IsRetryable(err))
	})

	t.Run("runs with a configured isolation level", func(t *testing.T) {
		mdb, mock := newMockDatabase(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		txScope := NewGormTransactionScope(mdb.DB, nil, WithIsolationLevel(sql.LevelSerializable))
		require.NoError(t, txScope.Execute(ctx, func(posting.TransactionalRepositories) error { return nil }))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite busy", errors.New("database is locked"), true},
		{"sqlite unique", errors.New("UNIQUE constraint failed: document_headers.reference_no"), true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflictError(tt.err))
		})
	}
}

func TestTranslateTxError_KeepsDomainErrors(t *testing.T) {
	err := shared.WrapDomainError(shared.CodeInvalidInput, "bad line", &pgconn.PgError{Code: "40001"})
	assert.Same(t, err, translateTxError(err))
}

func TestParseIsolationLevel(t *testing.T) {
	assert.Equal(t, sql.LevelReadCommitted, ParseIsolationLevel("read_committed"))
	assert.Equal(t, sql.LevelRepeatableRead, ParseIsolationLevel("REPEATABLE_READ"))
	assert.Equal(t, sql.LevelSerializable, ParseIsolationLevel("serializable"))
	assert.Equal(t, sql.LevelDefault, ParseIsolationLevel(""))
}

func TestGormProductRepository_LocksInIDOrder(t *testing.T) {
	mdb, mock := newMockDatabase(t)

	scope := shared.NewScope(uuid.New(), uuid.New())
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE \(tenant_id = \$1 AND company_id = \$2\) AND id IN \(\$3,\$4\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(scope.TenantID, scope.CompanyID, ids[0], ids[1]).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	products, err := NewGormProductRepository(mdb.DB).FindByIDsForUpdate(context.Background(), scope, ids)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSeriesRepository_LocksOpenLines(t *testing.T) {
	mdb, mock := newMockDatabase(t)

	scope := shared.NewScope(uuid.New(), uuid.New())
	seriesID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "no_series_lines" WHERE .*series_id = \$3 AND open = \$4.* ORDER BY starting_date ASC, id ASC FOR UPDATE`).
		WithArgs(scope.TenantID, scope.CompanyID, seriesID, true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormSeriesRepository(mdb.DB).FindLinesForUpdate(context.Background(), scope, seriesID, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
