// Package testutil holds the fixtures shared by the posting engine tests. It builds
// SQLite and sqlmock backed gorm connections, seeds master data, and drives the HTTP
// API through httptest.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewMockGorm returns a postgres dialect gorm connection over sqlmock. The mock is
// checked for unmet expectations when the test ends.
func NewMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unmet sql expectations")
		_ = conn.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"}), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

// RandomScope returns a fresh scope so tests sharing a database never see each other's rows
func RandomScope() shared.Scope {
	return shared.NewScope(uuid.New(), uuid.New())
}

// ContextWithTimeout is cancelled after timeout or when the test ends
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
