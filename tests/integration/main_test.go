package integration

import (
	"context"
	"os"
	"testing"

	"github.com/erp/posting/internal/application/ledger"
	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/infrastructure/event"
	"github.com/erp/posting/internal/infrastructure/persistence"
	"github.com/erp/posting/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// env is one freshly seeded scope on the shared database with the services wired as in cmd/server
type env struct {
	db          *TestDB
	fx          *testutil.Fixture
	serializer  *event.EventSerializer
	coordinator *posting.Coordinator
	queries     *posting.QueryService
	audit       *ledger.AuditService
	log         *zap.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	log := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	txScope := persistence.NewGormTransactionScope(testDB.DB, event.NewOutboxPublisher(serializer),
		persistence.WithIsolationLevel(persistence.ParseIsolationLevel("read_committed")),
	)

	return &env{
		db:          testDB,
		fx:          testutil.NewFixture(t, testDB.DB),
		serializer:  serializer,
		coordinator: posting.NewCoordinator(txScope, posting.Config{MaxRetries: 5}, log),
		queries: posting.NewQueryService(
			persistence.NewGormDocumentRepository(testDB.DB),
			persistence.NewGormStockHistoryRepository(testDB.DB),
			persistence.NewGormProductRepository(testDB.DB),
		),
		audit: ledger.NewAuditService(
			persistence.NewSQLLedgerAuditRepository(testDB.Sqlx()),
			persistence.NewGormCounterRepository(testDB.DB),
			numbering.CounterStockEntry,
			log,
		),
		log: log,
	}
}

// requireConsistent fails the test unless the ledger audit of the env scope is clean
func (e *env) requireConsistent(t *testing.T) *ledger.Report {
	t.Helper()

	report, err := e.audit.Audit(context.Background(), e.fx.Scope)
	require.NoError(t, err)
	require.True(t, report.Consistent, "ledger audit found problems: %+v", report)
	return report
}
