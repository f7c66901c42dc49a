// Package integration runs the posting engine against a real PostgreSQL database
// started with testcontainers and migrated with the SQL files under migrations/.
package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/erp/posting/internal/infrastructure/config"
	"github.com/erp/posting/internal/infrastructure/logger"
	"github.com/erp/posting/internal/infrastructure/migration"
	"github.com/erp/posting/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	gormlogger "gorm.io/gorm/logger"
)

// sharedPostgres is started once per package run. Tests isolate themselves by seeding
// a fresh scope rather than a fresh database.
type sharedPostgres struct {
	once      sync.Once
	mu        sync.Mutex
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
	err       error
}

var pg sharedPostgres

// TestDB is one pool on the shared database, closed when the test ends
type TestDB struct {
	*persistence.Database
}

// NewTestDB starts and migrates the shared container on first use and opens a pool on it.
// TEST_DB_DEBUG=1 routes every statement through the sql logger.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	pg.once.Do(func() { pg.err = pg.start(context.Background()) })
	require.NoError(t, pg.err, "shared postgres container")

	var gl gormlogger.Interface
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gl = logger.NewSQLLogger(zaptest.NewLogger(t), logger.SQLLoggerConfig{
			Level:         gormlogger.Info,
			SlowThreshold: 200 * time.Millisecond,
		})
	}

	cfg := pg.cfg
	db, err := persistence.Open(&cfg, gl)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{Database: db}
}

func (p *sharedPostgres) start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("posting_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		return fmt.Errorf("start container: %w", err)
	}
	p.container = container

	host, err := container.Host(ctx)
	if err != nil {
		return fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return fmt.Errorf("container port: %w", err)
	}
	portNo, err := strconv.Atoi(port.Port())
	if err != nil {
		return fmt.Errorf("container port %q: %w", port.Port(), err)
	}

	p.cfg = config.DatabaseConfig{
		Host:     host,
		Port:     portNo,
		User:     "postgres",
		Password: "postgres",
		DBName:   "posting_test",
		SSLMode:  "disable",
		// the concurrency tests run twenty posters at once
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}
	return p.migrate()
}

func (p *sharedPostgres) migrate() error {
	dir := findMigrationsPath()
	if dir == "" {
		return fmt.Errorf("migrations directory not found")
	}

	cfg := p.cfg
	db, err := persistence.Open(&cfg, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := migration.New(db.SQL, dir, zap.NewNop())
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}
	return m.Up()
}

// findMigrationsPath walks up from this file to the module's migrations directory
func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	for dir := filepath.Dir(filename); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// CleanupSharedContainer terminates the shared container. TestMain calls it after m.Run.
func CleanupSharedContainer() {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = pg.container.Terminate(ctx)
	pg.container = nil
}
