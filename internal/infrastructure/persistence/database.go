package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erp/posting/internal/infrastructure/config"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is the shared PostgreSQL pool seen through gorm for the posting path and
// through database/sql for hand-written reads
type Database struct {
	DB  *gorm.DB
	SQL *sql.DB
}

// Open connects to PostgreSQL and sizes the pool from cfg. A nil gormLogger silences gorm.
func Open(cfg *config.DatabaseConfig, gormLogger gormlogger.Interface) (*Database, error) {
	if gormLogger == nil {
		gormLogger = gormlogger.Discard
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
		// every write goes through an explicit transaction scope
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Database{DB: db, SQL: sqlDB}, nil
}

// Ping is the readiness check of the pool
func (d *Database) Ping(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

// Sqlx wraps the pool for sqlx based repositories
func (d *Database) Sqlx() *sqlx.DB {
	return sqlx.NewDb(d.SQL, "pgx")
}

func (d *Database) Close() error {
	return d.SQL.Close()
}
