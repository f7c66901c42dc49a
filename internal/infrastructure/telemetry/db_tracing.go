package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures the gorm tracing plugin.
type DBTracingConfig struct {
	Enabled bool
	// WithVariables includes bound query variables in span statements. Development only.
	WithVariables   bool
	SlowQueryThresh time.Duration
	DBName          string
}

// DefaultDBTracingConfig returns a disabled config with a 200ms slow query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "postgresql",
	}
}

// DBTracingPlugin registers otelgorm on a connection and annotates its spans with row counts,
// table names and a slow query marker.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a DBTracingPlugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = DefaultDBTracingConfig().SlowQueryThresh
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// Register installs otelgorm and the timing callbacks on db. It is a no-op when disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.WithVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("posting_trace:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("posting_trace:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("posting_trace:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("posting_trace:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("posting_trace:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("posting_trace:before_raw", markQueryStart),
		cb.Create().After("gorm:create").Register("posting_trace:after_create", p.annotate),
		cb.Query().After("gorm:query").Register("posting_trace:after_query", p.annotate),
		cb.Update().After("gorm:update").Register("posting_trace:after_update", p.annotate),
		cb.Delete().After("gorm:delete").Register("posting_trace:after_delete", p.annotate),
		cb.Row().After("gorm:row").Register("posting_trace:after_row", p.annotate),
		cb.Raw().After("gorm:raw").Register("posting_trace:after_raw", p.annotate),
	); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("with_variables", p.config.WithVariables),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) annotate(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
