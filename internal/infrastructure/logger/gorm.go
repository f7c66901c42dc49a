package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// SQLLoggerConfig tunes SQLLogger
type SQLLoggerConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration // zero disables slow statement warnings
	LogNotFound   bool          // log gorm.ErrRecordNotFound as an error
}

// SQLLogger is a gorm logger writing to zap. Every statement carries the request,
// trace and scope of its context. Row-lock statements are tagged so that lock waits
// inside a posting transaction are easy to find among the slow ones.
type SQLLogger struct {
	log *zap.Logger
	cfg SQLLoggerConfig
}

func NewSQLLogger(log *zap.Logger, cfg SQLLoggerConfig) *SQLLogger {
	return &SQLLogger{log: log.Named("sql"), cfg: cfg}
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.cfg.Level = level
	return &cp
}

func (l *SQLLogger) Info(_ context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

func (l *SQLLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

func (l *SQLLogger) Error(_ context.Context, msg string, data ...any) {
	if l.cfg.Level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}
	if err != nil && !l.cfg.LogNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold
	switch {
	case err != nil && l.cfg.Level >= gormlogger.Error:
		l.log.Error("sql statement failed", l.fields(ctx, elapsed, fc, zap.Error(err))...)
	case slow && l.cfg.Level >= gormlogger.Warn:
		l.log.Warn("slow sql statement", l.fields(ctx, elapsed, fc, zap.Duration("threshold", l.cfg.SlowThreshold))...)
	case l.cfg.Level >= gormlogger.Info:
		l.log.Debug("sql statement", l.fields(ctx, elapsed, fc)...)
	}
}

func (l *SQLLogger) fields(ctx context.Context, elapsed time.Duration, fc func() (string, int64), extra ...zap.Field) []zap.Field {
	sql, rows := fc()
	fields := append([]zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}, extra...)
	if isLocking(sql) {
		fields = append(fields, zap.Bool("row_lock", true))
	}
	if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := TraceID(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id))
	}
	if scope, ok := ScopeFrom(ctx); ok {
		fields = append(fields, ScopeFields(scope)...)
	}
	return fields
}

func isLocking(sql string) bool {
	upper := strings.ToUpper(sql)
	return strings.Contains(upper, "FOR UPDATE") || strings.Contains(upper, "FOR SHARE")
}

// ParseSQLLogLevel maps the application log level onto gorm's levels. Statements are
// only traced at debug.
func ParseSQLLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
