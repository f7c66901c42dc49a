package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func attrMap(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestNewDBTracingPlugin_DefaultsThreshold(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
}

func TestDBTracingPlugin_Register(t *testing.T) {
	t.Run("disabled leaves callbacks untouched", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).Register(db))
		assert.Nil(t, db.Callback().Query().Get("posting_trace:after_query"))
	})

	t.Run("enabled keeps queries working", func(t *testing.T) {
		db := setupTestDB(t)
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		cfg.DBName = "sqlite"
		require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))
		assert.NotNil(t, db.Callback().Query().Get("posting_trace:after_query"))

		require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
		var got tracedRow
		require.NoError(t, db.First(&got).Error)
		assert.Equal(t, "a", got.Name)
	})
}

func TestDBTracingPlugin_Annotate(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, zap.NewNop())
	db := setupTestDB(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "db-op")
	tx := db.WithContext(ctx)
	markQueryStart(tx)
	tx.Statement.Table = "products"
	tx.Statement.RowsAffected = 3
	_ = tx.AddError(errors.New("boom"))
	time.Sleep(time.Millisecond)

	p.annotate(tx)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := attrMap(ended[0])
	assert.Equal(t, int64(3), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "products", attrs["db.sql.table"].AsString())
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestDBTracingPlugin_AnnotateIgnoresRecordNotFound(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, zap.NewNop())
	db := setupTestDB(t)

	ctx, span := tp.Tracer("test").Start(context.Background(), "db-op")
	tx := db.WithContext(ctx)
	_ = tx.AddError(gorm.ErrRecordNotFound)
	p.annotate(tx)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	_, slow := attrMap(ended[0])["db.slow_query"]
	assert.False(t, slow)
}
