package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLoggerOptions(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreNotFoundErrs)
}

func TestGormLoggerLogModeCopies(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)
	lowered := gl.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gl.level)
	clone, ok := lowered.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, clone.level)
}

func TestGormLoggerLevelGates(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn)
	ctx := context.Background()

	gl.Info(ctx, "dropped at warn level")
	assert.Empty(t, recorded.All())

	gl.Warn(ctx, "kept %d", 1)
	gl.Error(ctx, "kept too")
	assert.Len(t, recorded.All(), 2)
}

func TestGormLoggerTraceError(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM sales", 0), errors.New("connection reset"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Error", logs[0].Message)
}

func TestGormLoggerTraceIgnoresRecordNotFound(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM products WHERE id = ?", 0), gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLoggerTraceSlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, traceQuery("SELECT * FROM inventory_items", 40), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
}

func TestGormLoggerTraceNormalQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), traceQuery("SELECT * FROM branches", 3), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Query", logs[0].Message)
}

func TestGormLoggerTraceSilent(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), traceQuery("SELECT 1", 1), nil)

	assert.Empty(t, recorded.All())
}

func TestGormLoggerTraceCarriesRequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")

	gl.Trace(ctx, time.Now(), traceQuery("SELECT * FROM expense_records", 2), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	found := false
	for _, field := range logs[0].Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-42", field.String)
		}
	}
	assert.True(t, found, "request_id should be attached to query logs")
}

func TestMapGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
		"bogus":  gormlogger.Warn,
		"":      gormlogger.Warn,
	}
	for input, want := range cases {
		assert.Equal(t, want, MapGormLogLevel(input), "level %q", input)
	}
}
