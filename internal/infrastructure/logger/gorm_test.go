package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func TestGormLogger_TraceQuery(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM inventory_items", 3
	}, nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "SQL Query", entry.Message)
	assert.Equal(t, "SELECT * FROM inventory_items", entry.ContextMap()["sql"])
	assert.Equal(t, int64(3), entry.ContextMap()["rows"])
}

func TestGormLogger_TraceError(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "UPDATE inventory_items SET version = 2", 0
	}, errors.New("deadlock detected"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "SQL Error", logs.All()[0].Message)
	assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM products WHERE id = $1", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Zero(t, logs.Len())
}

func TestGormLogger_RecordNotFoundLoggedWhenConfigured(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM products WHERE id = $1", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_SlowQueryWarn(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT count(*) FROM activities", 1
	}, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
	assert.Contains(t, logs.All()[0].Message, "SLOW SQL")
}

func TestGormLogger_SilentDropsEverything(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("ignored"))
	gl.Info(context.Background(), "info %s", "message")
	gl.Warn(context.Background(), "warn %s", "message")
	gl.Error(context.Background(), "error %s", "message")

	assert.Zero(t, logs.Len())
}

func TestGormLogger_TraceIncludesRequestID(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-7", logs.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)

	clone := gl.LogMode(gormlogger.Silent)
	assert.NotSame(t, gl, clone)
	assert.Equal(t, gormlogger.Warn, gl.level)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
