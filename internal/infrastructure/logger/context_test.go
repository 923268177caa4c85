package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("hello")

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
}

func TestFromContext_NoLoggerAttached(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotNil(t, log)
	// No-op logger should not panic
	log.Info("dropped")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), base, "req-42")

	assert.Equal(t, "req-42", GetRequestID(ctx))

	enriched.Info("tagged")
	entry := logs.All()[0]
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])

	// The enriched logger is also reachable through the context
	FromContext(ctx).Info("from context")
	assert.Equal(t, "req-42", logs.All()[1].ContextMap()["request_id"])
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
