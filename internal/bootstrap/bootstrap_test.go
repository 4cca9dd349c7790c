package bootstrap_test

import (
	"context"
	"testing"

	"staffly/internal/bootstrap"
	"staffly/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	audit := bootstrap.NewStdoutAuditLogger(zap.New(core))

	audit.Log(context.Background(), bootstrap.AuditLog{
		Action:  "PAYROLL_GENERATED",
		Message: "payroll_generated",
		Meta:    map[string]any{"aggregate_id": "2024-06"},
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit", entry.LoggerName)
	fields := entry.ContextMap()
	assert.Equal(t, "PAYROLL_GENERATED", fields["action"])
	assert.Equal(t, "payroll_generated", fields["message"])
	assert.NotEmpty(t, fields["timestamp"])
}

func TestNewLogger_ReplacesGlobal(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	logger, err := bootstrap.NewLogger(config.Config{Env: "production"})
	require.NoError(t, err)
	assert.Same(t, logger, zap.L())
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = bootstrap.NewLogger(config.Config{Env: "development"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
