package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewBuildsBothProfiles(t *testing.T) {
	t.Parallel()

	dev, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, dev)
	require.True(t, dev.Core().Enabled(zap.DebugLevel))

	prod, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, prod)
	require.False(t, prod.Core().Enabled(zap.DebugLevel))
}

func TestForRunTagsEveryLine(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := ForRun(zap.New(core), "run-123")

	logger.Info("starting run")
	logger.Info("run finished")

	entries := logs.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		fields := e.ContextMap()
		require.Equal(t, "run-123", fields[RunIDKey])
	}
}

func TestForRunNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	logger := ForRun(nil, "run-123")
	require.NotNil(t, logger)
	logger.Info("no-op")
}
