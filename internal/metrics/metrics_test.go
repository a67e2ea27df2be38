package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHelpersAreNoOpsBeforeInit(t *testing.T) {
	// Must not panic with nil collectors.
	JobObserved("succeeded")
	RecordsAdded(3)
	EmailsFound(2)
	WorkerStarted()
	WorkerFinished()
	SetPaused(true)
}

func TestCollectorsObserve(t *testing.T) {
	Init()
	Init() // idempotent

	JobObserved("failed")
	require.Equal(t, 1.0, testutil.ToFloat64(jobsTotal.WithLabelValues("failed")))

	RecordsAdded(2)
	RecordsAdded(0)
	RecordsAdded(-1)
	require.Equal(t, 2.0, testutil.ToFloat64(recordsTotal))

	EmailsFound(3)
	require.Equal(t, 3.0, testutil.ToFloat64(emailsTotal))

	WorkerStarted()
	WorkerStarted()
	WorkerFinished()
	require.Equal(t, 1.0, testutil.ToFloat64(activeWorkers))

	SetPaused(true)
	require.Equal(t, 1.0, testutil.ToFloat64(pausedState))
	SetPaused(false)
	require.Equal(t, 0.0, testutil.ToFloat64(pausedState))
}
