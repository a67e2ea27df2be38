// Package metrics exposes Prometheus collectors for the harvester.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsTotal     *prometheus.CounterVec
	recordsTotal  prometheus.Counter
	emailsTotal   prometheus.Counter
	activeWorkers prometheus.Gauge
	pausedState   prometheus.Gauge

	once sync.Once
)

// Init registers the collectors with the default registry. Safe to call
// multiple times; callers that never Init get no-op observation functions.
func Init() {
	once.Do(func() {
		jobsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_jobs_total",
				Help: "Total number of jobs processed, labeled by status.",
			},
			[]string{"status"},
		)
		recordsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_records_total",
				Help: "Total number of unique records collected.",
			},
		)
		emailsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvester_emails_total",
				Help: "Total number of e-mail addresses discovered by enrichment.",
			},
		)
		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "harvester_active_workers",
				Help: "Number of jobs currently holding an execution slot.",
			},
		)
		pausedState = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "harvester_paused",
				Help: "1 while the run is paused, 0 otherwise.",
			},
		)
	})
}

// JobObserved increments the job counter for the given terminal status.
func JobObserved(status string) {
	if jobsTotal != nil {
		jobsTotal.WithLabelValues(status).Inc()
	}
}

// RecordsAdded counts newly collected unique records.
func RecordsAdded(n int) {
	if recordsTotal != nil && n > 0 {
		recordsTotal.Add(float64(n))
	}
}

// EmailsFound counts discovered e-mail addresses.
func EmailsFound(n int) {
	if emailsTotal != nil && n > 0 {
		emailsTotal.Add(float64(n))
	}
}

// WorkerStarted marks a job entering its execution slot.
func WorkerStarted() {
	if activeWorkers != nil {
		activeWorkers.Inc()
	}
}

// WorkerFinished marks a job leaving its execution slot.
func WorkerFinished() {
	if activeWorkers != nil {
		activeWorkers.Dec()
	}
}

// SetPaused records the pause gate state.
func SetPaused(paused bool) {
	if pausedState == nil {
		return
	}
	if paused {
		pausedState.Set(1)
	} else {
		pausedState.Set(0)
	}
}
