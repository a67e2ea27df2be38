package scrape

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/metrics"
)

// Job is one unit of scheduled work: a query search or a record enrichment.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobResult pairs a job with its outcome. Err is nil on success and a
// *JobError otherwise.
type JobResult struct {
	Job Job
	Err error
}

// Scheduler runs job batches under a counting admission limiter. It is
// invoked once per phase with a fresh batch; the two phases of a run share
// the same worker budget and never overlap because RunAll only returns
// after every job has finished or failed.
type Scheduler struct {
	limit  int
	logger *zap.Logger
}

// NewScheduler builds a Scheduler with the given concurrency limit,
// normalized to at least 1.
func NewScheduler(limit int, logger *zap.Logger) *Scheduler {
	if limit < 1 {
		limit = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{limit: limit, logger: logger}
}

// DefaultConcurrency derives the worker budget from the host processing
// units minus a small reserve, floored at 1.
func DefaultConcurrency() int {
	n := runtime.NumCPU() - 2
	if n < 1 {
		return 1
	}
	return n
}

// Limit reports the admission limit.
func (s *Scheduler) Limit() int { return s.limit }

// RunAll executes every job with at most limit bodies running concurrently
// and returns one result per job, index-aligned with jobs. A failing job is
// recorded in its own slot and never cancels or blocks its siblings.
func (s *Scheduler) RunAll(ctx context.Context, jobs []Job) []JobResult {
	results := make([]JobResult, len(jobs))
	sem := make(chan struct{}, s.limit)

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = JobResult{Job: job, Err: &JobError{Job: job.Name(), Err: ctx.Err()}}
				metrics.JobObserved("canceled")
				return
			}
			defer func() { <-sem }()

			metrics.WorkerStarted()
			err := s.runOne(ctx, job)
			metrics.WorkerFinished()

			results[i] = JobResult{Job: job, Err: err}
			if err != nil {
				metrics.JobObserved("failed")
				s.logger.Warn("job failed", zap.String("job", job.Name()), zap.Error(err))
			} else {
				metrics.JobObserved("succeeded")
			}
		}(i, job)
	}
	wg.Wait()
	return results
}

// runOne executes a single job body, converting panics and errors into a
// JobError so the failure stays inside this job's slot.
func (s *Scheduler) runOne(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &JobError{Job: job.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if runErr := job.Run(ctx); runErr != nil {
		return &JobError{Job: job.Name(), Err: runErr}
	}
	return nil
}
