package scrape

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/logging"
	"github.com/mapleads/lead-harvester/internal/status"
)

// Config tunes a Coordinator.
type Config struct {
	// MapsURL is the interactive listing source entry point.
	MapsURL string
	// SearchInputSelector locates the query input box.
	SearchInputSelector string
	// ResultsSelector locates entries of the paginated results pane.
	ResultsSelector string
	// Target caps collected records per query; <= 0 means unbounded.
	Target int
	// NavTimeout bounds each page navigation.
	NavTimeout time.Duration
	// SearchTimeout bounds the wait for the results URL transition.
	SearchTimeout time.Duration
}

// Deps are the collaborators a Coordinator drives.
type Deps struct {
	NewBrowser BrowserFactory
	Gate       *Gate
	Collector  *Collector
	Scheduler  *Scheduler
	Paginator  *Paginator
	Prober     *Prober
	Extract    ExtractFunc
	Savers     []Saver
	Reporter   status.Reporter
	Logger     *zap.Logger
}

// Coordinator ties the orchestrator together: it drains query jobs, then
// enrichment jobs, hands the final collection to the savers, and resets the
// collector for the next run.
type Coordinator struct {
	cfg        Config
	newBrowser BrowserFactory
	gate       *Gate
	collector  *Collector
	scheduler  *Scheduler
	paginator  *Paginator
	prober     *Prober
	extract    ExtractFunc
	savers     []Saver
	reporter   status.Reporter
	logger     *zap.Logger
}

// RunReport summarizes one finished run. A run with zero records or with
// failed jobs is still a normal, reportable outcome.
type RunReport struct {
	RunID         string
	Records       []*Record
	QueryResults  []JobResult
	EnrichResults []JobResult
	OutputPaths   []string
}

// FailedJobs counts jobs that ended with an error across both phases.
func (r *RunReport) FailedJobs() int {
	n := 0
	for _, res := range r.QueryResults {
		if res.Err != nil {
			n++
		}
	}
	for _, res := range r.EnrichResults {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// NewCoordinator wires a Coordinator from its dependencies.
func NewCoordinator(cfg Config, deps Deps) *Coordinator {
	reporter := deps.Reporter
	if reporter == nil {
		reporter = status.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		cfg:        cfg,
		newBrowser: deps.NewBrowser,
		gate:       deps.Gate,
		collector:  deps.Collector,
		scheduler:  deps.Scheduler,
		paginator:  deps.Paginator,
		prober:     deps.Prober,
		extract:    deps.Extract,
		savers:     deps.Savers,
		reporter:   reporter,
		logger:     logger,
	}
}

// Run executes a full scrape session: the query phase, then the enrichment
// phase over the collected records, then persistence. The run always
// completes with partial results rather than stopping on the first error;
// the only abort path is failing to acquire the shared browser.
func (c *Coordinator) Run(ctx context.Context, queries []string) (*RunReport, error) {
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	runID := uuid.NewString()
	logger := logging.ForRun(c.logger, runID)
	logger.Info("starting run", zap.Strings("queries", queries))

	browser, err := c.newBrowser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: start browser: %v", ErrRunAborted, err)
	}
	c.statusf("Browser instance started.")

	target := c.cfg.Target
	if target <= 0 {
		target = math.MaxInt
	}

	queryJobs := make([]Job, 0, len(queries))
	for _, q := range queries {
		queryJobs = append(queryJobs, &queryJob{coord: c, browser: browser, query: q, target: target})
	}
	queryResults := c.scheduler.RunAll(ctx, queryJobs)
	c.reportFailures(queryResults)

	records := c.collector.Snapshot()
	c.statusf("Starting e-mail extraction for %d records...", len(records))
	enrichJobs := make([]Job, 0, len(records))
	for _, rec := range records {
		enrichJobs = append(enrichJobs, &enrichmentJob{coord: c, record: rec})
	}
	enrichResults := c.scheduler.RunAll(ctx, enrichJobs)
	c.reportFailures(enrichResults)

	if cerr := browser.Close(); cerr != nil {
		logger.Warn("close browser", zap.Error(cerr))
	}
	c.statusf("Browser instance closed.")

	final := c.collector.Snapshot()
	report := &RunReport{
		RunID:         runID,
		Records:       final,
		QueryResults:  queryResults,
		EnrichResults: enrichResults,
	}

	if len(final) == 0 {
		c.statusf("Scraping session finished, but no data was collected.")
	} else {
		report.OutputPaths = c.save(ctx, final, nameHint(queries))
	}

	c.collector.Reset()
	c.statusf("Scraping session finished successfully!")
	logger.Info("run finished",
		zap.Int("records", len(final)),
		zap.Int("failed_jobs", report.FailedJobs()),
	)
	return report, nil
}

func (c *Coordinator) save(ctx context.Context, records []*Record, hint string) []string {
	var paths []string
	for _, saver := range c.savers {
		path, err := saver.Save(ctx, records, hint)
		if err != nil {
			c.statusf("Failed to save collected data: %v", err)
			c.logger.Error("save failed", zap.Error(err))
			continue
		}
		if path != "" {
			paths = append(paths, path)
			c.statusf("All collected data saved to %q.", path)
		}
	}
	return paths
}

func (c *Coordinator) reportFailures(results []JobResult) {
	for _, res := range results {
		if res.Err != nil {
			c.statusf("ERROR: %v", res.Err)
		}
	}
}

func (c *Coordinator) statusf(format string, args ...any) {
	c.reporter.Report(fmt.Sprintf(format, args...))
}

// nameHint derives the output file stem from the query list. Queries are
// user input and the stem joins a filesystem path, so path separators and
// dots are flattened along with spaces.
func nameHint(queries []string) string {
	hint := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', '.', ':':
			return '_'
		}
		return r
	}, queries[0])
	if len(queries) > 1 {
		hint += fmt.Sprintf("_and_%d_others", len(queries)-1)
	}
	return hint
}
